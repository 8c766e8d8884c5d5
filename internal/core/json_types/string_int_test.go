package json_types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIntUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		value int
	}{
		{`"0"`, 0},
		{`"1"`, 1},
		{`"30"`, 30},
		{`"-1"`, -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var i StringInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &i))
			assert.Equal(t, tt.value, i.Int())
		})
	}
}

func TestStringIntUnmarshalJSONInvalid(t *testing.T) {
	// Число без кавычек, дробь и пустая строка - нарушение контракта
	invalid := []string{`30`, `"30.5"`, `""`, `"thirty"`, `"1e2"`, `null`}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			var i StringInt
			assert.Error(t, json.Unmarshal([]byte(input), &i))
		})
	}
}

func TestStringIntMarshalJSON(t *testing.T) {
	data, err := json.Marshal(StringInt(15))
	require.NoError(t, err)
	assert.Equal(t, `"15"`, string(data))
}
