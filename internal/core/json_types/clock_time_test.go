package json_types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
	}{
		{"9:00 AM", 9 * 60},
		{"9:15 AM", 9*60 + 15},
		{"12:00 PM", 12 * 60},
		{"12:00 AM", 0},
		{"1:30 PM", 13*60 + 30},
		{"11:59 PM", 23*60 + 59},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := ParseClockTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, parsed.Minutes)
		})
	}
}

func TestParseClockTimeInvalid(t *testing.T) {
	// 24-часовой формат и мусор не проходят: время без суффикса AM/PM
	// означает, что МИС сменила формат, и это должно быть видно сразу
	invalid := []string{"", "9:00", "13:00 PM", "14:30", "morning", "9.00 AM"}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParseClockTime(input)
			assert.Error(t, err)
		})
	}
}

func TestClockTimeUnmarshalJSON(t *testing.T) {
	var ct ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"2:45 PM"`), &ct))
	assert.Equal(t, 14*60+45, ct.Minutes)

	// Числовое значение - нарушение контракта, не приводим молча
	assert.Error(t, json.Unmarshal([]byte(`870`), &ct))
	assert.Error(t, json.Unmarshal([]byte(`"870"`), &ct))
}

func TestClockTimeRoundTrip(t *testing.T) {
	ct := NewClockTime(9, 15)
	data, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"9:15 AM"`, string(data))

	var parsed ClockTime
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ct, parsed)
}

func TestClockTimeAddAndBefore(t *testing.T) {
	start := NewClockTime(9, 0)
	end := start.Add(30)

	assert.Equal(t, 9*60+30, end.Minutes)
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
	assert.False(t, start.Before(start))
}

func TestClockTimeAt(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	at := NewClockTime(9, 30).At(date)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, loc), at)
	assert.Equal(t, loc, at.Location())
}
