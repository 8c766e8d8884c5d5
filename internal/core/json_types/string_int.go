package json_types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StringInt - целое число, которое МИС кодирует строкой ("30", "1").
// Парсим строго по основанию 10, без приведения типов:
// некорректное значение - фатальная ошибка для всего ответа.
type StringInt int

func (i *StringInt) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("numeric field must be a string-encoded integer: %w", err)
	}

	value, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse string-encoded integer %q: %w", str, err)
	}

	*i = StringInt(value)
	return nil
}

func (i StringInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(i)))
}

func (i StringInt) Int() int {
	return int(i)
}
