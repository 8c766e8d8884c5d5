package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

func parseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse("2006-01-02", str)
	// Если не удалось, пробуем как дату со временем, но без таймзоны
	if err != nil {
		parsedDate, err = time.Parse("2006-01-02T15:04:05", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: %w", str, err)
		}
	}

	return parsedDate, nil
}

// Date - календарная дата из ответа МИС, без времени и таймзоны
type Date struct {
	Date time.Time
}

func (t *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = Date{Date: parsedDate}
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format("2006-01-02"))
}
