package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Текстовый формат времени, который отдает МИС: 12-часовой циферблат с суффиксом AM/PM
const clockTimeLayout = "3:04 PM"

// ClockTime - нормализованное время суток в минутах от полуночи.
// Парсится из текстового формата МИС ("9:00 AM"), ошибка парсинга
// считается нарушением контракта интеграции и никогда не глотается.
type ClockTime struct {
	Minutes int
}

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{Minutes: hour*60 + minute}
}

// ParseClockTime парсит время из текстового 12-часового формата МИС
func ParseClockTime(str string) (ClockTime, error) {
	parsedTime, err := time.Parse(clockTimeLayout, str)
	if err != nil {
		return ClockTime{}, fmt.Errorf("failed to parse clock time %q: %w", str, err)
	}

	return ClockTime{Minutes: parsedTime.Hour()*60 + parsedTime.Minute()}, nil
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("clock time must be a string: %w", err)
	}

	parsed, err := ParseClockTime(str)
	if err != nil {
		return err
	}

	t.Minutes = parsed.Minutes
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Add возвращает время суток, сдвинутое на minutes минут вперед
func (t ClockTime) Add(minutes int) ClockTime {
	return ClockTime{Minutes: t.Minutes + minutes}
}

func (t ClockTime) Before(other ClockTime) bool {
	return t.Minutes < other.Minutes
}

// At привязывает время суток к конкретной дате в ее таймзоне
func (t ClockTime) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Minutes/60, t.Minutes%60, 0, 0, date.Location())
}

func (t ClockTime) String() string {
	reference := time.Date(0, 1, 1, t.Minutes/60, t.Minutes%60, 0, 0, time.UTC)
	return reference.Format(clockTimeLayout)
}
