package utils

import (
	"fmt"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
)

// StartCurrentDay возвращает дату с временем 00:00 в той же таймзоне
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает новую дату, где день увеличен на 1, время установлено на 00:00
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// DaysInclusive возвращает каждый календарный день диапазона [start, end] включительно
func DaysInclusive(start, end time.Time) []time.Time {
	days := make([]time.Time, 0)
	for day := StartCurrentDay(start); !day.After(StartCurrentDay(end)); day = StartNextDay(day) {
		days = append(days, day)
	}
	return days
}

// ParseDate парсит дату из строки в формате RFC3339, если не удается,
// то пробует дату со временем без таймзоны, затем дату без времени.
// По дефолту ставим таймзону из конфига.
func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	if err != nil {
		location := config.TimeZone
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, location)
		if err != nil {
			parsedDate, err = time.ParseInLocation("2006-01-02", str, location)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
			}
		}
	}

	return parsedDate, nil
}
