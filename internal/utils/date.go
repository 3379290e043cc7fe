package utils

import (
	"fmt"
	"time"
)

const MonthLayout = "2006-01"

func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthKey - месяц календаря в формате YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

func ParseMonthKey(str string) (time.Time, error) {
	parsed, err := time.Parse(MonthLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse month: %v", err)
	}
	return parsed, nil
}

// LoadLocationOr возвращает fallback, если таймзона пустая или не распознана
func LoadLocationOr(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
