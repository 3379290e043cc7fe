package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TimeLayout        = "15:04"
	TimeSecondsLayout = "15:04:05"
)

// Time - время суток без даты (HH:MM), хранится как минуты от полуночи.
// Valid=false означает, что значение отсутствует или не распознано.
type Time struct {
	Minutes int
	Valid   bool
}

func NewTime(hour, minute int) Time {
	return Time{Minutes: hour*60 + minute, Valid: true}
}

func ParseTime(str string) (Time, error) {
	parsed, err := time.Parse(TimeLayout, str)
	if err != nil {
		parsed, err = time.Parse(TimeSecondsLayout, str)
		if err != nil {
			return Time{}, fmt.Errorf("failed to parse time: %v", err)
		}
	}
	return NewTime(parsed.Hour(), parsed.Minute()), nil
}

func MustParseTime(str string) Time {
	t, err := ParseTime(str)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) IsZero() bool {
	return !t.Valid
}

func (t Time) Hour() int {
	return t.Minutes / 60
}

func (t Time) Minute() int {
	return t.Minutes % 60
}

func (t Time) Before(other Time) bool {
	return t.Minutes < other.Minutes
}

func (t Time) Equal(other Time) bool {
	return t.Valid == other.Valid && t.Minutes == other.Minutes
}

func (t Time) Add(d time.Duration) Time {
	return Time{Minutes: t.Minutes + int(d/time.Minute), Valid: t.Valid}
}

// Sub возвращает длительность t - other
func (t Time) Sub(other Time) time.Duration {
	return time.Duration(t.Minutes-other.Minutes) * time.Minute
}

func (t Time) String() string {
	if !t.Valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTime(unquote(data))
	if err != nil {
		*t = Time{}
		return nil
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return json.Marshal(nil)
	}
	return json.Marshal(t.String())
}
