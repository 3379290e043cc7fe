package json_types

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// unquote убирает кавычки вокруг строки, null и не-строки дают пустую строку
func unquote(data []byte) string {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return ""
	}
	return strings.TrimSpace(str)
}

// Date - календарная дата без времени и таймзоны (YYYY-MM-DD).
// Некорректное значение при разборе превращается в нулевую дату, а не в ошибку.
type Date struct {
	Date time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf берёт календарную дату из момента времени в его собственной таймзоне
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	// Бэкенд иногда отдаёт дату как полноценный timestamp
	if len(str) > len(DateLayout) {
		str = str[:len(DateLayout)]
	}
	parsed, err := time.Parse(DateLayout, str)
	if err != nil {
		return Date{}, err
	}
	return Date{Date: parsed}, nil
}

func (d Date) IsZero() bool {
	return d.Date.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Date.Format(DateLayout)
}

func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

func (d Date) Before(other Date) bool {
	return d.Date.Before(other.Date)
}

func (d Date) AddDays(days int) Date {
	return Date{Date: d.Date.AddDate(0, 0, days)}
}

// At собирает момент времени из даты и времени суток в таймзоне loc
func (d Date) At(t Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(unquote(data))
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(d.String())
}

// DateTimeOrEmpty - отметка времени (createdAt/updatedAt), пустая если не распознана
type DateTimeOrEmpty struct {
	Date time.Time
}

func parseDateTime(str string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		// Дата со временем, но без таймзоны - считаем UTC
		parsed, err = time.ParseInLocation(DateTimeLayout, str, time.UTC)
	}
	return parsed, err
}

func (t *DateTimeOrEmpty) UnmarshalJSON(data []byte) error {
	parsed, err := parseDateTime(unquote(data))
	if err != nil {
		*t = DateTimeOrEmpty{}
		return nil
	}
	*t = DateTimeOrEmpty{Date: parsed}
	return nil
}

func (t DateTimeOrEmpty) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(t.Date.Format(time.RFC3339))
}
