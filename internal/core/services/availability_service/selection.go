package availability_service

import (
	"sort"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

// Selection - выбранные, но ещё не созданные ячейки, сгруппированные по дате (YYYY-MM-DD).
// Значение неизменяемое: Toggle и Clear возвращают новую копию.
// Дата без выбранных ячеек в карте не хранится.
type Selection struct {
	maxPerDay int
	byDate    map[string][]domain.TimeSlot
}

func NewSelection(maxPerDay int) Selection {
	return Selection{
		maxPerDay: maxPerDay,
		byDate:    map[string][]domain.TimeSlot{},
	}
}

func (s Selection) MaxPerDay() int {
	return s.maxPerDay
}

func (s Selection) indexOf(date json_types.Date, start json_types.Time) int {
	for i, ts := range s.byDate[date.String()] {
		if ts.StartTime.Equal(start) {
			return i
		}
	}
	return -1
}

// Toggle снимает выбор с ячейки, если она уже выбрана, иначе добавляет её,
// пока для дня не достигнут лимит. Попытка превысить лимит ничего не меняет.
func (s Selection) Toggle(date json_types.Date, slot domain.TimeSlot) Selection {
	key := date.String()
	current := s.byDate[key]

	var next []domain.TimeSlot
	if idx := s.indexOf(date, slot.StartTime); idx != -1 {
		next = make([]domain.TimeSlot, 0, len(current)-1)
		next = append(next, current[:idx]...)
		next = append(next, current[idx+1:]...)
	} else {
		if len(current) >= s.maxPerDay {
			return s
		}
		slot.IsSelected = true
		next = make([]domain.TimeSlot, 0, len(current)+1)
		next = append(next, current...)
		next = append(next, slot)
	}

	byDate := make(map[string][]domain.TimeSlot, len(s.byDate)+1)
	for k, v := range s.byDate {
		byDate[k] = v
	}
	if len(next) == 0 {
		delete(byDate, key)
	} else {
		byDate[key] = next
	}

	return Selection{maxPerDay: s.maxPerDay, byDate: byDate}
}

func (s Selection) Clear() Selection {
	return NewSelection(s.maxPerDay)
}

func (s Selection) IsSelected(date json_types.Date, start json_types.Time) bool {
	return s.indexOf(date, start) != -1
}

func (s Selection) CountFor(date json_types.Date) int {
	return len(s.byDate[date.String()])
}

// Count - общее количество выбранных ячеек по всем датам
func (s Selection) Count() int {
	count := 0
	for _, slots := range s.byDate {
		count += len(slots)
	}
	return count
}

func (s Selection) CanAddMore(date json_types.Date) bool {
	return s.CountFor(date) < s.maxPerDay
}

func (s Selection) IsEmpty() bool {
	return len(s.byDate) == 0
}

// Dates - даты с непустым выбором по возрастанию
func (s Selection) Dates() []string {
	dates := make([]string, 0, len(s.byDate))
	for date := range s.byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// SlotsFor возвращает выбранные ячейки дня, отсортированные по времени начала
func (s Selection) SlotsFor(date string) []domain.TimeSlot {
	slots := append([]domain.TimeSlot(nil), s.byDate[date]...)
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots
}

// ToCreateRequests превращает выбор в запросы на создание, упорядоченные по дате и времени
func (s Selection) ToCreateRequests(opts domain.CreateOptions) []domain.CreateAvailabilityRequest {
	requests := make([]domain.CreateAvailabilityRequest, 0, s.Count())
	for _, key := range s.Dates() {
		date, err := json_types.ParseDate(key)
		if err != nil {
			continue
		}
		for _, ts := range s.SlotsFor(key) {
			requests = append(requests, domain.CreateAvailabilityRequest{
				AvailabilityDate:   date,
				StartTime:          ts.StartTime,
				EndTime:            ts.EndTime,
				Timezone:           opts.Timezone,
				DateType:           opts.DateType,
				Title:              opts.Title,
				Notes:              opts.Notes,
				LocationPreference: opts.LocationPreference,
			})
		}
	}
	return requests
}
