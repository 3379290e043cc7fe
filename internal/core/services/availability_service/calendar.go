package availability_service

import (
	"fmt"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/utils"
)

type WindowConfig struct {
	DaysInAdvance  int
	FirstHour      int
	LastHour       int
	SlotMinutes    int
	MaxSlotsPerDay int
}

func WindowConfigFromConfig(cfg *config.Config) WindowConfig {
	return WindowConfig{
		DaysInAdvance:  cfg.Engine.DaysInAdvance,
		FirstHour:      cfg.Engine.FirstHour,
		LastHour:       cfg.Engine.LastHour,
		SlotMinutes:    cfg.Engine.SlotMinutes,
		MaxSlotsPerDay: cfg.Engine.MaxSlotsPerDay,
	}
}

// DayTemplate - шаблон ячеек одного дня: от FirstHour до LastHour с шагом SlotMinutes,
// последняя ячейка заканчивается не позже LastHour
func (wc WindowConfig) DayTemplate() []json_types.Time {
	if wc.SlotMinutes <= 0 {
		return nil
	}
	starts := make([]json_types.Time, 0)
	step := time.Duration(wc.SlotMinutes) * time.Minute
	last := json_types.NewTime(wc.LastHour, 0)
	for start := json_types.NewTime(wc.FirstHour, 0); !last.Before(start.Add(step)); start = start.Add(step) {
		starts = append(starts, start)
	}
	return starts
}

func timeSlotID(date json_types.Date, start json_types.Time) string {
	return fmt.Sprintf("%s-%s", date.String(), start.String())
}

// GenerateCalendarWindow строит окно [сегодня, сегодня+DaysInAdvance) от момента now
// в его таймзоне. Все флаги выбора и бронирования сброшены.
func GenerateCalendarWindow(now time.Time, wc WindowConfig) []domain.DayAvailability {
	today := utils.StartCurrentDay(now)
	template := wc.DayTemplate()
	step := time.Duration(wc.SlotMinutes) * time.Minute

	days := make([]domain.DayAvailability, 0, wc.DaysInAdvance)
	for i := 0; i < wc.DaysInAdvance; i++ {
		dayStart := today.AddDate(0, 0, i)
		date := json_types.DateOf(dayStart)

		timeSlots := make([]domain.TimeSlot, 0, len(template))
		for _, start := range template {
			timeSlots = append(timeSlots, domain.TimeSlot{
				ID:        timeSlotID(date, start),
				StartTime: start,
				EndTime:   start.Add(step),
			})
		}

		days = append(days, domain.DayAvailability{
			Date:      date,
			DayOfWeek: dayStart.Weekday().String(),
			IsToday:   i == 0,
			IsPast:    false,
			TimeSlots: timeSlots,
		})
	}

	return days
}

// DecorateCalendar возвращает копию окна с отметками существующих слотов, бронирований
// и текущего выбора. Исходное окно не изменяется.
func DecorateCalendar(days []domain.DayAvailability, slots []domain.AvailabilitySlot, selection Selection) []domain.DayAvailability {
	slotsByDate := make(map[string][]domain.AvailabilitySlot)
	for _, slot := range slots {
		key := slot.AvailabilityDate.String()
		slotsByDate[key] = append(slotsByDate[key], slot)
	}

	result := make([]domain.DayAvailability, len(days))
	for i, day := range days {
		key := day.Date.String()
		daySlots := slotsByDate[key]

		next := day
		next.HasExistingSlots = len(daySlots) > 0
		next.MaxSlotsReached = !selection.CanAddMore(day.Date)
		next.TimeSlots = make([]domain.TimeSlot, len(day.TimeSlots))

		for j, ts := range day.TimeSlots {
			ts.IsSelected = selection.IsSelected(day.Date, ts.StartTime)
			ts.IsBooked = false
			ts.BookingDetails = nil
			for _, slot := range daySlots {
				if slot.StartTime.Equal(ts.StartTime) {
					ts.IsBooked = slot.IsBooked
					ts.BookingDetails = slot.Booking
				}
			}
			next.TimeSlots[j] = ts
		}

		result[i] = next
	}

	return result
}
