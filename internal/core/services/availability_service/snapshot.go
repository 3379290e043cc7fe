package availability_service

import (
	"encoding/json"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

// Snapshot - неизменяемое состояние хранилища. Каждая команда строит новый Snapshot,
// слайсы предыдущего состояния не изменяются. Наружу Store отдаёт только глубокую копию (clone).
type Snapshot struct {
	UpcomingSlots []domain.AvailabilitySlot `json:"upcomingSlots"`
	PastSlots     []domain.AvailabilitySlot `json:"pastSlots"`
	AvailableDays []domain.DayAvailability  `json:"availableDays"`
	Selection     Selection                 `json:"selectedTimeSlots"`

	IsLoading        bool                    `json:"isLoading"`
	IsSaving         bool                    `json:"isSaving"`
	IsDeleting       bool                    `json:"isDeleting"`
	Error            string                  `json:"error,omitempty"`
	ValidationErrors domain.ValidationErrors `json:"validationErrors,omitempty"`

	CurrentView   domain.View      `json:"currentView"`
	SelectedDate  *json_types.Date `json:"selectedDate"`
	CalendarMonth string           `json:"calendarMonth"`
	IsCreating    bool             `json:"isCreating"`
	IsEditing     bool             `json:"isEditing"`
	EditingSlotID int64            `json:"editingSlotId,omitempty"`

	// Loaded - была ли успешная загрузка после последней инвалидации
	Loaded        bool      `json:"loaded"`
	PartitionedAt time.Time `json:"partitionedAt"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	byDate := make(map[string][]domain.TimeSlot, len(s.byDate))
	for _, date := range s.Dates() {
		byDate[date] = s.SlotsFor(date)
	}
	return json.Marshal(byDate)
}

func cloneSlot(slot domain.AvailabilitySlot) domain.AvailabilitySlot {
	if slot.Booking != nil {
		booking := *slot.Booking
		slot.Booking = &booking
	}
	return slot
}

func cloneSlots(slots []domain.AvailabilitySlot) []domain.AvailabilitySlot {
	if slots == nil {
		return nil
	}
	cloned := make([]domain.AvailabilitySlot, len(slots))
	for i, slot := range slots {
		cloned[i] = cloneSlot(slot)
	}
	return cloned
}

func cloneDays(days []domain.DayAvailability) []domain.DayAvailability {
	if days == nil {
		return nil
	}
	cloned := make([]domain.DayAvailability, len(days))
	for i, day := range days {
		timeSlots := make([]domain.TimeSlot, len(day.TimeSlots))
		for j, ts := range day.TimeSlots {
			if ts.BookingDetails != nil {
				details := *ts.BookingDetails
				ts.BookingDetails = &details
			}
			timeSlots[j] = ts
		}
		day.TimeSlots = timeSlots
		cloned[i] = day
	}
	return cloned
}

// clone - копия снимка, изменения которой не видны хранилищу
func (s Snapshot) clone() Snapshot {
	s.UpcomingSlots = cloneSlots(s.UpcomingSlots)
	s.PastSlots = cloneSlots(s.PastSlots)
	s.AvailableDays = cloneDays(s.AvailableDays)

	if s.ValidationErrors != nil {
		errs := make(domain.ValidationErrors, len(s.ValidationErrors))
		for field, message := range s.ValidationErrors {
			errs[field] = message
		}
		s.ValidationErrors = errs
	}
	if s.SelectedDate != nil {
		selected := *s.SelectedDate
		s.SelectedDate = &selected
	}
	return s
}

func initialSnapshot(now time.Time, window WindowConfig, month string) Snapshot {
	return Snapshot{
		UpcomingSlots: []domain.AvailabilitySlot{},
		PastSlots:     []domain.AvailabilitySlot{},
		AvailableDays: GenerateCalendarWindow(now, window),
		Selection:     NewSelection(window.MaxSlotsPerDay),
		CurrentView:   domain.ViewUpcoming,
		CalendarMonth: month,
	}
}

func (s Snapshot) allSlots() []domain.AvailabilitySlot {
	all := make([]domain.AvailabilitySlot, 0, len(s.UpcomingSlots)+len(s.PastSlots))
	all = append(all, s.UpcomingSlots...)
	return append(all, s.PastSlots...)
}

func (s Snapshot) findSlot(id int64) (domain.AvailabilitySlot, bool) {
	for _, slot := range s.UpcomingSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	for _, slot := range s.PastSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return domain.AvailabilitySlot{}, false
}

// redecorated пересчитывает отметки календаря по текущим слотам и выбору
func (s Snapshot) redecorated() Snapshot {
	s.AvailableDays = DecorateCalendar(s.AvailableDays, s.allSlots(), s.Selection)
	return s
}

// Загрузка

func (s Snapshot) loadStarted() Snapshot {
	s.IsLoading = true
	s.Error = ""
	return s
}

func (s Snapshot) loadFailed(message string) Snapshot {
	s.IsLoading = false
	s.Error = message
	return s
}

// loadFinished применяет результат загрузки. Флаг IsLoading снимается только
// последней начатой загрузкой.
func (s Snapshot) loadFinished(upcoming, past []domain.AvailabilitySlot, partitionedAt time.Time, latest bool) Snapshot {
	s.UpcomingSlots = upcoming
	s.PastSlots = past
	s.PartitionedAt = partitionedAt
	s.Loaded = true
	if latest {
		s.IsLoading = false
	}
	return s.redecorated()
}

func (s Snapshot) invalidated() Snapshot {
	s.Loaded = false
	return s
}

func (s Snapshot) repartitioned(now time.Time, upcoming, past []domain.AvailabilitySlot) Snapshot {
	s.UpcomingSlots = upcoming
	s.PastSlots = past
	s.PartitionedAt = now
	return s
}

// Сохранение и удаление

func (s Snapshot) savingStarted() Snapshot {
	s.IsSaving = true
	s.Error = ""
	s.ValidationErrors = nil
	return s
}

func (s Snapshot) savingFailed(message string) Snapshot {
	s.IsSaving = false
	s.Error = message
	return s
}

func (s Snapshot) savingFinished() Snapshot {
	s.IsSaving = false
	return s
}

func (s Snapshot) deletingStarted() Snapshot {
	s.IsDeleting = true
	s.Error = ""
	return s
}

func (s Snapshot) deletingFailed(message string) Snapshot {
	s.IsDeleting = false
	s.Error = message
	return s
}

func (s Snapshot) validationFailed(errs domain.ValidationErrors) Snapshot {
	s.ValidationErrors = errs
	return s
}

func (s Snapshot) created() Snapshot {
	s.IsSaving = false
	s.Selection = s.Selection.Clear()
	s.IsCreating = false
	s.CurrentView = domain.ViewUpcoming
	return s.redecorated()
}

// replaceSlot заменяет слот с тем же ID в той коллекции, где он найден первым
func (s Snapshot) replaceSlot(slot domain.AvailabilitySlot) Snapshot {
	if idx := indexOfSlot(s.UpcomingSlots, slot.ID); idx != -1 {
		s.UpcomingSlots = replaceAt(s.UpcomingSlots, idx, slot)
	} else if idx := indexOfSlot(s.PastSlots, slot.ID); idx != -1 {
		s.PastSlots = replaceAt(s.PastSlots, idx, slot)
	}
	return s.redecorated()
}

func (s Snapshot) updated(slot domain.AvailabilitySlot) Snapshot {
	s = s.replaceSlot(slot)
	s.IsSaving = false
	s.IsEditing = false
	s.EditingSlotID = 0
	return s
}

func (s Snapshot) removed(id int64) Snapshot {
	s.UpcomingSlots = withoutSlot(s.UpcomingSlots, id)
	s.PastSlots = withoutSlot(s.PastSlots, id)
	s.IsDeleting = false
	return s.redecorated()
}

// bookingChanged обновляет бронирование слота в обеих коллекциях
func (s Snapshot) bookingChanged(id int64, booking *domain.AvailabilityBooking) Snapshot {
	update := func(slots []domain.AvailabilitySlot) []domain.AvailabilitySlot {
		idx := indexOfSlot(slots, id)
		if idx == -1 {
			return slots
		}
		return replaceAt(slots, idx, withBooking(slots[idx], booking, booking != nil && booking.IsActive()))
	}
	s.UpcomingSlots = update(s.UpcomingSlots)
	s.PastSlots = update(s.PastSlots)
	return s.redecorated()
}

// Представление

func (s Snapshot) viewChanged(view domain.View) Snapshot {
	s.CurrentView = view
	if view == domain.ViewCreate {
		s.IsCreating = true
	} else {
		s.IsCreating = false
		s.IsEditing = false
		s.EditingSlotID = 0
	}
	return s
}

func (s Snapshot) creatingStarted() Snapshot {
	s.IsCreating = true
	s.IsEditing = false
	s.EditingSlotID = 0
	s.CurrentView = domain.ViewCreate
	s.Selection = s.Selection.Clear()
	return s.redecorated()
}

func (s Snapshot) editingStarted(id int64) Snapshot {
	s.IsEditing = true
	s.IsCreating = false
	s.EditingSlotID = id
	s.CurrentView = domain.ViewUpcoming
	return s
}

func (s Snapshot) editingCancelled() Snapshot {
	s.IsEditing = false
	s.IsCreating = false
	s.EditingSlotID = 0
	s.Selection = s.Selection.Clear()
	return s.redecorated()
}

func (s Snapshot) selectionChanged(selection Selection) Snapshot {
	s.Selection = selection
	return s.redecorated()
}

func (s Snapshot) calendarRegenerated(days []domain.DayAvailability) Snapshot {
	s.AvailableDays = days
	return s.redecorated()
}

func (s Snapshot) errorSet(message string) Snapshot {
	s.Error = message
	return s
}

func (s Snapshot) errorCleared() Snapshot {
	s.Error = ""
	s.ValidationErrors = nil
	return s
}

func (s Snapshot) preferencesApplied(prefs domain.ViewPreferences) Snapshot {
	if prefs.CalendarMonth != "" {
		s.CalendarMonth = prefs.CalendarMonth
	}
	if prefs.CurrentView.IsValid() {
		s = s.viewChanged(prefs.CurrentView)
	}
	return s
}

func (s Snapshot) Preferences() domain.ViewPreferences {
	return domain.ViewPreferences{
		CalendarMonth: s.CalendarMonth,
		CurrentView:   s.CurrentView,
	}
}

func indexOfSlot(slots []domain.AvailabilitySlot, id int64) int {
	for i, slot := range slots {
		if slot.ID == id {
			return i
		}
	}
	return -1
}

func replaceAt(slots []domain.AvailabilitySlot, idx int, slot domain.AvailabilitySlot) []domain.AvailabilitySlot {
	next := make([]domain.AvailabilitySlot, len(slots))
	copy(next, slots)
	next[idx] = slot
	return next
}

func withoutSlot(slots []domain.AvailabilitySlot, id int64) []domain.AvailabilitySlot {
	next := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.ID != id {
			next = append(next, slot)
		}
	}
	return next
}
