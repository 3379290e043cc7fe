package domain

import "github.com/suchimauz/availability-booking-engine/internal/core/json_types"

// TimeSlot - ячейка шаблона дня, которую можно выбрать при создании слотов
type TimeSlot struct {
	ID             string               `json:"id,omitempty"`
	StartTime      json_types.Time      `json:"startTime"`
	EndTime        json_types.Time      `json:"endTime"`
	IsSelected     bool                 `json:"isSelected"`
	IsBooked       bool                 `json:"isBooked"`
	BookingDetails *AvailabilityBooking `json:"bookingDetails,omitempty"`
}

// DayAvailability - день календарного окна. Не сохраняется, пересобирается от текущего времени.
type DayAvailability struct {
	Date             json_types.Date `json:"date"`
	DayOfWeek        string          `json:"dayOfWeek"`
	IsToday          bool            `json:"isToday"`
	IsPast           bool            `json:"isPast"`
	TimeSlots        []TimeSlot      `json:"timeSlots"`
	MaxSlotsReached  bool            `json:"maxSlotsReached"`
	HasExistingSlots bool            `json:"hasExistingSlots"`
}

type View string

const (
	ViewUpcoming View = "upcoming"
	ViewPast     View = "past"
	ViewCreate   View = "create"
)

func (v View) IsValid() bool {
	return v == ViewUpcoming || v == ViewPast || v == ViewCreate
}

// ViewPreferences - единственная часть состояния, которая переживает перезапуск
type ViewPreferences struct {
	CalendarMonth string `json:"calendarMonth"`
	CurrentView   View   `json:"currentView"`
}

type AvailabilityMetrics struct {
	TotalSlots     int `json:"totalSlots"`
	BookedSlots    int `json:"bookedSlots"`
	AvailableSlots int `json:"availableSlots"`
	BookingRate    int `json:"bookingRate"`
}
