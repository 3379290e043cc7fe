package domain

import (
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

type DateType string

const (
	DateTypeOnline  DateType = "online"
	DateTypeOffline DateType = "offline"
)

type AvailabilityStatus string

const (
	AvailabilityStatusActive    AvailabilityStatus = "active"
	AvailabilityStatusCancelled AvailabilityStatus = "cancelled"
	AvailabilityStatusCompleted AvailabilityStatus = "completed"
	AvailabilityStatusDeleted   AvailabilityStatus = "deleted"
)

// AvailabilitySlot - опубликованный пользователем интервал, на который можно забронировать встречу.
// ID равен нулю, пока слот не сохранён на сервере.
type AvailabilitySlot struct {
	ID                     int64                      `json:"id,omitempty"`
	UserID                 int64                      `json:"userId"`
	AvailabilityDate       json_types.Date            `json:"availabilityDate"`
	StartTime              json_types.Time            `json:"startTime"`
	EndTime                json_types.Time            `json:"endTime"`
	Timezone               string                     `json:"timezone"`
	DateType               DateType                   `json:"dateType"`
	Status                 AvailabilityStatus         `json:"status"`
	Title                  string                     `json:"title,omitempty"`
	Notes                  string                     `json:"notes,omitempty"`
	LocationPreference     string                     `json:"locationPreference,omitempty"`
	IsRecurring            bool                       `json:"isRecurring"`
	BufferTimeMinutes      int                        `json:"bufferTimeMinutes"`
	PreparationTimeMinutes int                        `json:"preparationTimeMinutes"`
	CreatedAt              json_types.DateTimeOrEmpty `json:"createdAt"`
	UpdatedAt              json_types.DateTimeOrEmpty `json:"updatedAt"`

	// Вычисляемые поля
	IsBooked        bool                 `json:"isBooked"`
	CanEdit         bool                 `json:"canEdit"`
	CanCancel       bool                 `json:"canCancel"`
	DurationMinutes int                  `json:"durationMinutes"`
	FormattedTime   string               `json:"formattedTime"`
	FormattedDate   string               `json:"formattedDate"`
	Booking         *AvailabilityBooking `json:"booking,omitempty"`
}

// StartsAt - момент начала слота в таймзоне loc
func (s AvailabilitySlot) StartsAt(loc *time.Location) time.Time {
	return s.AvailabilityDate.At(s.StartTime, loc)
}

func (s AvailabilitySlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// RawSlot - слот в том виде, в каком его отдаёт API: бронирование и данные пользователя могут быть неполными
type RawSlot struct {
	ID                     int64                      `json:"id"`
	UserID                 int64                      `json:"userId"`
	AvailabilityDate       json_types.Date            `json:"availabilityDate"`
	StartTime              json_types.Time            `json:"startTime"`
	EndTime                json_types.Time            `json:"endTime"`
	Timezone               string                     `json:"timezone"`
	DateType               DateType                   `json:"dateType"`
	Status                 AvailabilityStatus         `json:"status"`
	Title                  string                     `json:"title"`
	Notes                  string                     `json:"notes"`
	LocationPreference     string                     `json:"locationPreference"`
	IsRecurring            bool                       `json:"isRecurring"`
	BufferTimeMinutes      int                        `json:"bufferTimeMinutes"`
	PreparationTimeMinutes int                        `json:"preparationTimeMinutes"`
	CreatedAt              json_types.DateTimeOrEmpty `json:"createdAt"`
	UpdatedAt              json_types.DateTimeOrEmpty `json:"updatedAt"`
	IsBooked               bool                       `json:"isBooked"`
	Booking                *RawBooking                `json:"booking"`
}
