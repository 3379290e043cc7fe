package domain

import (
	"strings"

	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

type CreateAvailabilityRequest struct {
	AvailabilityDate       json_types.Date `json:"availabilityDate" validate:"required"`
	StartTime              json_types.Time `json:"startTime" validate:"required"`
	EndTime                json_types.Time `json:"endTime" validate:"required"`
	Timezone               string          `json:"timezone,omitempty" validate:"omitempty,timezone"`
	DateType               DateType        `json:"dateType" validate:"required,oneof=online offline"`
	Title                  string          `json:"title,omitempty" validate:"max=100"`
	Notes                  string          `json:"notes,omitempty" validate:"max=500"`
	LocationPreference     string          `json:"locationPreference,omitempty" validate:"max=255"`
	BufferTimeMinutes      *int            `json:"bufferTimeMinutes,omitempty" validate:"omitempty,min=0,max=120"`
	PreparationTimeMinutes *int            `json:"preparationTimeMinutes,omitempty" validate:"omitempty,min=0,max=60"`
}

type BulkCreateAvailabilityRequest struct {
	Slots         []CreateAvailabilityRequest `json:"slots"`
	SkipConflicts bool                        `json:"skipConflicts"`
}

// UpdateAvailabilityRequest - частичное обновление, nil означает "не менять"
type UpdateAvailabilityRequest struct {
	AvailabilityDate   *json_types.Date    `json:"availabilityDate,omitempty"`
	StartTime          *json_types.Time    `json:"startTime,omitempty"`
	EndTime            *json_types.Time    `json:"endTime,omitempty"`
	DateType           *DateType           `json:"dateType,omitempty" validate:"omitempty,oneof=online offline"`
	Title              *string             `json:"title,omitempty" validate:"omitempty,max=100"`
	Notes              *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
	LocationPreference *string             `json:"locationPreference,omitempty" validate:"omitempty,max=255"`
	Status             *AvailabilityStatus `json:"status,omitempty" validate:"omitempty,oneof=active cancelled completed deleted"`
}

type ListAvailabilityParams struct {
	StartDate       *json_types.Date
	EndDate         *json_types.Date
	Status          []AvailabilityStatus
	DateType        []DateType
	IncludeBookings bool
	Page            int
	Limit           int
}

type TimeRange struct {
	StartTime json_types.Time `json:"startTime"`
	EndTime   json_types.Time `json:"endTime"`
}

type ConflictCheckRequest struct {
	AvailabilityDate json_types.Date `json:"availabilityDate"`
	TimeSlots        []TimeRange     `json:"timeSlots"`
}

// CacheKey - ключ для кэша результатов проверки конфликтов
func (r ConflictCheckRequest) CacheKey() string {
	var b strings.Builder
	b.WriteString(r.AvailabilityDate.String())
	for _, tr := range r.TimeSlots {
		b.WriteString("|")
		b.WriteString(tr.StartTime.String())
		b.WriteString("-")
		b.WriteString(tr.EndTime.String())
	}
	return b.String()
}

// CreateOptions - общие поля для слотов, создаваемых из выбора
type CreateOptions struct {
	DateType           DateType `json:"dateType"`
	LocationPreference string   `json:"locationPreference,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	Title              string   `json:"title,omitempty"`
	Timezone           string   `json:"timezone,omitempty"`
}

type BookSlotRequest struct {
	AvailabilityID   int64            `json:"availabilityId" validate:"required"`
	SelectedActivity SelectedActivity `json:"selectedActivity" validate:"required,oneof=coffee lunch dinner drinks movie walk activity casual formal"`
	BookingNotes     string           `json:"bookingNotes,omitempty" validate:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}
