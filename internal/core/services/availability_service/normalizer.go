package availability_service

import (
	"fmt"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

const (
	unknownFirstName = "Unknown"
	unknownLastName  = "User"

	formattedDateLayout = "Mon, Jan 2"
)

// NormalizeBooking заполняет отсутствующие поля бронирования значениями по умолчанию,
// чтобы отображению не приходилось проверять вложенные поля на nil
func NormalizeBooking(raw *domain.RawBooking, slotID int64) *domain.AvailabilityBooking {
	if raw == nil {
		return nil
	}

	availabilityID := raw.AvailabilityID
	if availabilityID == 0 {
		availabilityID = slotID
	}

	user := domain.BookedByUser{
		ID:        raw.BookedByUserID,
		FirstName: unknownFirstName,
		LastName:  unknownLastName,
	}
	if raw.BookedByUser != nil {
		if raw.BookedByUser.ID != 0 {
			user.ID = raw.BookedByUser.ID
		}
		if raw.BookedByUser.FirstName != "" {
			user.FirstName = raw.BookedByUser.FirstName
		}
		if raw.BookedByUser.LastName != "" {
			user.LastName = raw.BookedByUser.LastName
		}
		user.Email = raw.BookedByUser.Email
		user.ProfileImage = raw.BookedByUser.ProfileImage
	}

	return &domain.AvailabilityBooking{
		ID:                 raw.ID,
		AvailabilityID:     availabilityID,
		BookedByUserID:     raw.BookedByUserID,
		BookedByUser:       user,
		BookingStatus:      raw.BookingStatus,
		SelectedActivity:   raw.SelectedActivity,
		BookingNotes:       raw.BookingNotes,
		CancellationReason: raw.CancellationReason,
		ConfirmedAt:        raw.ConfirmedAt,
		CancelledAt:        raw.CancelledAt,
		CreatedAt:          raw.CreatedAt,
		UpdatedAt:          raw.UpdatedAt,
	}
}

func formatTimeRange(start, end json_types.Time) string {
	return fmt.Sprintf("%s - %s", start.String(), end.String())
}

func formatDate(date json_types.Date) string {
	if date.IsZero() {
		return ""
	}
	return date.Date.Format(formattedDateLayout)
}

// durationMinutes не бывает отрицательным, даже если время окончания не распознано
func durationMinutes(start, end json_types.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// withBooking пересчитывает поля слота, зависящие от бронирования
func withBooking(slot domain.AvailabilitySlot, booking *domain.AvailabilityBooking, isBooked bool) domain.AvailabilitySlot {
	slot.Booking = booking
	slot.IsBooked = isBooked
	slot.CanEdit = booking == nil || booking.BookingStatus == domain.BookingStatusCancelled
	slot.CanCancel = booking != nil && booking.BookingStatus != domain.BookingStatusCancelled
	return slot
}

// NormalizeSlot никогда не возвращает ошибку: некорректные поля превращаются в значения по умолчанию
func NormalizeSlot(raw domain.RawSlot) domain.AvailabilitySlot {
	slot := domain.AvailabilitySlot{
		ID:                     raw.ID,
		UserID:                 raw.UserID,
		AvailabilityDate:       raw.AvailabilityDate,
		StartTime:              raw.StartTime,
		EndTime:                raw.EndTime,
		Timezone:               raw.Timezone,
		DateType:               raw.DateType,
		Status:                 raw.Status,
		Title:                  raw.Title,
		Notes:                  raw.Notes,
		LocationPreference:     raw.LocationPreference,
		IsRecurring:            raw.IsRecurring,
		BufferTimeMinutes:      raw.BufferTimeMinutes,
		PreparationTimeMinutes: raw.PreparationTimeMinutes,
		CreatedAt:              raw.CreatedAt,
		UpdatedAt:              raw.UpdatedAt,
		DurationMinutes:        durationMinutes(raw.StartTime, raw.EndTime),
		FormattedTime:          formatTimeRange(raw.StartTime, raw.EndTime),
		FormattedDate:          formatDate(raw.AvailabilityDate),
	}

	booking := NormalizeBooking(raw.Booking, raw.ID)
	return withBooking(slot, booking, raw.IsBooked || raw.Booking != nil)
}

func NormalizeSlots(raws []domain.RawSlot) []domain.AvailabilitySlot {
	slots := make([]domain.AvailabilitySlot, 0, len(raws))
	for _, raw := range raws {
		slots = append(slots, NormalizeSlot(raw))
	}
	return slots
}
