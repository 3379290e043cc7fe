package availability_service

import (
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

// IsSlotInPast - начался ли слот к моменту now. Дата и время слота читаются
// как настенное время в таймзоне loc.
func IsSlotInPast(slot domain.AvailabilitySlot, now time.Time, loc *time.Location) bool {
	return slot.StartsAt(loc).Before(now)
}

// Partition делит слоты на предстоящие (начало >= now) и прошедшие (начало < now).
// Предстоящие упорядочены по возрастанию начала, прошедшие от самых недавних.
func Partition(slots []domain.AvailabilitySlot, now time.Time, loc *time.Location) (upcoming, past []domain.AvailabilitySlot) {
	upcoming = make([]domain.AvailabilitySlot, 0, len(slots))
	past = make([]domain.AvailabilitySlot, 0)

	for _, slot := range slots {
		if IsSlotInPast(slot, now, loc) {
			past = append(past, slot)
		} else {
			upcoming = append(upcoming, slot)
		}
	}

	return SlotSlice(upcoming).quickSort(), SlotSlice(past).quickSort().reversed()
}

// Paginate возвращает страницу page (с единицы) размером limit
func Paginate(slots []domain.AvailabilitySlot, page, limit int) ([]domain.AvailabilitySlot, domain.Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total := len(slots)
	totalPages := (total + limit - 1) / limit

	pagination := domain.Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}

	start := (page - 1) * limit
	if start >= total {
		return []domain.AvailabilitySlot{}, pagination
	}
	end := start + limit
	if end > total {
		end = total
	}

	return append([]domain.AvailabilitySlot(nil), slots[start:end]...), pagination
}
