package availability_service

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

// MarkSlotBooked прикрепляет бронирование к слоту без обращения к API.
// Возвращает false, если слот не загружен.
func (s *Store) MarkSlotBooked(ctx context.Context, id int64, booking domain.AvailabilityBooking) bool {
	if _, ok := s.SlotByID(id); !ok {
		s.logger.Debug("store.booking.mark_skipped", out.LogFields{
			"slotId": id,
		})
		return false
	}

	if booking.AvailabilityID == 0 {
		booking.AvailabilityID = id
	}

	s.invalidateConflicts(ctx)
	s.apply("booking.marked", func(st Snapshot) Snapshot {
		return st.bookingChanged(id, &booking)
	})
	return true
}

// MarkSlotAvailable снимает бронирование со слота без обращения к API
func (s *Store) MarkSlotAvailable(ctx context.Context, id int64) bool {
	if _, ok := s.SlotByID(id); !ok {
		s.logger.Debug("store.booking.unmark_skipped", out.LogFields{
			"slotId": id,
		})
		return false
	}

	s.invalidateConflicts(ctx)
	s.apply("booking.unmarked", func(st Snapshot) Snapshot {
		return st.bookingChanged(id, nil)
	})
	return true
}

// InvalidateSlots помечает загруженные данные устаревшими: следующий Load обратится к API
func (s *Store) InvalidateSlots(ctx context.Context) {
	s.invalidateConflicts(ctx)
	s.apply("invalidated", Snapshot.invalidated)
}
