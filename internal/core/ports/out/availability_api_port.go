package out

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

// AvailabilityAPIPort - удалённый API слотов и бронирований.
// Любая ошибка возвращается как *domain.APIError.
type AvailabilityAPIPort interface {
	// Методы для работы со слотами
	ListSlots(ctx context.Context, params domain.ListAvailabilityParams) (*domain.ListAvailabilityResponse, error)
	BulkCreate(ctx context.Context, req domain.BulkCreateAvailabilityRequest) (*domain.BulkCreateAvailabilityResponse, error)
	UpdateSlot(ctx context.Context, id int64, patch domain.UpdateAvailabilityRequest) (*domain.RawSlot, error)
	DeleteSlot(ctx context.Context, id int64) (*domain.DeleteAvailabilityResponse, error)
	CancelSlot(ctx context.Context, id int64, reason string) (*domain.RawSlot, error)
	CheckConflicts(ctx context.Context, req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error)

	// Методы для работы с бронированиями
	BookSlot(ctx context.Context, req domain.BookSlotRequest) (*domain.RawBooking, error)
	CancelBooking(ctx context.Context, bookingID int64, reason string) (*domain.CancelResponse, error)
}
