package in

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/core/services/availability_service"
)

type AvailabilityUseCase interface {
	Init(ctx context.Context) error

	// Загрузка и изменение слотов
	Load(ctx context.Context, params domain.ListAvailabilityParams, forceRefresh bool) error
	RefreshBookingData(ctx context.Context) error
	Repartition()
	Create(ctx context.Context, requests []domain.CreateAvailabilityRequest) (*domain.BulkCreateResult, error)
	CreateFromSelection(ctx context.Context, opts domain.CreateOptions) (*domain.BulkCreateResult, error)
	Update(ctx context.Context, id int64, patch domain.UpdateAvailabilityRequest) (*domain.AvailabilitySlot, error)
	Delete(ctx context.Context, id int64) error
	CancelSlot(ctx context.Context, id int64, reason string) (*domain.AvailabilitySlot, error)
	CheckConflicts(ctx context.Context, req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error)

	// Бронирования
	BookSlot(ctx context.Context, req domain.BookSlotRequest) (*domain.AvailabilityBooking, error)
	CancelBooking(ctx context.Context, bookingID int64, reason string) (bool, error)
	MarkSlotBooked(ctx context.Context, id int64, booking domain.AvailabilityBooking) bool
	MarkSlotAvailable(ctx context.Context, id int64) bool
	InvalidateSlots(ctx context.Context)

	// Состояние представления
	SetCurrentView(ctx context.Context, view domain.View) error
	SetSelectedDate(date *json_types.Date)
	SetCalendarMonth(ctx context.Context, month string) error
	StartCreating(ctx context.Context) error
	StartEditing(ctx context.Context, id int64) error
	CancelEditing()
	SetError(message string)
	ClearError()
	ToggleSlot(date json_types.Date, slot domain.TimeSlot) bool
	ClearSelection()
	RefreshCalendar()

	// Чтение
	Snapshot() availability_service.Snapshot
	UpcomingSlots() []domain.AvailabilitySlot
	PastSlots() []domain.AvailabilitySlot
	BookedSlots() []domain.AvailabilitySlot
	AvailableSlots() []domain.AvailabilitySlot
	SlotByID(id int64) (domain.AvailabilitySlot, bool)
	AvailableDays() []domain.DayAvailability
	Metrics() domain.AvailabilityMetrics
	SelectedCount() int
	CanAddMore(date json_types.Date) bool
}
