package rabbitmq

import (
	"context"
	"testing"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)              {}
func (nopLogger) Info(string, out.LogFields)               {}
func (nopLogger) Warn(string, out.LogFields)               {}
func (nopLogger) Error(string, out.LogFields)              {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type recordingUseCase struct {
	booked      map[int64]domain.AvailabilityBooking
	available   []int64
	invalidated int
}

func (r *recordingUseCase) MarkSlotBooked(ctx context.Context, id int64, booking domain.AvailabilityBooking) bool {
	if r.booked == nil {
		r.booked = map[int64]domain.AvailabilityBooking{}
	}
	r.booked[id] = booking
	return true
}

func (r *recordingUseCase) MarkSlotAvailable(ctx context.Context, id int64) bool {
	r.available = append(r.available, id)
	return true
}

func (r *recordingUseCase) InvalidateSlots(ctx context.Context) {
	r.invalidated++
}

func newTestListener() (*BookingListener, *recordingUseCase) {
	useCase := &recordingUseCase{}
	return &BookingListener{useCase: useCase, logger: nopLogger{}}, useCase
}

func TestEventType(t *testing.T) {
	cases := map[string]BookingEventType{
		"availability.booking.created":      BookingEventCreated,
		"booking.cancelled":                 BookingEventCancelled,
		"svc.availability.slots.invalidate": BookingEventInvalidate,
		"unknown":                           BookingEventType("unknown"),
	}
	for key, want := range cases {
		if got := eventType(key); got != want {
			t.Errorf("eventType(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestHandleMessage_BookingCreated(t *testing.T) {
	l, useCase := newTestListener()

	body := []byte(`{"booking": {"id": 11, "availabilityId": 5, "bookingStatus": "confirmed", "selectedActivity": "coffee"}}`)
	if err := l.handleMessage(context.Background(), "availability.booking.created", body); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}

	booking, ok := useCase.booked[5]
	if !ok {
		t.Fatalf("expected slot 5 to be marked booked")
	}
	if booking.ID != 11 || booking.BookedByUser.FirstName != "Unknown" {
		t.Fatalf("booking must be normalized, got %+v", booking)
	}
}

func TestHandleMessage_BookingCancelled(t *testing.T) {
	l, useCase := newTestListener()

	if err := l.handleMessage(context.Background(), "availability.booking.cancelled", []byte(`{"availabilityId": 9}`)); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}
	if len(useCase.available) != 1 || useCase.available[0] != 9 {
		t.Fatalf("expected slot 9 to be released, got %v", useCase.available)
	}
}

func TestHandleMessage_InvalidateAndUnknown(t *testing.T) {
	l, useCase := newTestListener()
	ctx := context.Background()

	if err := l.handleMessage(ctx, "availability.slots.invalidate", nil); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if useCase.invalidated != 1 {
		t.Fatalf("expected invalidation")
	}

	if err := l.handleMessage(ctx, "availability.user.updated", []byte(`not json`)); err != nil {
		t.Fatalf("unknown events must be skipped, got %v", err)
	}
}

func TestHandleMessage_Malformed(t *testing.T) {
	l, useCase := newTestListener()
	ctx := context.Background()

	if err := l.handleMessage(ctx, "availability.booking.created", []byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := l.handleMessage(ctx, "availability.booking.created", []byte(`{"availabilityId": 3}`)); err == nil {
		t.Fatalf("expected error for created event without booking")
	}
	if err := l.handleMessage(ctx, "availability.booking.cancelled", []byte(`{}`)); err == nil {
		t.Fatalf("expected error for event without availabilityId")
	}
	if len(useCase.booked) != 0 || len(useCase.available) != 0 {
		t.Fatalf("malformed events must not touch the store")
	}
}
