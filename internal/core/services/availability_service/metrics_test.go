package availability_service

import (
	"testing"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

func slotsWithBooked(total, booked int) []domain.AvailabilitySlot {
	slots := make([]domain.AvailabilitySlot, total)
	for i := 0; i < booked; i++ {
		slots[i].IsBooked = true
	}
	return slots
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil, nil)
	if m.TotalSlots != 0 || m.BookingRate != 0 {
		t.Fatalf("empty metrics must be zero, got %+v", m)
	}
}

func TestComputeMetrics_Counts(t *testing.T) {
	upcoming := slotsWithBooked(3, 1)
	past := slotsWithBooked(3, 1)

	m := ComputeMetrics(upcoming, past)
	if m.TotalSlots != 6 || m.BookedSlots != 2 || m.AvailableSlots != 2 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	// 2/6 = 33.3%
	if m.BookingRate != 33 {
		t.Fatalf("expected rate 33, got %d", m.BookingRate)
	}
}

func TestComputeMetrics_RoundsHalfUp(t *testing.T) {
	m := ComputeMetrics(slotsWithBooked(2, 1), slotsWithBooked(1, 1))
	// 2/3 = 66.7%
	if m.BookingRate != 67 {
		t.Fatalf("expected 67, got %d", m.BookingRate)
	}

	m = ComputeMetrics(slotsWithBooked(8, 1), nil)
	// 1/8 = 12.5%
	if m.BookingRate != 13 {
		t.Fatalf("expected 13, got %d", m.BookingRate)
	}
}
