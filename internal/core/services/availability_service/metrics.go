package availability_service

import (
	"math"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

// ComputeMetrics считает сводку по текущим коллекциям, ничего не сохраняя
func ComputeMetrics(upcoming, past []domain.AvailabilitySlot) domain.AvailabilityMetrics {
	metrics := domain.AvailabilityMetrics{
		TotalSlots: len(upcoming) + len(past),
	}

	for _, slot := range upcoming {
		if slot.IsBooked {
			metrics.BookedSlots++
		} else {
			metrics.AvailableSlots++
		}
	}
	for _, slot := range past {
		if slot.IsBooked {
			metrics.BookedSlots++
		}
	}

	if metrics.TotalSlots > 0 {
		metrics.BookingRate = int(math.Round(float64(metrics.BookedSlots) / float64(metrics.TotalSlots) * 100))
	}

	return metrics
}
