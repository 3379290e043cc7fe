package availability_service

import "github.com/suchimauz/availability-booking-engine/internal/core/domain"

type SlotSlice []domain.AvailabilitySlot

// startsBefore сравнивает слоты по дате, затем по времени начала
func startsBefore(a, b domain.AvailabilitySlot) bool {
	if !a.AvailabilityDate.Equal(b.AvailabilityDate) {
		return a.AvailabilityDate.Before(b.AvailabilityDate)
	}
	return a.StartTime.Before(b.StartTime)
}

func startsEqual(a, b domain.AvailabilitySlot) bool {
	return a.AvailabilityDate.Equal(b.AvailabilityDate) && a.StartTime.Minutes == b.StartTime.Minutes
}

// quickSort сортирует по возрастанию начала, порядок равных элементов сохраняется
func (s SlotSlice) quickSort() SlotSlice {
	if len(s) < 2 {
		return s
	}

	pivot := s[len(s)/2]

	less := SlotSlice{}
	equal := SlotSlice{}
	greater := SlotSlice{}

	for _, slot := range s {
		if startsEqual(slot, pivot) {
			equal = append(equal, slot)
		} else if startsBefore(slot, pivot) {
			less = append(less, slot)
		} else {
			greater = append(greater, slot)
		}
	}

	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

func (s SlotSlice) reversed() SlotSlice {
	result := make(SlotSlice, len(s))
	for i, slot := range s {
		result[len(s)-1-i] = slot
	}
	return result
}
