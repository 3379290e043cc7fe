package domain

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type ListSummary struct {
	TotalSlots     int `json:"totalSlots"`
	BookedSlots    int `json:"bookedSlots"`
	AvailableSlots int `json:"availableSlots"`
	UpcomingSlots  int `json:"upcomingSlots"`
}

type ListAvailabilityResponse struct {
	Data       []RawSlot   `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Summary    ListSummary `json:"summary"`
}

type SkippedSlot struct {
	Slot   CreateAvailabilityRequest `json:"slot"`
	Reason string                    `json:"reason"`
}

type BulkCreateSummary struct {
	TotalRequested      int `json:"totalRequested"`
	SuccessfullyCreated int `json:"successfullyCreated"`
	Skipped             int `json:"skipped"`
}

type BulkCreateAvailabilityResponse struct {
	Created []RawSlot         `json:"created"`
	Skipped []SkippedSlot     `json:"skipped"`
	Summary BulkCreateSummary `json:"summary"`
}

// BulkCreateResult - ответ bulk-создания после нормализации созданных слотов
type BulkCreateResult struct {
	Created []AvailabilitySlot `json:"created"`
	Skipped []SkippedSlot      `json:"skipped"`
	Summary BulkCreateSummary  `json:"summary"`
}

type DeleteAvailabilityResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type ConflictType string

const (
	ConflictTypeOverlap   ConflictType = "overlap"
	ConflictTypeTooClose  ConflictType = "too_close"
	ConflictTypeDuplicate ConflictType = "duplicate"
)

type Conflict struct {
	ConflictingSlotID int64        `json:"conflictingSlotId"`
	ConflictType      ConflictType `json:"conflictType"`
	Description       string       `json:"conflictDescription"`
}

type ConflictCheckResponse struct {
	Conflicts    []Conflict `json:"conflicts"`
	HasConflicts bool       `json:"hasConflicts"`
}
