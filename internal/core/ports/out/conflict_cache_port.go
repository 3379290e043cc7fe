package out

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
)

type ConflictCachePort interface {
	GetConflicts(ctx context.Context, key string) (*domain.ConflictCheckResponse, bool)
	StoreConflicts(ctx context.Context, key string, resp domain.ConflictCheckResponse)
	InvalidateAll(ctx context.Context)
}
