package cache

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

// LRUConflictCache хранит результаты проверки конфликтов в памяти процесса, записи живут CacheTTL
type LRUConflictCache struct {
	cache  *expirable.LRU[string, domain.ConflictCheckResponse]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewLRUConflictCache(cfg *config.Config, logger out.LoggerPort) *LRUConflictCache {
	size := cfg.Cache.Size
	if size <= 0 {
		size = 256
	}

	return &LRUConflictCache{
		cache:  expirable.NewLRU[string, domain.ConflictCheckResponse](size, nil, cfg.CacheTTL()),
		logger: logger.WithModule("ConflictCache"),
	}
}

func (c *LRUConflictCache) GetConflicts(ctx context.Context, key string) (*domain.ConflictCheckResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Get(key)
	if !exists {
		c.logger.Debug("cache.conflicts.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}

	c.logger.Debug("cache.conflicts.get.hit", out.LogFields{
		"key":       key,
		"conflicts": len(entry.Conflicts),
	})
	return cloneResponse(entry), true
}

func (c *LRUConflictCache) StoreConflicts(ctx context.Context, key string, resp domain.ConflictCheckResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.conflicts.store", out.LogFields{
		"key":       key,
		"conflicts": len(resp.Conflicts),
	})
	c.cache.Add(key, *cloneResponse(resp))
}

func (c *LRUConflictCache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.conflicts.invalidate", out.LogFields{
		"entries": c.cache.Len(),
	})
	c.cache.Purge()
}

// cloneResponse копирует слайс, чтобы вызывающий код не менял содержимое кэша
func cloneResponse(resp domain.ConflictCheckResponse) *domain.ConflictCheckResponse {
	conflicts := make([]domain.Conflict, len(resp.Conflicts))
	copy(conflicts, resp.Conflicts)
	return &domain.ConflictCheckResponse{
		Conflicts:    conflicts,
		HasConflicts: resp.HasConflicts,
	}
}
