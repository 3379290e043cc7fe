package cache

import (
	"context"
	"testing"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
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

func testConfig(ttlSeconds int) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Driver = config.CacheDriverLRU
	cfg.Cache.Size = 8
	cfg.Cache.TTLSeconds = ttlSeconds
	return cfg
}

func TestLRUConflictCache_StoreGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUConflictCache(testConfig(60), nopLogger{})

	if _, ok := c.GetConflicts(ctx, "2025-01-10|09:00-10:00"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.StoreConflicts(ctx, "2025-01-10|09:00-10:00", domain.ConflictCheckResponse{
		Conflicts:    []domain.Conflict{{ConflictingSlotID: 4, ConflictType: domain.ConflictTypeOverlap}},
		HasConflicts: true,
	})

	got, ok := c.GetConflicts(ctx, "2025-01-10|09:00-10:00")
	if !ok || !got.HasConflicts || got.Conflicts[0].ConflictingSlotID != 4 {
		t.Fatalf("unexpected cached value %+v %v", got, ok)
	}

	// изменение результата не должно затрагивать кэш
	got.Conflicts[0].ConflictingSlotID = 99
	again, _ := c.GetConflicts(ctx, "2025-01-10|09:00-10:00")
	if again.Conflicts[0].ConflictingSlotID != 4 {
		t.Fatalf("cache entry was mutated through returned value")
	}

	c.InvalidateAll(ctx)
	if _, ok := c.GetConflicts(ctx, "2025-01-10|09:00-10:00"); ok {
		t.Fatalf("expected miss after invalidation")
	}
}

func TestLRUConflictCache_Expires(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(1)
	c := NewLRUConflictCache(cfg, nopLogger{})

	c.StoreConflicts(ctx, "k", domain.ConflictCheckResponse{Conflicts: []domain.Conflict{}})
	time.Sleep(cfg.CacheTTL() + 200*time.Millisecond)

	if _, ok := c.GetConflicts(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestNewConflictCache_Drivers(t *testing.T) {
	ctx := context.Background()

	disabled := testConfig(60)
	disabled.Cache.Enabled = false
	port, err := NewConflictCache(ctx, disabled, nopLogger{})
	if err != nil || port != nil {
		t.Fatalf("disabled cache must be nil, got %v %v", port, err)
	}

	port, err = NewConflictCache(ctx, testConfig(60), nopLogger{})
	if err != nil {
		t.Fatalf("lru cache failed: %v", err)
	}
	if _, ok := port.(*LRUConflictCache); !ok {
		t.Fatalf("expected LRU cache, got %T", port)
	}

	unknown := testConfig(60)
	unknown.Cache.Driver = "memcached"
	if _, err := NewConflictCache(ctx, unknown, nopLogger{}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
