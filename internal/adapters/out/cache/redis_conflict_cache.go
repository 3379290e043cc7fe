package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

const redisKeyPrefix = "availability:conflicts:"

// RedisConflictCache - общий для нескольких экземпляров кэш конфликтов
type RedisConflictCache struct {
	client *redis.Client
	ttl    time.Duration
	logger out.LoggerPort
}

func NewRedisConflictCache(cfg *config.Config, logger out.LoggerPort) *RedisConflictCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	return newRedisConflictCache(client, cfg.CacheTTL(), logger)
}

func newRedisConflictCache(client *redis.Client, ttl time.Duration, logger out.LoggerPort) *RedisConflictCache {
	return &RedisConflictCache{
		client: client,
		ttl:    ttl,
		logger: logger.WithModule("ConflictCache"),
	}
}

// Ping проверяет доступность redis при старте
func (c *RedisConflictCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisConflictCache) Close() error {
	return c.client.Close()
}

func (c *RedisConflictCache) GetConflicts(ctx context.Context, key string) (*domain.ConflictCheckResponse, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("cache.conflicts.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache.conflicts.get.failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var resp domain.ConflictCheckResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warn("cache.conflicts.decode.failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []domain.Conflict{}
	}

	c.logger.Debug("cache.conflicts.get.hit", out.LogFields{
		"key":       key,
		"conflicts": len(resp.Conflicts),
	})
	return &resp, true
}

func (c *RedisConflictCache) StoreConflicts(ctx context.Context, key string, resp domain.ConflictCheckResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("cache.conflicts.encode.failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache.conflicts.store.failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	c.logger.Debug("cache.conflicts.store", out.LogFields{
		"key":       key,
		"conflicts": len(resp.Conflicts),
	})
}

func (c *RedisConflictCache) InvalidateAll(ctx context.Context) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			c.logger.Warn("cache.conflicts.invalidate.failed", out.LogFields{
				"error": err.Error(),
			})
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache.conflicts.invalidate.failed", out.LogFields{
					"error": err.Error(),
				})
				return
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("cache.conflicts.invalidate", out.LogFields{
		"entries": removed,
	})
}
