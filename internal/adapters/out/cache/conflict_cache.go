package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

// NewConflictCache выбирает реализацию кэша по CACHE_DRIVER.
// Выключенный кэш возвращается как nil, сервис в этом случае ходит в API всегда.
func NewConflictCache(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (out.ConflictCachePort, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	switch cfg.Cache.Driver {
	case config.CacheDriverLRU, "":
		logger.Info("cache.init", out.LogFields{
			"driver": config.CacheDriverLRU,
			"size":   cfg.Cache.Size,
			"ttl":    cfg.CacheTTL().String(),
		})
		return NewLRUConflictCache(cfg, logger), nil
	case config.CacheDriverRedis:
		redisCache := NewRedisConflictCache(cfg, logger)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Error("cache.init.failed", out.LogFields{
				"driver": config.CacheDriverRedis,
				"addr":   cfg.Cache.RedisAddr,
				"error":  err.Error(),
			})
			_ = redisCache.Close()
			return nil, err
		}

		logger.Info("cache.init", out.LogFields{
			"driver": config.CacheDriverRedis,
			"addr":   cfg.Cache.RedisAddr,
			"ttl":    cfg.CacheTTL().String(),
		})
		return redisCache, nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Cache.Driver)
	}
}
