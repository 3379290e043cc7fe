package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/in/http"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/out/availability_api"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/out/cache"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/out/logger"
	"github.com/suchimauz/availability-booking-engine/internal/adapters/out/preferences"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/availability-booking-engine/internal/core/services/availability_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger := logger.NewConsoleLogger(cfg.App.Timezone, cfg.App.LogLevel)
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":            cfg.App.Version,
		"env":                cfg.App.Env,
		"timezone":           cfg.App.Timezone,
		"rabbitmqEnabled":    cfg.RabbitMQ.Enabled,
		"cacheEnabled":       cfg.Cache.Enabled,
		"cacheDriver":        cfg.Cache.Driver,
		"preferencesEnabled": cfg.Preferences.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация адаптеров
	apiAdapter := availability_api.NewAvailabilityAPIAdapter(cfg, mainLogger.WithModule("AvailabilityAPIAdapter"))

	conflictCache, err := cache.NewConflictCache(ctx, cfg, mainLogger.WithModule("CacheAdapter"))
	if err != nil {
		logger.Error("app.cache.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if closer, ok := conflictCache.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("app.cache.close_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	// nil-указатель в интерфейсе не равен nil, поэтому порт присваивается только при включённом хранилище
	var prefsPort out.PreferencesPort
	prefsRepository, err := preferences.NewPreferencesRepository(cfg, mainLogger.WithModule("PreferencesRepository"))
	if err != nil {
		logger.Error("app.preferences.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if prefsRepository != nil {
		prefsPort = prefsRepository
		defer prefsRepository.Close()
	}

	store := availability_service.NewStore(cfg, apiAdapter, conflictCache, prefsPort, mainLogger)
	if err := store.Init(ctx); err != nil {
		// без сохранённых настроек приложение работает с настройками по умолчанию
		logger.Warn("app.store.init_failed", out.LogFields{
			"error": err.Error(),
		})
	}
	if err := store.Load(ctx, domain.ListAvailabilityParams{}, false); err != nil {
		logger.Warn("app.store.initial_load_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewAvailabilityController(store, cfg, mainLogger.WithModule("HttpController"))
	controller.RegisterRoutes(router)

	// RabbitMQ слушатель только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewBookingListener(store, cfg, mainLogger.WithModule("RabbitMQListener"))
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"availabilityApi": map[string]interface{}{
					"url":     cfg.AvailabilityAPI.URL,
					"timeout": cfg.APITimeout().String(),
				},
				"rabbitmq": map[string]interface{}{
					"enabled":  cfg.RabbitMQ.Enabled,
					"exchange": cfg.RabbitMQ.Exchange,
					"queue":    cfg.RabbitMQ.Queue,
				},
				"cache": map[string]interface{}{
					"enabled": cfg.Cache.Enabled,
					"driver":  cfg.Cache.Driver,
					"size":    cfg.Cache.Size,
				},
			},
		})
	}
}
