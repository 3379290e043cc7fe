package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/suchimauz/availability-booking-engine/internal/utils"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type CacheDriver string

const (
	CacheDriverLRU   CacheDriver = "lru"
	CacheDriverRedis CacheDriver = "redis"
)

type PreferencesDriver string

const (
	PreferencesDriverSqlite   PreferencesDriver = "sqlite"
	PreferencesDriverPostgres PreferencesDriver = "postgres"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
		UserKey  string      `env:"APP_USER_KEY" envDefault:"default"`
		LogLevel string      `env:"APP_LOG_LEVEL" envDefault:"DEBUG"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"availability:availability"`
		BasicClients       []ConfigBasicClient
	}

	AvailabilityAPI struct {
		URL             string `env:"AVAILABILITY_API_URL" envDefault:"http://localhost:3000/api/v1"`
		Token           string `env:"AVAILABILITY_API_TOKEN"`
		TimeoutSeconds  int    `env:"AVAILABILITY_API_TIMEOUT_SECONDS" envDefault:"10"`
		DefaultTimezone string `env:"AVAILABILITY_API_DEFAULT_TIMEZONE" envDefault:"UTC"`
	}

	Engine struct {
		DaysInAdvance      int `env:"ENGINE_DAYS_IN_ADVANCE" envDefault:"7"`
		MaxSlotsPerDay     int `env:"ENGINE_MAX_SLOTS_PER_DAY" envDefault:"4"`
		FirstHour          int `env:"ENGINE_FIRST_HOUR" envDefault:"9"`
		LastHour           int `env:"ENGINE_LAST_HOUR" envDefault:"22"`
		SlotMinutes        int `env:"ENGINE_SLOT_MINUTES" envDefault:"60"`
		MinDurationMinutes int `env:"ENGINE_MIN_DURATION_MINUTES" envDefault:"30"`
		MaxDurationMinutes int `env:"ENGINE_MAX_DURATION_MINUTES" envDefault:"240"`
	}

	Cache struct {
		Enabled       bool        `env:"CACHE_ENABLED" envDefault:"true"`
		Driver        CacheDriver `env:"CACHE_DRIVER" envDefault:"lru"`
		Size          int         `env:"CACHE_SIZE" envDefault:"256"`
		TTLSeconds    int         `env:"CACHE_TTL_SECONDS" envDefault:"60"`
		RedisAddr     string      `env:"REDIS_URL" envDefault:"localhost:6379"`
		RedisPassword string      `env:"REDIS_PASSWORD"`
		RedisDB       int         `env:"REDIS_DB" envDefault:"0"`
	}

	RabbitMQ struct {
		Enabled    bool   `env:"RABBITMQ_ENABLED"`
		URL        string `env:"RABBITMQ_URL"`
		Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"availability"`
		Queue      string `env:"RABBITMQ_QUEUE" envDefault:"availability-engine.bookings"`
		BindingKey string `env:"RABBITMQ_BINDING_KEY" envDefault:"availability.#"`
	}

	Preferences struct {
		Enabled bool              `env:"PREFERENCES_ENABLED" envDefault:"true"`
		Driver  PreferencesDriver `env:"PREFERENCES_DRIVER" envDefault:"sqlite"`
		DSN     string            `env:"PREFERENCES_DSN" envDefault:"file:preferences.db?cache=shared"`
	}
}

func NewConfig() (*Config, error) {
	// .env нужен только для локальной разработки, его отсутствие не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.App.LogLevel = strings.ToUpper(cfg.App.LogLevel)
	cfg.Cache.Driver = CacheDriver(strings.ToLower(string(cfg.Cache.Driver)))
	cfg.Preferences.Driver = PreferencesDriver(strings.ToLower(string(cfg.Preferences.Driver)))

	cfg.Auth.BasicClients = parseBasicClients(cfg.Auth.BasicClientsString)

	return cfg, nil
}

func parseBasicClients(raw string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

// Location возвращает таймзону приложения, UTC если она не распознана
func (c *Config) Location() *time.Location {
	return utils.LoadLocationOr(c.App.Timezone, time.UTC)
}

func (c *Config) APITimeout() time.Duration {
	if c.AvailabilityAPI.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.AvailabilityAPI.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
