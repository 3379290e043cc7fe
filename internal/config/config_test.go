package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "LOCAL")
	t.Setenv("CACHE_DRIVER", "Redis")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if !cfg.IsLocal() {
		t.Fatalf("expected local env, got %q", cfg.App.Env)
	}
	if cfg.IsNotLocal() {
		t.Fatalf("local env must not be reported as not local")
	}
	if cfg.Cache.Driver != CacheDriverRedis {
		t.Fatalf("cache driver = %q, want %q", cfg.Cache.Driver, CacheDriverRedis)
	}
	if cfg.Engine.DaysInAdvance != 7 || cfg.Engine.MaxSlotsPerDay != 4 {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.Engine.MinDurationMinutes != 30 || cfg.Engine.MaxDurationMinutes != 240 {
		t.Fatalf("unexpected duration bounds: %+v", cfg.Engine)
	}
}

func TestParseBasicClients(t *testing.T) {
	clients := parseBasicClients("ui:secret, admin:p:w ,broken,:nouser")

	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d (%+v)", len(clients), clients)
	}
	if clients[0].Username != "ui" || clients[0].Password != "secret" {
		t.Fatalf("unexpected first client: %+v", clients[0])
	}
	if clients[1].Username != "admin" || clients[1].Password != "p:w" {
		t.Fatalf("unexpected second client: %+v", clients[1])
	}
}

func TestConfig_LocationFallback(t *testing.T) {
	cfg := &Config{}
	cfg.App.Timezone = "Mars/Olympus"

	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback for unknown timezone")
	}
	if cfg.APITimeout() != 10*time.Second {
		t.Fatalf("expected default api timeout, got %v", cfg.APITimeout())
	}
	if cfg.CacheTTL() != time.Minute {
		t.Fatalf("expected default cache ttl, got %v", cfg.CacheTTL())
	}
}
