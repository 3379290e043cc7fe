package preferences

import (
	"context"
	"fmt"
	"testing"

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

func newTestRepository(t *testing.T) *PreferencesRepository {
	t.Helper()

	cfg := &config.Config{}
	cfg.Preferences.Enabled = true
	cfg.Preferences.Driver = config.PreferencesDriverSqlite
	cfg.Preferences.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	repo, err := NewPreferencesRepository(cfg, nopLogger{})
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestPreferencesRepository_LoadMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, found, err := repo.Load(context.Background(), "nobody")
	if err != nil || found {
		t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
	}
}

func TestPreferencesRepository_SaveUpserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := domain.ViewPreferences{CalendarMonth: "2025-01", CurrentView: domain.ViewUpcoming}
	if err := repo.Save(ctx, "u1", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := domain.ViewPreferences{CalendarMonth: "2025-02", CurrentView: domain.ViewPast}
	if err := repo.Save(ctx, "u1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, found, err := repo.Load(ctx, "u1")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got != second {
		t.Fatalf("Load() = %+v, want %+v", got, second)
	}

	var count int64
	repo.db.Model(&viewPreferencesModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single row per user, got %d", count)
	}
}

func TestNewPreferencesRepository_Disabled(t *testing.T) {
	cfg := &config.Config{}
	repo, err := NewPreferencesRepository(cfg, nopLogger{})
	if err != nil || repo != nil {
		t.Fatalf("disabled storage must be nil, got %v %v", repo, err)
	}
}
