package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// viewPreferencesModel - строка таблицы view_preferences, одна на пользователя
type viewPreferencesModel struct {
	UserKey       string `gorm:"primaryKey;size:128"`
	CalendarMonth string `gorm:"size:7"`
	CurrentView   string `gorm:"size:16"`
	UpdatedAt     time.Time
}

func (viewPreferencesModel) TableName() string {
	return "view_preferences"
}

type PreferencesRepository struct {
	db     *gorm.DB
	logger out.LoggerPort
}

func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Preferences.Driver {
	case config.PreferencesDriverSqlite, "":
		return sqlite.Open(cfg.Preferences.DSN), nil
	case config.PreferencesDriverPostgres:
		return postgres.Open(cfg.Preferences.DSN), nil
	default:
		return nil, fmt.Errorf("unknown preferences driver: %s", cfg.Preferences.Driver)
	}
}

// NewPreferencesRepository открывает хранилище настроек и создаёт таблицу, если её нет.
// Выключенное хранилище возвращается как nil.
func NewPreferencesRepository(cfg *config.Config, logger out.LoggerPort) (*PreferencesRepository, error) {
	if !cfg.Preferences.Enabled {
		logger.Info("preferences.disabled", out.LogFields{
			"message": "Preferences storage is disabled",
		})
		return nil, nil
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Error("preferences.init.failed", out.LogFields{
			"driver": cfg.Preferences.Driver,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if err := db.AutoMigrate(&viewPreferencesModel{}); err != nil {
		logger.Error("preferences.migrate.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("preferences.init", out.LogFields{
		"driver": cfg.Preferences.Driver,
	})

	return &PreferencesRepository{
		db:     db,
		logger: logger.WithModule("PreferencesRepository"),
	}, nil
}

func (r *PreferencesRepository) Load(ctx context.Context, userKey string) (domain.ViewPreferences, bool, error) {
	var model viewPreferencesModel
	err := r.db.WithContext(ctx).Where("user_key = ?", userKey).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Debug("preferences.load.not_found", out.LogFields{
			"userKey": userKey,
		})
		return domain.ViewPreferences{}, false, nil
	}
	if err != nil {
		r.logger.Error("preferences.load.failed", out.LogFields{
			"userKey": userKey,
			"error":   err.Error(),
		})
		return domain.ViewPreferences{}, false, err
	}

	return domain.ViewPreferences{
		CalendarMonth: model.CalendarMonth,
		CurrentView:   domain.View(model.CurrentView),
	}, true, nil
}

func (r *PreferencesRepository) Save(ctx context.Context, userKey string, prefs domain.ViewPreferences) error {
	model := viewPreferencesModel{
		UserKey:       userKey,
		CalendarMonth: prefs.CalendarMonth,
		CurrentView:   string(prefs.CurrentView),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"calendar_month", "current_view", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		r.logger.Error("preferences.save.failed", out.LogFields{
			"userKey": userKey,
			"error":   err.Error(),
		})
		return err
	}

	r.logger.Debug("preferences.save.success", out.LogFields{
		"userKey":       userKey,
		"calendarMonth": prefs.CalendarMonth,
		"currentView":   prefs.CurrentView,
	})
	return nil
}

func (r *PreferencesRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
