package availability_service

import (
	"context"
	"fmt"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/availability-booking-engine/internal/utils"
)

const (
	FieldCurrentView   = "currentView"
	FieldCalendarMonth = "calendarMonth"
)

func (s *Store) SetCurrentView(ctx context.Context, view domain.View) error {
	if !view.IsValid() {
		return domain.ValidationErrors{
			FieldCurrentView: fmt.Sprintf("unknown view %q", view),
		}
	}

	before := s.current().Preferences()
	after := s.apply("view.changed", func(st Snapshot) Snapshot {
		return st.viewChanged(view)
	})
	return s.persistPreferences(ctx, before, after.Preferences())
}

func (s *Store) SetSelectedDate(date *json_types.Date) {
	s.apply("date.selected", func(st Snapshot) Snapshot {
		st.SelectedDate = date
		return st
	})
}

// SetCalendarMonth принимает месяц в формате YYYY-MM
func (s *Store) SetCalendarMonth(ctx context.Context, month string) error {
	if _, err := utils.ParseMonthKey(month); err != nil {
		return domain.ValidationErrors{
			FieldCalendarMonth: "calendarMonth must be in YYYY-MM format",
		}
	}

	before := s.current().Preferences()
	after := s.apply("calendar.month.changed", func(st Snapshot) Snapshot {
		st.CalendarMonth = month
		return st
	})
	return s.persistPreferences(ctx, before, after.Preferences())
}

func (s *Store) StartCreating(ctx context.Context) error {
	before := s.current().Preferences()
	after := s.apply("creating.started", Snapshot.creatingStarted)
	return s.persistPreferences(ctx, before, after.Preferences())
}

func (s *Store) StartEditing(ctx context.Context, id int64) error {
	before := s.current().Preferences()
	after := s.apply("editing.started", func(st Snapshot) Snapshot {
		return st.editingStarted(id)
	})
	return s.persistPreferences(ctx, before, after.Preferences())
}

func (s *Store) CancelEditing() {
	s.apply("editing.cancelled", Snapshot.editingCancelled)
}

func (s *Store) SetError(message string) {
	s.apply("error.set", func(st Snapshot) Snapshot {
		return st.errorSet(message)
	})
}

func (s *Store) ClearError() {
	s.apply("error.cleared", Snapshot.errorCleared)
}

// ToggleSlot переключает выбор ячейки и возвращает, выбрана ли она после вызова
func (s *Store) ToggleSlot(date json_types.Date, slot domain.TimeSlot) bool {
	next := s.apply("selection.toggled", func(st Snapshot) Snapshot {
		return st.selectionChanged(st.Selection.Toggle(date, slot))
	})
	return next.Selection.IsSelected(date, slot.StartTime)
}

func (s *Store) ClearSelection() {
	s.apply("selection.cleared", func(st Snapshot) Snapshot {
		return st.selectionChanged(st.Selection.Clear())
	})
}

// persistPreferences сохраняет настройки представления, только если они изменились
func (s *Store) persistPreferences(ctx context.Context, before, after domain.ViewPreferences) error {
	if before == after || s.prefsPort == nil || !s.cfg.Preferences.Enabled {
		return nil
	}

	if err := s.prefsPort.Save(ctx, s.cfg.App.UserKey, after); err != nil {
		s.logger.Warn("store.preferences.save_failed", out.LogFields{
			"userKey": s.cfg.App.UserKey,
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Debug("store.preferences.saved", out.LogFields{
		"userKey":       s.cfg.App.UserKey,
		"calendarMonth": after.CalendarMonth,
		"currentView":   after.CurrentView,
	})
	return nil
}
