package availability_service

import (
	"context"
	"sync"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/availability-booking-engine/internal/utils"
)

const (
	defaultListPage  = 1
	defaultListLimit = 100
)

// Store - хранилище слотов пользователя. Все изменения состояния идут через apply,
// сетевые вызовы выполняются без удержания блокировки.
type Store struct {
	cfg       *config.Config
	apiPort   out.AvailabilityAPIPort
	cachePort out.ConflictCachePort
	prefsPort out.PreferencesPort
	logger    out.LoggerPort
	validator *SlotValidator
	window    WindowConfig
	location  *time.Location
	clock     func() time.Time

	mu          sync.RWMutex
	state       Snapshot
	loadGen     uint64
	appliedGen  uint64
	lastParams  domain.ListAvailabilityParams
	initialized bool

	// conflictGen растёт при каждой инвалидации кэша конфликтов.
	// Запись в кэш и инвалидация идут под conflictMu.
	conflictMu  sync.Mutex
	conflictGen uint64
}

func NewStore(
	cfg *config.Config,
	apiPort out.AvailabilityAPIPort,
	cachePort out.ConflictCachePort,
	prefsPort out.PreferencesPort,
	logger out.LoggerPort,
) *Store {
	s := &Store{
		cfg:       cfg,
		apiPort:   apiPort,
		cachePort: cachePort,
		prefsPort: prefsPort,
		logger:    logger.WithModule("AvailabilityStore"),
		validator: NewSlotValidator(DurationLimitsFromConfig(cfg)),
		window:    WindowConfigFromConfig(cfg),
		location:  cfg.Location(),
		clock:     time.Now,
	}

	now := s.now()
	s.state = initialSnapshot(now, s.window, utils.MonthKey(now))
	s.lastParams = withListDefaults(domain.ListAvailabilityParams{})

	return s
}

// SetClock подменяет источник текущего времени
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *Store) now() time.Time {
	s.mu.RLock()
	clock := s.clock
	s.mu.RUnlock()
	return clock().In(s.location)
}

func (s *Store) apply(event string, fn func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	s.mu.Unlock()

	s.logger.Debug("store."+event, out.LogFields{
		"upcoming":   len(next.UpcomingSlots),
		"past":       len(next.PastSlots),
		"isLoading":  next.IsLoading,
		"isSaving":   next.IsSaving,
		"isDeleting": next.IsDeleting,
		"view":       next.CurrentView,
	})

	return next
}

func withListDefaults(params domain.ListAvailabilityParams) domain.ListAvailabilityParams {
	// Бронирования нужны всегда, иначе isBooked будет ложным
	params.IncludeBookings = true
	if params.Page < 1 {
		params.Page = defaultListPage
	}
	if params.Limit < 1 {
		params.Limit = defaultListLimit
	}
	return params
}

// Init восстанавливает сохранённые настройки представления и перестраивает календарь.
// Повторный вызов ничего не делает.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.mu.Unlock()

	now := s.now()
	s.apply("init", func(st Snapshot) Snapshot {
		st.CalendarMonth = utils.MonthKey(now)
		return st.calendarRegenerated(GenerateCalendarWindow(now, s.window))
	})

	if s.prefsPort == nil || !s.cfg.Preferences.Enabled {
		return nil
	}

	prefs, found, err := s.prefsPort.Load(ctx, s.cfg.App.UserKey)
	if err != nil {
		s.logger.Warn("store.preferences.load_failed", out.LogFields{
			"userKey": s.cfg.App.UserKey,
			"error":   err.Error(),
		})
		return err
	}
	if !found {
		return nil
	}

	s.apply("preferences.applied", func(st Snapshot) Snapshot {
		return st.preferencesApplied(prefs)
	})
	return nil
}

// Load загружает слоты и делит их на предстоящие и прошедшие по времени начала вызова.
// Без forceRefresh сетевой вызов пропускается, если данные уже загружены.
// Ответ загрузки, начатой раньше уже применённой, отбрасывается.
func (s *Store) Load(ctx context.Context, params domain.ListAvailabilityParams, forceRefresh bool) error {
	params = withListDefaults(params)

	s.mu.Lock()
	if !forceRefresh && s.state.Loaded {
		s.mu.Unlock()
		s.logger.Debug("store.load.cache_hit", nil)
		return nil
	}
	s.loadGen++
	gen := s.loadGen
	s.lastParams = params
	s.state = s.state.loadStarted()
	s.mu.Unlock()

	now := s.now()

	s.logger.Info("store.load.started", out.LogFields{
		"generation":   gen,
		"forceRefresh": forceRefresh,
	})

	resp, err := s.apiPort.ListSlots(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	latest := gen == s.loadGen
	if err != nil {
		if latest {
			s.state = s.state.loadFailed(err.Error())
		}
		s.logger.Error("store.load.failed", out.LogFields{
			"generation": gen,
			"latest":     latest,
			"error":      err.Error(),
		})
		return err
	}

	if gen < s.appliedGen {
		s.logger.Warn("store.load.stale_discarded", out.LogFields{
			"generation": gen,
			"applied":    s.appliedGen,
		})
		return nil
	}

	slots := NormalizeSlots(resp.Data)
	upcoming, past := Partition(slots, now, s.location)

	s.appliedGen = gen
	s.state = s.state.loadFinished(upcoming, past, now, latest)

	s.logger.Info("store.load.succeeded", out.LogFields{
		"generation": gen,
		"upcoming":   len(upcoming),
		"past":       len(past),
	})
	return nil
}

// reload - принудительная загрузка с последними параметрами
func (s *Store) reload(ctx context.Context) error {
	s.mu.RLock()
	params := s.lastParams
	s.mu.RUnlock()
	return s.Load(ctx, params, true)
}

func (s *Store) RefreshBookingData(ctx context.Context) error {
	s.logger.Debug("store.bookings.refresh", nil)
	return s.reload(ctx)
}

// Repartition заново делит загруженные слоты по текущему времени, без сетевого вызова
func (s *Store) Repartition() {
	now := s.now()
	s.apply("repartitioned", func(st Snapshot) Snapshot {
		upcoming, past := Partition(st.allSlots(), now, s.location)
		return st.repartitioned(now, upcoming, past)
	})
}

// RefreshCalendar перестраивает окно календаря от текущего времени
func (s *Store) RefreshCalendar() {
	now := s.now()
	s.apply("calendar.regenerated", func(st Snapshot) Snapshot {
		return st.calendarRegenerated(GenerateCalendarWindow(now, s.window))
	})
}

// Получение состояния

// current отдаёт состояние без копирования, только для чтения внутри пакета
func (s *Store) current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot возвращает копию состояния: вызывающий код может менять её без блокировки
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) UpcomingSlots() []domain.AvailabilitySlot {
	return cloneSlots(s.current().UpcomingSlots)
}

func (s *Store) PastSlots() []domain.AvailabilitySlot {
	return cloneSlots(s.current().PastSlots)
}

// BookedSlots - забронированные предстоящие слоты
func (s *Store) BookedSlots() []domain.AvailabilitySlot {
	booked := make([]domain.AvailabilitySlot, 0)
	for _, slot := range s.UpcomingSlots() {
		if slot.IsBooked {
			booked = append(booked, slot)
		}
	}
	return booked
}

// AvailableSlots - свободные предстоящие слоты
func (s *Store) AvailableSlots() []domain.AvailabilitySlot {
	available := make([]domain.AvailabilitySlot, 0)
	for _, slot := range s.UpcomingSlots() {
		if !slot.IsBooked {
			available = append(available, slot)
		}
	}
	return available
}

func (s *Store) SlotByID(id int64) (domain.AvailabilitySlot, bool) {
	slot, ok := s.current().findSlot(id)
	return cloneSlot(slot), ok
}

func (s *Store) AvailableDays() []domain.DayAvailability {
	return cloneDays(s.current().AvailableDays)
}

func (s *Store) Metrics() domain.AvailabilityMetrics {
	st := s.current()
	return ComputeMetrics(st.UpcomingSlots, st.PastSlots)
}

func (s *Store) SelectedCount() int {
	return s.current().Selection.Count()
}

func (s *Store) CanAddMore(date json_types.Date) bool {
	return s.current().Selection.CanAddMore(date)
}
