package availability_service

import (
	"context"
	"sync"
	"time"

	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)              {}
func (nopLogger) Info(string, out.LogFields)               {}
func (nopLogger) Warn(string, out.LogFields)               {}
func (nopLogger) Error(string, out.LogFields)              {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.App.UserKey = "user-1"
	cfg.AvailabilityAPI.DefaultTimezone = "UTC"
	cfg.Engine.DaysInAdvance = 7
	cfg.Engine.MaxSlotsPerDay = 4
	cfg.Engine.FirstHour = 9
	cfg.Engine.LastHour = 22
	cfg.Engine.SlotMinutes = 60
	cfg.Engine.MinDurationMinutes = 30
	cfg.Engine.MaxDurationMinutes = 240
	cfg.Cache.Enabled = true
	cfg.Preferences.Enabled = true
	return cfg
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(str string) json_types.Date {
	d, err := json_types.ParseDate(str)
	if err != nil {
		panic(err)
	}
	return d
}

func hm(str string) json_types.Time {
	return json_types.MustParseTime(str)
}

func rawSlot(id int64, day, start, end string) domain.RawSlot {
	return domain.RawSlot{
		ID:               id,
		UserID:           1,
		AvailabilityDate: date(day),
		StartTime:        hm(start),
		EndTime:          hm(end),
		Timezone:         "UTC",
		DateType:         domain.DateTypeOnline,
		Status:           domain.AvailabilityStatusActive,
	}
}

// fakeAPI - управляемая реализация AvailabilityAPIPort
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	listFn           func(call int, params domain.ListAvailabilityParams) (*domain.ListAvailabilityResponse, error)
	bulkCreateFn     func(req domain.BulkCreateAvailabilityRequest) (*domain.BulkCreateAvailabilityResponse, error)
	updateFn         func(id int64, patch domain.UpdateAvailabilityRequest) (*domain.RawSlot, error)
	deleteFn         func(id int64) (*domain.DeleteAvailabilityResponse, error)
	cancelSlotFn     func(id int64, reason string) (*domain.RawSlot, error)
	checkConflictsFn func(req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error)
	bookFn           func(req domain.BookSlotRequest) (*domain.RawBooking, error)
	cancelBookingFn  func(id int64, reason string) (*domain.CancelResponse, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.calls[name]
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListSlots(_ context.Context, params domain.ListAvailabilityParams) (*domain.ListAvailabilityResponse, error) {
	call := f.count("list")
	if f.listFn == nil {
		return &domain.ListAvailabilityResponse{Data: []domain.RawSlot{}}, nil
	}
	return f.listFn(call, params)
}

func (f *fakeAPI) BulkCreate(_ context.Context, req domain.BulkCreateAvailabilityRequest) (*domain.BulkCreateAvailabilityResponse, error) {
	f.count("bulkCreate")
	return f.bulkCreateFn(req)
}

func (f *fakeAPI) UpdateSlot(_ context.Context, id int64, patch domain.UpdateAvailabilityRequest) (*domain.RawSlot, error) {
	f.count("update")
	return f.updateFn(id, patch)
}

func (f *fakeAPI) DeleteSlot(_ context.Context, id int64) (*domain.DeleteAvailabilityResponse, error) {
	f.count("delete")
	if f.deleteFn == nil {
		return &domain.DeleteAvailabilityResponse{DeletedID: id}, nil
	}
	return f.deleteFn(id)
}

func (f *fakeAPI) CancelSlot(_ context.Context, id int64, reason string) (*domain.RawSlot, error) {
	f.count("cancelSlot")
	return f.cancelSlotFn(id, reason)
}

func (f *fakeAPI) CheckConflicts(_ context.Context, req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error) {
	f.count("checkConflicts")
	return f.checkConflictsFn(req)
}

func (f *fakeAPI) BookSlot(_ context.Context, req domain.BookSlotRequest) (*domain.RawBooking, error) {
	f.count("book")
	return f.bookFn(req)
}

func (f *fakeAPI) CancelBooking(_ context.Context, id int64, reason string) (*domain.CancelResponse, error) {
	f.count("cancelBooking")
	return f.cancelBookingFn(id, reason)
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]domain.ConflictCheckResponse
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]domain.ConflictCheckResponse{}}
}

func (c *fakeCache) GetConflicts(_ context.Context, key string) (*domain.ConflictCheckResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return &resp, true
}

func (c *fakeCache) StoreConflicts(_ context.Context, key string, resp domain.ConflictCheckResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = resp
}

func (c *fakeCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]domain.ConflictCheckResponse{}
}

type fakePrefs struct {
	mu    sync.Mutex
	saved map[string]domain.ViewPreferences
	saves int
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{saved: map[string]domain.ViewPreferences{}}
}

func (p *fakePrefs) Load(_ context.Context, userKey string) (domain.ViewPreferences, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, ok := p.saved[userKey]
	return prefs, ok, nil
}

func (p *fakePrefs) Save(_ context.Context, userKey string, prefs domain.ViewPreferences) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved[userKey] = prefs
	p.saves++
	return nil
}

type storeFixture struct {
	store *Store
	api   *fakeAPI
	cache *fakeCache
	prefs *fakePrefs
}

func newStoreFixture(now time.Time) storeFixture {
	api := newFakeAPI()
	cache := newFakeCache()
	prefs := newFakePrefs()
	store := NewStore(testConfig(), api, cache, prefs, nopLogger{})
	store.SetClock(fixedClock(now))
	store.RefreshCalendar()
	return storeFixture{store: store, api: api, cache: cache, prefs: prefs}
}
