package availability_service

import (
	"context"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

// Create создаёт слоты одним bulk-запросом с пропуском конфликтов и затем
// принудительно перезагружает коллекции. Пропущенные сервером слоты ошибкой не считаются.
func (s *Store) Create(ctx context.Context, requests []domain.CreateAvailabilityRequest) (*domain.BulkCreateResult, error) {
	if err := s.validator.ValidateCreateBatch(requests); err != nil {
		s.rejectInvalid("create", err)
		return nil, err
	}

	slots := make([]domain.CreateAvailabilityRequest, len(requests))
	for i, req := range requests {
		if req.Timezone == "" {
			req.Timezone = s.cfg.AvailabilityAPI.DefaultTimezone
		}
		slots[i] = req
	}

	s.apply("create.started", Snapshot.savingStarted)
	s.logger.Info("store.create.started", out.LogFields{
		"requested": len(slots),
	})

	resp, err := s.apiPort.BulkCreate(ctx, domain.BulkCreateAvailabilityRequest{
		Slots:         slots,
		SkipConflicts: true,
	})
	if err != nil {
		s.apply("create.failed", func(st Snapshot) Snapshot {
			return st.savingFailed(err.Error())
		})
		s.logger.Error("store.create.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.invalidateConflicts(ctx)

	if err := s.reload(ctx); err != nil {
		s.logger.Warn("store.create.reload_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	before := s.current().Preferences()
	after := s.apply("create.succeeded", Snapshot.created)
	s.persistPreferences(ctx, before, after.Preferences())

	s.logger.Info("store.create.succeeded", out.LogFields{
		"created": resp.Summary.SuccessfullyCreated,
		"skipped": resp.Summary.Skipped,
	})

	skipped := resp.Skipped
	if skipped == nil {
		skipped = []domain.SkippedSlot{}
	}
	return &domain.BulkCreateResult{
		Created: NormalizeSlots(resp.Created),
		Skipped: skipped,
		Summary: resp.Summary,
	}, nil
}

// CreateFromSelection создаёт слоты из текущего выбора в календаре
func (s *Store) CreateFromSelection(ctx context.Context, opts domain.CreateOptions) (*domain.BulkCreateResult, error) {
	if opts.Timezone == "" {
		opts.Timezone = s.cfg.AvailabilityAPI.DefaultTimezone
	}
	requests := s.current().Selection.ToCreateRequests(opts)
	return s.Create(ctx, requests)
}

// Update проверяет слот в том виде, каким он станет после изменений, и только потом
// обращается к API. Обновлённый слот заменяется на месте в своей коллекции.
func (s *Store) Update(ctx context.Context, id int64, patch domain.UpdateAvailabilityRequest) (*domain.AvailabilitySlot, error) {
	var existing *domain.AvailabilitySlot
	if slot, ok := s.SlotByID(id); ok {
		existing = &slot
	}

	if err := s.validator.ValidateUpdate(existing, patch); err != nil {
		s.rejectInvalid("update", err)
		return nil, err
	}

	s.apply("update.started", Snapshot.savingStarted)

	raw, err := s.apiPort.UpdateSlot(ctx, id, patch)
	if err != nil {
		s.apply("update.failed", func(st Snapshot) Snapshot {
			return st.savingFailed(err.Error())
		})
		s.logger.Error("store.update.failed", out.LogFields{
			"slotId": id,
			"error":  err.Error(),
		})
		return nil, err
	}

	slot := NormalizeSlot(*raw)
	if slot.ID == 0 {
		slot.ID = id
	}

	s.invalidateConflicts(ctx)
	s.apply("update.succeeded", func(st Snapshot) Snapshot {
		return st.updated(slot)
	})

	return &slot, nil
}

// Delete удаляет слот из обеих коллекций, повторное удаление безопасно
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.apply("delete.started", Snapshot.deletingStarted)

	if _, err := s.apiPort.DeleteSlot(ctx, id); err != nil {
		s.apply("delete.failed", func(st Snapshot) Snapshot {
			return st.deletingFailed(err.Error())
		})
		s.logger.Error("store.delete.failed", out.LogFields{
			"slotId": id,
			"error":  err.Error(),
		})
		return err
	}

	s.invalidateConflicts(ctx)
	s.apply("delete.succeeded", func(st Snapshot) Snapshot {
		return st.removed(id)
	})

	return nil
}

func (s *Store) CancelSlot(ctx context.Context, id int64, reason string) (*domain.AvailabilitySlot, error) {
	s.apply("cancel.started", Snapshot.savingStarted)

	raw, err := s.apiPort.CancelSlot(ctx, id, reason)
	if err != nil {
		s.apply("cancel.failed", func(st Snapshot) Snapshot {
			return st.savingFailed(err.Error())
		})
		s.logger.Error("store.cancel.failed", out.LogFields{
			"slotId": id,
			"error":  err.Error(),
		})
		return nil, err
	}

	slot := NormalizeSlot(*raw)
	if slot.ID == 0 {
		slot.ID = id
	}

	s.invalidateConflicts(ctx)
	s.apply("cancel.succeeded", func(st Snapshot) Snapshot {
		return st.replaceSlot(slot).savingFinished()
	})

	return &slot, nil
}

// CheckConflicts проверяет пересечения на сервере, результат кэшируется до следующего изменения
func (s *Store) CheckConflicts(ctx context.Context, req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error) {
	key := req.CacheKey()

	if s.conflictCacheEnabled() {
		if cached, exists := s.cachePort.GetConflicts(ctx, key); exists {
			s.logger.Debug("store.conflicts.cache.hit", out.LogFields{
				"key": key,
			})
			return cached, nil
		}
		s.logger.Debug("store.conflicts.cache.miss", out.LogFields{
			"key": key,
		})
	}

	s.conflictMu.Lock()
	gen := s.conflictGen
	s.conflictMu.Unlock()

	resp, err := s.apiPort.CheckConflicts(ctx, req)
	if err != nil {
		s.apply("conflicts.failed", func(st Snapshot) Snapshot {
			return st.errorSet(err.Error())
		})
		s.logger.Error("store.conflicts.failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		return nil, err
	}

	if s.conflictCacheEnabled() {
		s.storeConflicts(ctx, key, gen, *resp)
	}

	return resp, nil
}

func (s *Store) BookSlot(ctx context.Context, req domain.BookSlotRequest) (*domain.AvailabilityBooking, error) {
	if err := s.validator.ValidateBooking(req); err != nil {
		s.rejectInvalid("book", err)
		return nil, err
	}

	s.apply("book.started", Snapshot.savingStarted)

	raw, err := s.apiPort.BookSlot(ctx, req)
	if err != nil {
		s.apply("book.failed", func(st Snapshot) Snapshot {
			return st.savingFailed(err.Error())
		})
		s.logger.Error("store.book.failed", out.LogFields{
			"availabilityId": req.AvailabilityID,
			"error":          err.Error(),
		})
		return nil, err
	}

	s.invalidateConflicts(ctx)
	if err := s.reload(ctx); err != nil {
		s.logger.Warn("store.book.reload_failed", out.LogFields{
			"error": err.Error(),
		})
	}
	s.apply("book.succeeded", Snapshot.savingFinished)

	return NormalizeBooking(raw, req.AvailabilityID), nil
}

func (s *Store) CancelBooking(ctx context.Context, bookingID int64, reason string) (bool, error) {
	s.apply("booking.cancel.started", Snapshot.savingStarted)

	resp, err := s.apiPort.CancelBooking(ctx, bookingID, reason)
	if err != nil {
		s.apply("booking.cancel.failed", func(st Snapshot) Snapshot {
			return st.savingFailed(err.Error())
		})
		s.logger.Error("store.booking.cancel.failed", out.LogFields{
			"bookingId": bookingID,
			"error":     err.Error(),
		})
		return false, err
	}

	s.invalidateConflicts(ctx)
	if err := s.reload(ctx); err != nil {
		s.logger.Warn("store.booking.cancel.reload_failed", out.LogFields{
			"error": err.Error(),
		})
	}
	s.apply("booking.cancel.succeeded", Snapshot.savingFinished)

	return resp.Cancelled, nil
}

func (s *Store) rejectInvalid(operation string, err error) {
	errs, ok := domain.AsValidationErrors(err)
	if !ok {
		return
	}
	s.apply(operation+".rejected", func(st Snapshot) Snapshot {
		return st.validationFailed(errs)
	})
	s.logger.Warn("store."+operation+".validation_failed", out.LogFields{
		"fields": errs,
	})
}

func (s *Store) conflictCacheEnabled() bool {
	return s.cachePort != nil && s.cfg.Cache.Enabled
}

// storeConflicts кладёт ответ в кэш, только если с начала проверки не было инвалидации
func (s *Store) storeConflicts(ctx context.Context, key string, gen uint64, resp domain.ConflictCheckResponse) {
	s.conflictMu.Lock()
	defer s.conflictMu.Unlock()

	if gen != s.conflictGen {
		s.logger.Debug("store.conflicts.cache.stale_skipped", out.LogFields{
			"key":        key,
			"generation": gen,
			"current":    s.conflictGen,
		})
		return
	}
	s.cachePort.StoreConflicts(ctx, key, resp)
}

func (s *Store) invalidateConflicts(ctx context.Context) {
	s.conflictMu.Lock()
	defer s.conflictMu.Unlock()

	s.conflictGen++
	if s.conflictCacheEnabled() {
		s.cachePort.InvalidateAll(ctx)
	}
}
