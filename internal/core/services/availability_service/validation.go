package availability_service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

const (
	FieldStartTime          = "startTime"
	FieldEndTime            = "endTime"
	FieldDuration           = "duration"
	FieldLocationPreference = "locationPreference"
	FieldSlots              = "slots"
)

type DurationLimits struct {
	Min time.Duration
	Max time.Duration
}

func DurationLimitsFromConfig(cfg *config.Config) DurationLimits {
	return DurationLimits{
		Min: time.Duration(cfg.Engine.MinDurationMinutes) * time.Minute,
		Max: time.Duration(cfg.Engine.MaxDurationMinutes) * time.Minute,
	}
}

// SlotValidator - клиентская валидация до любого сетевого вызова.
// Ошибки возвращаются как domain.ValidationErrors с json-именами полей.
type SlotValidator struct {
	validate *validator.Validate
	limits   DurationLimits
}

func NewSlotValidator(limits DurationLimits) *SlotValidator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Нулевые дата и время должны проваливать required
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch v := field.Interface().(type) {
		case json_types.Date:
			if v.IsZero() {
				return nil
			}
			return v.String()
		case json_types.Time:
			if v.IsZero() {
				return nil
			}
			return v.String()
		}
		return nil
	}, json_types.Date{}, json_types.Time{})

	return &SlotValidator{validate: validate, limits: limits}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "timezone":
		return fmt.Sprintf("%s must be a valid IANA timezone", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func (v *SlotValidator) structErrors(s interface{}, prefix string, errs domain.ValidationErrors) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		errs.Add(prefix+"general", err.Error())
		return
	}
	for _, fe := range fieldErrors {
		errs.Add(prefix+fe.Field(), fieldMessage(fe))
	}
}

// checkTimes проверяет порядок времени и границы длительности
func (v *SlotValidator) checkTimes(start, end json_types.Time, prefix string, errs domain.ValidationErrors) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if !start.Before(end) {
		errs.Add(prefix+FieldEndTime, "End time must be after start time")
		return
	}

	duration := end.Sub(start)
	if duration < v.limits.Min || duration > v.limits.Max {
		errs.Add(prefix+FieldDuration, fmt.Sprintf(
			"Slot duration must be between %d and %d minutes",
			int(v.limits.Min.Minutes()), int(v.limits.Max.Minutes()),
		))
	}
}

func checkLocation(dateType domain.DateType, location string, prefix string, errs domain.ValidationErrors) {
	if dateType == domain.DateTypeOffline && strings.TrimSpace(location) == "" {
		errs.Add(prefix+FieldLocationPreference, "Location preference is required for offline dates")
	}
}

func (v *SlotValidator) createErrors(req domain.CreateAvailabilityRequest, prefix string, errs domain.ValidationErrors) {
	v.structErrors(req, prefix, errs)
	v.checkTimes(req.StartTime, req.EndTime, prefix, errs)
	checkLocation(req.DateType, req.LocationPreference, prefix, errs)
}

func (v *SlotValidator) ValidateCreate(req domain.CreateAvailabilityRequest) error {
	errs := domain.ValidationErrors{}
	v.createErrors(req, "", errs)
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateCreateBatch проверяет каждый запрос, ключи ошибок вида slots[1].endTime
func (v *SlotValidator) ValidateCreateBatch(reqs []domain.CreateAvailabilityRequest) error {
	errs := domain.ValidationErrors{}
	if len(reqs) == 0 {
		errs.Add(FieldSlots, "Please select at least one time slot")
		return errs
	}
	for i, req := range reqs {
		v.createErrors(req, fmt.Sprintf("%s[%d].", FieldSlots, i), errs)
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateUpdate проверяет слот в том виде, каким он станет после применения patch.
// existing может быть nil, если слот не загружен: тогда проверяется только сам patch.
func (v *SlotValidator) ValidateUpdate(existing *domain.AvailabilitySlot, patch domain.UpdateAvailabilityRequest) error {
	errs := domain.ValidationErrors{}
	v.structErrors(patch, "", errs)

	var effective domain.AvailabilitySlot
	if existing != nil {
		effective = *existing
	}
	if patch.StartTime != nil {
		if patch.StartTime.IsZero() {
			errs.Add(FieldStartTime, "startTime is invalid")
		}
		effective.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		if patch.EndTime.IsZero() {
			errs.Add(FieldEndTime, "endTime is invalid")
		}
		effective.EndTime = *patch.EndTime
	}
	if patch.DateType != nil {
		effective.DateType = *patch.DateType
	}
	if patch.LocationPreference != nil {
		effective.LocationPreference = *patch.LocationPreference
	}

	// Время и место проверяются, только если patch их меняет
	if patch.StartTime != nil || patch.EndTime != nil {
		v.checkTimes(effective.StartTime, effective.EndTime, "", errs)
	}
	if patch.DateType != nil || patch.LocationPreference != nil {
		checkLocation(effective.DateType, effective.LocationPreference, "", errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (v *SlotValidator) ValidateBooking(req domain.BookSlotRequest) error {
	errs := domain.ValidationErrors{}
	v.structErrors(req, "", errs)
	if errs.HasErrors() {
		return errs
	}
	return nil
}
