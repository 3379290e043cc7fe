package availability_service

import (
	"strings"
	"testing"

	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
)

func newTestValidator() *SlotValidator {
	return NewSlotValidator(DurationLimitsFromConfig(testConfig()))
}

func validCreate() domain.CreateAvailabilityRequest {
	return domain.CreateAvailabilityRequest{
		AvailabilityDate: date("2025-01-10"),
		StartTime:        hm("09:00"),
		EndTime:          hm("10:00"),
		Timezone:         "UTC",
		DateType:         domain.DateTypeOnline,
	}
}

func fieldErrors(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	errs, ok := domain.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	return errs
}

func TestValidateCreate_Valid(t *testing.T) {
	if err := newTestValidator().ValidateCreate(validCreate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreate_TimeOrderAndDuration(t *testing.T) {
	v := newTestValidator()

	req := validCreate()
	req.EndTime = hm("08:00")
	if _, ok := fieldErrors(t, v.ValidateCreate(req))["endTime"]; !ok {
		t.Fatalf("expected endTime error")
	}

	req = validCreate()
	req.EndTime = hm("09:15")
	if _, ok := fieldErrors(t, v.ValidateCreate(req))["duration"]; !ok {
		t.Fatalf("expected duration error for 15 minutes")
	}

	req = validCreate()
	req.EndTime = hm("13:01")
	if _, ok := fieldErrors(t, v.ValidateCreate(req))["duration"]; !ok {
		t.Fatalf("expected duration error above 4h")
	}

	req = validCreate()
	req.EndTime = hm("13:00")
	if err := v.ValidateCreate(req); err != nil {
		t.Fatalf("exactly 4h must pass: %v", err)
	}
}

func TestValidateCreate_RequiredAndLimits(t *testing.T) {
	v := newTestValidator()

	req := validCreate()
	req.AvailabilityDate = json_types.Date{}
	req.StartTime.Valid = false
	req.Notes = strings.Repeat("x", 501)
	req.DateType = "hybrid"
	buffer := 121
	req.BufferTimeMinutes = &buffer

	errs := fieldErrors(t, v.ValidateCreate(req))
	for _, field := range []string{"availabilityDate", "startTime", "notes", "dateType", "bufferTimeMinutes"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestValidateCreate_OfflineRequiresLocation(t *testing.T) {
	req := validCreate()
	req.DateType = domain.DateTypeOffline
	errs := fieldErrors(t, newTestValidator().ValidateCreate(req))
	if errs["locationPreference"] == "" {
		t.Fatalf("expected locationPreference error, got %v", errs)
	}
}

func TestValidateCreateBatch_PrefixesFields(t *testing.T) {
	bad := validCreate()
	bad.DateType = domain.DateTypeOffline

	errs := fieldErrors(t, newTestValidator().ValidateCreateBatch([]domain.CreateAvailabilityRequest{validCreate(), bad}))
	if _, ok := errs["slots[1].locationPreference"]; !ok || len(errs) != 1 {
		t.Fatalf("unexpected errors %v", errs)
	}

	errs = fieldErrors(t, newTestValidator().ValidateCreateBatch(nil))
	if _, ok := errs["slots"]; !ok {
		t.Fatalf("empty batch must be rejected")
	}
}

func TestValidateUpdate_OfflineWithoutLocation(t *testing.T) {
	existing := NormalizeSlot(rawSlot(7, "2025-01-10", "09:00", "10:00"))
	offline := domain.DateTypeOffline

	errs := fieldErrors(t, newTestValidator().ValidateUpdate(&existing, domain.UpdateAvailabilityRequest{
		DateType: &offline,
	}))
	if errs["locationPreference"] == "" {
		t.Fatalf("expected locationPreference error, got %v", errs)
	}
}

func TestValidateUpdate_UsesExistingLocation(t *testing.T) {
	raw := rawSlot(7, "2025-01-10", "09:00", "10:00")
	raw.LocationPreference = "Central park"
	existing := NormalizeSlot(raw)
	offline := domain.DateTypeOffline

	if err := newTestValidator().ValidateUpdate(&existing, domain.UpdateAvailabilityRequest{DateType: &offline}); err != nil {
		t.Fatalf("existing location must satisfy offline: %v", err)
	}
}

func TestValidateUpdate_TimeAgainstExisting(t *testing.T) {
	existing := NormalizeSlot(rawSlot(7, "2025-01-10", "09:00", "10:00"))
	end := hm("08:30")

	errs := fieldErrors(t, newTestValidator().ValidateUpdate(&existing, domain.UpdateAvailabilityRequest{EndTime: &end}))
	if errs["endTime"] == "" {
		t.Fatalf("expected endTime error, got %v", errs)
	}
}

func TestValidateBooking(t *testing.T) {
	v := newTestValidator()
	if err := v.ValidateBooking(domain.BookSlotRequest{AvailabilityID: 1, SelectedActivity: domain.SelectedActivityCoffee}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errs := fieldErrors(t, v.ValidateBooking(domain.BookSlotRequest{SelectedActivity: "skydiving"}))
	if _, ok := errs["availabilityId"]; !ok {
		t.Fatalf("expected availabilityId error, got %v", errs)
	}
	if _, ok := errs["selectedActivity"]; !ok {
		t.Fatalf("expected selectedActivity error, got %v", errs)
	}
}
