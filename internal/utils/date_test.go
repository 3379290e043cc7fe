package utils

import (
	"testing"
	"time"
)

func TestStartCurrentDay_KeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	in := time.Date(2025, 1, 31, 23, 30, 0, 0, loc)
	got := StartCurrentDay(in)
	want := time.Date(2025, 1, 31, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("StartCurrentDay() = %v, want %v", got, want)
	}
}

func TestMonthKey_RoundTrip(t *testing.T) {
	key := MonthKey(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	if key != "2025-03" {
		t.Fatalf("MonthKey() = %q", key)
	}
	if _, err := ParseMonthKey(key); err != nil {
		t.Fatalf("ParseMonthKey(%q) failed: %v", key, err)
	}
	if _, err := ParseMonthKey("2025-13"); err == nil {
		t.Fatalf("expected error for invalid month")
	}
}

func TestLoadLocationOr(t *testing.T) {
	if got := LoadLocationOr("", time.UTC); got != time.UTC {
		t.Fatalf("empty name should fall back")
	}
	if got := LoadLocationOr("Mars/Olympus", time.UTC); got != time.UTC {
		t.Fatalf("unknown name should fall back")
	}
}
