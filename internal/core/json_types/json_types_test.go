package json_types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_UnmarshalLenient(t *testing.T) {
	var payload struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
		D Date `json:"d"`
	}

	raw := `{"a":"2025-01-10","b":"2025-01-10T00:00:00.000Z","c":"not-a-date","d":null}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if payload.A.String() != "2025-01-10" {
		t.Fatalf("a = %q", payload.A.String())
	}
	if payload.B.String() != "2025-01-10" {
		t.Fatalf("b = %q", payload.B.String())
	}
	if !payload.C.IsZero() || !payload.D.IsZero() {
		t.Fatalf("expected malformed and null dates to be zero, got %v / %v", payload.C, payload.D)
	}
}

func TestDate_At(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	d := NewDate(2025, time.January, 10)

	got := d.At(NewTime(9, 30), loc)
	want := time.Date(2025, time.January, 10, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("At = %v, want %v", got, want)
	}
	if d.AddDays(1).String() != "2025-01-11" {
		t.Fatalf("AddDays = %s", d.AddDays(1))
	}
}

func TestTime_ParseAndMarshal(t *testing.T) {
	tm, err := ParseTime("09:05:00")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if tm.String() != "09:05" {
		t.Fatalf("String = %q", tm.String())
	}

	out, err := json.Marshal(struct {
		T Time `json:"t"`
		Z Time `json:"z"`
	}{T: tm})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"t":"09:05","z":null}` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestTime_Arithmetic(t *testing.T) {
	start := MustParseTime("09:00")
	end := start.Add(90 * time.Minute)

	if end.String() != "10:30" {
		t.Fatalf("Add = %s", end)
	}
	if end.Sub(start) != 90*time.Minute {
		t.Fatalf("Sub = %v", end.Sub(start))
	}
	if !start.Before(end) || end.Before(start) {
		t.Fatalf("unexpected ordering")
	}

	var bad Time
	if err := json.Unmarshal([]byte(`"25:99"`), &bad); err != nil {
		t.Fatalf("unmarshal must not fail: %v", err)
	}
	if !bad.IsZero() {
		t.Fatalf("expected invalid time to be zero, got %+v", bad)
	}
}
