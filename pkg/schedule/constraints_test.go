package schedule

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func validConstraints() Constraints {
	c := Constraints{
		DurationMinutes: 60,
		EarliestDate:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		LatestDate:      time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
	}
	c.ApplyDefaults()
	return c
}

func TestUnmarshalDefaults(t *testing.T) {
	var c Constraints
	input := `{"duration_minutes":45,"earliest_date":"2026-09-07","latest_date":"2026-09-11"}`
	if err := json.Unmarshal([]byte(input), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.WorkingHoursStart != 9 || c.WorkingHoursEnd != 17 {
		t.Errorf("working hours = %d-%d, want 9-17", c.WorkingHoursStart, c.WorkingHoursEnd)
	}
	if c.BufferMinutes != 15 {
		t.Errorf("BufferMinutes = %d, want 15", c.BufferMinutes)
	}
	if c.MaxCandidates != 10 {
		t.Errorf("MaxCandidates = %d, want 10", c.MaxCandidates)
	}
	if c.Category != CategoryOther {
		t.Errorf("Category = %q, want %q", c.Category, CategoryOther)
	}
	if c.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", c.Timezone)
	}
	if len(c.AllowedDays) != 5 {
		t.Errorf("AllowedDays = %v, want Mon-Fri", c.AllowedDays)
	}
}

func TestUnmarshalExplicitZeroBuffer(t *testing.T) {
	var c Constraints
	input := `{"duration_minutes":60,"earliest_date":"2026-09-07","latest_date":"2026-09-11","buffer_minutes":0}`
	if err := json.Unmarshal([]byte(input), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.BufferMinutes != 0 {
		t.Errorf("BufferMinutes = %d, want explicit 0 preserved", c.BufferMinutes)
	}
}

// Constraints built in code, not decoded from JSON, must still pick up the
// working-hour and buffer defaults so the generator sees a usable window.
func TestApplyDefaultsOnCodeConstructedConstraints(t *testing.T) {
	c := Constraints{
		DurationMinutes: 30,
		EarliestDate:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		LatestDate:      time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
	}
	c.ApplyDefaults()
	if c.WorkingHoursStart != DefaultWorkingHoursStart || c.WorkingHoursEnd != DefaultWorkingHoursEnd {
		t.Errorf("working hours = %d-%d, want %d-%d",
			c.WorkingHoursStart, c.WorkingHoursEnd, DefaultWorkingHoursStart, DefaultWorkingHoursEnd)
	}
	if c.BufferMinutes != DefaultBufferMinutes {
		t.Errorf("BufferMinutes = %d, want %d", c.BufferMinutes, DefaultBufferMinutes)
	}

	// Non-zero values set in code are never overwritten.
	c2 := Constraints{WorkingHoursStart: 8, WorkingHoursEnd: 12, BufferMinutes: 5}
	c2.ApplyDefaults()
	if c2.WorkingHoursStart != 8 || c2.WorkingHoursEnd != 12 || c2.BufferMinutes != 5 {
		t.Errorf("explicit values overwritten: %+v", c2)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Constraints)
		wantErr string
	}{
		{"valid", func(*Constraints) {}, ""},
		{"zero duration", func(c *Constraints) { c.DurationMinutes = 0 }, "duration_minutes"},
		{"negative buffer", func(c *Constraints) { c.BufferMinutes = -1 }, "buffer_minutes"},
		{"hours out of range", func(c *Constraints) { c.WorkingHoursStart = 24 }, "working_hours_start"},
		{"start after end", func(c *Constraints) { c.WorkingHoursStart = 18; c.WorkingHoursEnd = 9 }, "working_hours_start"},
		{"dates inverted", func(c *Constraints) { c.EarliestDate, c.LatestDate = c.LatestDate, c.EarliestDate }, "earliest_date"},
		{"unknown weekday", func(c *Constraints) { c.AllowedDays = []Weekday{"funday"} }, "allowed_days"},
		{"too many candidates", func(c *Constraints) { c.MaxCandidates = 51 }, "max_candidates"},
		{"unknown category", func(c *Constraints) { c.Category = "party" }, "event_category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConstraints()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsAllViolations(t *testing.T) {
	c := validConstraints()
	c.DurationMinutes = 0
	c.BufferMinutes = -5
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Validate() error does not unwrap to *ValidationError: %v", err)
	}
	for _, field := range []string{"duration_minutes", "buffer_minutes"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error %v missing %q", err, field)
		}
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	c := validConstraints()
	origDays := len(c.AllowedDays)
	relaxed := c.With(func(rc *Constraints) {
		rc.BufferMinutes = 0
		rc.AllowedDays = append(rc.AllowedDays, Saturday)
	})
	if c.BufferMinutes != 15 {
		t.Errorf("receiver BufferMinutes mutated to %d", c.BufferMinutes)
	}
	if len(c.AllowedDays) != origDays {
		t.Errorf("receiver AllowedDays mutated to %v", c.AllowedDays)
	}
	if relaxed.BufferMinutes != 0 || len(relaxed.AllowedDays) != origDays+1 {
		t.Errorf("override not applied: %+v", relaxed)
	}
}

func TestIsHoliday(t *testing.T) {
	c := validConstraints()
	c.Holidays = []time.Time{time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)}
	if !c.IsHoliday(time.Date(2026, 9, 9, 14, 30, 0, 0, time.UTC)) {
		t.Error("IsHoliday() should match any instant on the holiday date")
	}
	if c.IsHoliday(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("IsHoliday() matched a non-holiday")
	}
}
