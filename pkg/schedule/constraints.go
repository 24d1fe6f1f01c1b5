package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Default constraint values applied when the wire request omits a field.
const (
	DefaultWorkingHoursStart = 9
	DefaultWorkingHoursEnd   = 17
	DefaultBufferMinutes     = 15
	DefaultMaxCandidates     = 10
	MaxCandidatesLimit       = 50
)

// Constraints bound the search space for one scheduling request. Zero-value
// fields are filled in by ApplyDefaults before use.
type Constraints struct {
	DurationMinutes   int           `json:"duration_minutes"`
	EarliestDate      time.Time     `json:"earliest_date"`
	LatestDate        time.Time     `json:"latest_date"`
	WorkingHoursStart int           `json:"working_hours_start"`
	WorkingHoursEnd   int           `json:"working_hours_end"`
	AllowedDays       []Weekday     `json:"allowed_days"`
	BufferMinutes     int           `json:"buffer_minutes"`
	MaxCandidates     int           `json:"max_candidates"`
	Category          EventCategory `json:"event_category"`
	Timezone          string        `json:"timezone"`
	Holidays          []time.Time   `json:"holidays,omitempty"`

	// Set when the wire request carried the field explicitly, so an
	// intentional zero survives ApplyDefaults.
	explicitHours  bool
	explicitBuffer bool
}

// UnmarshalJSON decodes constraints, distinguishing absent fields from
// explicit zeroes so that defaults only fill true omissions.
func (c *Constraints) UnmarshalJSON(data []byte) error {
	var raw struct {
		DurationMinutes   int           `json:"duration_minutes"`
		EarliestDate      string        `json:"earliest_date"`
		LatestDate        string        `json:"latest_date"`
		WorkingHoursStart *int          `json:"working_hours_start"`
		WorkingHoursEnd   *int          `json:"working_hours_end"`
		AllowedDays       []Weekday     `json:"allowed_days"`
		BufferMinutes     *int          `json:"buffer_minutes"`
		MaxCandidates     *int          `json:"max_candidates"`
		Category          EventCategory `json:"event_category"`
		Timezone          string        `json:"timezone"`
		Holidays          []string      `json:"holidays"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.DurationMinutes = raw.DurationMinutes
	if raw.EarliestDate != "" {
		t, err := parseTime(raw.EarliestDate)
		if err != nil {
			return fmt.Errorf("earliest_date: %w", err)
		}
		c.EarliestDate = t
	}
	if raw.LatestDate != "" {
		t, err := parseTime(raw.LatestDate)
		if err != nil {
			return fmt.Errorf("latest_date: %w", err)
		}
		c.LatestDate = t
	}
	c.WorkingHoursStart = DefaultWorkingHoursStart
	c.WorkingHoursEnd = DefaultWorkingHoursEnd
	if raw.WorkingHoursStart != nil {
		c.WorkingHoursStart = *raw.WorkingHoursStart
		c.explicitHours = true
	}
	if raw.WorkingHoursEnd != nil {
		c.WorkingHoursEnd = *raw.WorkingHoursEnd
		c.explicitHours = true
	}
	c.AllowedDays = raw.AllowedDays
	c.BufferMinutes = DefaultBufferMinutes
	if raw.BufferMinutes != nil {
		c.BufferMinutes = *raw.BufferMinutes
		c.explicitBuffer = true
	}
	c.MaxCandidates = DefaultMaxCandidates
	if raw.MaxCandidates != nil {
		c.MaxCandidates = *raw.MaxCandidates
	}
	c.Category = raw.Category
	c.Timezone = raw.Timezone
	c.Holidays = nil
	for _, h := range raw.Holidays {
		t, err := parseTime(h)
		if err != nil {
			return fmt.Errorf("holidays: %w", err)
		}
		c.Holidays = append(c.Holidays, t)
	}
	c.ApplyDefaults()
	return nil
}

// ApplyDefaults fills unset fields with engine defaults. Zero working hours
// and a zero buffer count as unset on code-constructed constraints; requests
// decoded from JSON keep explicit zeroes. Safe to call on already-defaulted
// constraints.
func (c *Constraints) ApplyDefaults() {
	if c.WorkingHoursStart == 0 && c.WorkingHoursEnd == 0 && !c.explicitHours {
		c.WorkingHoursStart = DefaultWorkingHoursStart
		c.WorkingHoursEnd = DefaultWorkingHoursEnd
	}
	if c.BufferMinutes == 0 && !c.explicitBuffer {
		c.BufferMinutes = DefaultBufferMinutes
	}
	if len(c.AllowedDays) == 0 {
		c.AllowedDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
	}
	if c.Category == "" {
		c.Category = CategoryOther
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.MaxCandidates == 0 {
		c.MaxCandidates = DefaultMaxCandidates
	}
	c.EarliestDate = c.EarliestDate.UTC()
	c.LatestDate = c.LatestDate.UTC()
	for i := range c.Holidays {
		c.Holidays[i] = c.Holidays[i].UTC()
	}
}

// Validate checks every field and returns all violations joined together,
// not just the first.
func (c *Constraints) Validate() error {
	var errs []error
	if c.DurationMinutes <= 0 {
		errs = append(errs, &ValidationError{Field: "duration_minutes", Reason: "must be positive"})
	}
	if c.WorkingHoursStart < 0 || c.WorkingHoursStart > 23 {
		errs = append(errs, &ValidationError{Field: "working_hours_start", Reason: "must be between 0 and 23"})
	}
	if c.WorkingHoursEnd < 0 || c.WorkingHoursEnd > 23 {
		errs = append(errs, &ValidationError{Field: "working_hours_end", Reason: "must be between 0 and 23"})
	}
	if c.WorkingHoursStart > c.WorkingHoursEnd {
		errs = append(errs, &ValidationError{Field: "working_hours_start", Reason: "must not exceed working_hours_end"})
	}
	if c.EarliestDate.IsZero() {
		errs = append(errs, &ValidationError{Field: "earliest_date", Reason: "is required"})
	}
	if c.LatestDate.IsZero() {
		errs = append(errs, &ValidationError{Field: "latest_date", Reason: "is required"})
	}
	if !c.EarliestDate.IsZero() && !c.LatestDate.IsZero() && c.EarliestDate.After(c.LatestDate) {
		errs = append(errs, &ValidationError{Field: "earliest_date", Reason: "must not be after latest_date"})
	}
	if len(c.AllowedDays) == 0 {
		errs = append(errs, &ValidationError{Field: "allowed_days", Reason: "must not be empty"})
	}
	for _, d := range c.AllowedDays {
		if !d.Valid() {
			errs = append(errs, &ValidationError{Field: "allowed_days", Reason: fmt.Sprintf("unknown weekday %q", d)})
		}
	}
	if c.BufferMinutes < 0 {
		errs = append(errs, &ValidationError{Field: "buffer_minutes", Reason: "must not be negative"})
	}
	if c.MaxCandidates < 1 || c.MaxCandidates > MaxCandidatesLimit {
		errs = append(errs, &ValidationError{Field: "max_candidates", Reason: fmt.Sprintf("must be between 1 and %d", MaxCandidatesLimit)})
	}
	if !c.Category.Valid() {
		errs = append(errs, &ValidationError{Field: "event_category", Reason: fmt.Sprintf("unknown category %q", c.Category)})
	}
	return errors.Join(errs...)
}

// With returns a deep copy of the constraints with the override applied.
// The receiver is never mutated; slices are cloned before the override runs.
func (c Constraints) With(override func(*Constraints)) Constraints {
	out := c
	out.AllowedDays = append([]Weekday(nil), c.AllowedDays...)
	out.Holidays = append([]time.Time(nil), c.Holidays...)
	if override != nil {
		override(&out)
	}
	return out
}

// DayAllowed reports whether the instant's weekday is permitted.
func (c *Constraints) DayAllowed(t time.Time) bool {
	wd := WeekdayOf(t)
	for _, d := range c.AllowedDays {
		if d == wd {
			return true
		}
	}
	return false
}

// IsHoliday reports whether the instant falls on a configured holiday date
// (compared by UTC calendar date).
func (c *Constraints) IsHoliday(t time.Time) bool {
	y, m, d := t.UTC().Date()
	for _, h := range c.Holidays {
		hy, hm, hd := h.UTC().Date()
		if y == hy && m == hm && d == hd {
			return true
		}
	}
	return false
}

// Duration returns the requested meeting length.
func (c *Constraints) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}
