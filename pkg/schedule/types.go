// Package schedule defines the data model shared by the scheduling engines:
// time intervals, participants, preference patterns, constraints, and scored
// candidates. All values are treated as immutable once constructed.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayouts are the accepted wire formats for timestamps. Timestamps
// without an explicit offset are normalized to UTC on ingestion.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// TimeInterval is a half-open time range [Start, End) with a timezone label.
// Invariant: Start < End. Both instants are stored in UTC.
type TimeInterval struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Timezone string    `json:"timezone,omitempty"`
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as naive ones, which are
// taken as UTC.
func (ti *TimeInterval) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start    string `json:"start"`
		End      string `json:"end"`
		Timezone string `json:"timezone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := parseTime(raw.Start)
	if err != nil {
		return fmt.Errorf("interval start: %w", err)
	}
	end, err := parseTime(raw.End)
	if err != nil {
		return fmt.Errorf("interval end: %w", err)
	}
	ti.Start = start
	ti.End = end
	ti.Timezone = raw.Timezone
	if ti.Timezone == "" {
		ti.Timezone = "UTC"
	}
	return nil
}

// Duration returns the interval length.
func (ti TimeInterval) Duration() time.Duration {
	return ti.End.Sub(ti.Start)
}

// Normalize converts both instants to UTC and defaults the timezone label.
func (ti *TimeInterval) Normalize() {
	ti.Start = ti.Start.UTC()
	ti.End = ti.End.UTC()
	if ti.Timezone == "" {
		ti.Timezone = "UTC"
	}
}

// PreferencePattern captures a participant's learned scheduling habits,
// distilled from calendar history by the external summarizer. A nil pattern
// means no signal: scoring falls back to neutral defaults.
type PreferencePattern struct {
	PreferredDays             []Weekday `json:"preferred_days"`
	PreferredHoursStart       int       `json:"preferred_hours_start"`
	PreferredHoursEnd         int       `json:"preferred_hours_end"`
	AvgMeetingDurationMinutes int       `json:"avg_meeting_duration_minutes"`
	BufferMinutes             int       `json:"buffer_minutes"`
	AvoidsBackToBack          bool      `json:"avoids_back_to_back"`
	MorningPersonScore        float64   `json:"morning_person_score"` // 0=evening-biased, 1=morning-biased
}

// Participant is one attendee of the meeting being scheduled. Constructed
// fresh per request and immutable for the request's duration. Overlaps among
// a participant's own busy intervals are tolerated, not merged.
type Participant struct {
	UserID        string             `json:"user_id"`
	Email         string             `json:"email,omitempty"`
	Name          string             `json:"name,omitempty"`
	IsRequired    bool               `json:"is_required"`
	BusyIntervals []TimeInterval     `json:"busy_intervals"`
	Preferences   *PreferencePattern `json:"preference_pattern,omitempty"`
}

// UnmarshalJSON decodes a participant, defaulting is_required to true when
// the field is absent.
func (p *Participant) UnmarshalJSON(data []byte) error {
	type alias Participant
	raw := struct {
		IsRequired *bool `json:"is_required"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.IsRequired = raw.IsRequired == nil || *raw.IsRequired
	return nil
}

// Normalize converts all busy intervals to UTC.
func (p *Participant) Normalize() {
	for i := range p.BusyIntervals {
		p.BusyIntervals[i].Normalize()
	}
}

// Required returns the required subset of participants, preserving order.
func Required(participants []Participant) []Participant {
	var out []Participant
	for _, p := range participants {
		if p.IsRequired {
			out = append(out, p)
		}
	}
	return out
}

// Optional returns the optional subset of participants, preserving order.
func Optional(participants []Participant) []Participant {
	var out []Participant
	for _, p := range participants {
		if !p.IsRequired {
			out = append(out, p)
		}
	}
	return out
}
