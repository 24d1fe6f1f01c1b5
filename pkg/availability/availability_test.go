package availability

import (
	"testing"
	"time"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 7, hour, minute, 0, 0, time.UTC)
}

func slot(startHour, startMinute, durationMinutes int) schedule.TimeInterval {
	start := at(startHour, startMinute)
	return schedule.TimeInterval{
		Start:    start,
		End:      start.Add(time.Duration(durationMinutes) * time.Minute),
		Timezone: "UTC",
	}
}

func busy(p *schedule.Participant, startHour, endHour int) {
	p.BusyIntervals = append(p.BusyIntervals, schedule.TimeInterval{
		Start: at(startHour, 0),
		End:   at(endHour, 0),
	})
}

func TestScoreNoBusyIntervals(t *testing.T) {
	p := schedule.Participant{UserID: "u1", IsRequired: true}
	if got := Score(&p, slot(9, 0, 60), 15); got != 100 {
		t.Errorf("Score() = %v, want 100 for an empty calendar", got)
	}
}

func TestScoreHardConflict(t *testing.T) {
	p := schedule.Participant{UserID: "u1", IsRequired: true}
	busy(&p, 10, 11)

	tests := []struct {
		name   string
		slot   schedule.TimeInterval
		buffer int
		want   float64
	}{
		{"direct overlap", slot(10, 0, 60), 0, 0},
		{"partial overlap", slot(10, 30, 60), 0, 0},
		{"touching edge is not overlap", slot(9, 0, 60), 0, 100},
		{"after touching edge", slot(11, 0, 60), 0, 100},
		{"inside buffer zone", slot(11, 0, 60), 15, 0},
		{"clear of buffer zone", slot(11, 30, 60), 15, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(&p, tt.slot, tt.buffer); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	p := schedule.Participant{UserID: "u1", IsRequired: true}
	busy(&p, 8, 9)
	busy(&p, 12, 13)
	for _, s := range []schedule.TimeInterval{slot(9, 0, 60), slot(10, 0, 60), slot(13, 0, 60)} {
		got := Score(&p, s, 30)
		if got < 0 || got > 100 {
			t.Errorf("Score(%v) = %v out of [0,100]", s.Start, got)
		}
	}
}

// The scenario from the engine contract: duration 60, one busy block
// 10:00-11:00 UTC, buffer 0. The 10:00 slot must be rejected while the
// bracketing 09:00 and 11:00 slots pass.
func TestFilterScenario(t *testing.T) {
	p := schedule.Participant{UserID: "u1", IsRequired: true}
	busy(&p, 10, 11)
	participants := []schedule.Participant{p}

	slots := []schedule.TimeInterval{slot(9, 0, 60), slot(10, 0, 60), slot(11, 0, 60)}
	open := Filter(participants, slots, 0, nil)

	if len(open) != 2 {
		t.Fatalf("Filter() kept %d slots, want 2", len(open))
	}
	if !open[0].Start.Equal(at(9, 0)) || !open[1].Start.Equal(at(11, 0)) {
		t.Errorf("Filter() kept %v and %v, want 09:00 and 11:00", open[0].Start, open[1].Start)
	}
}

func TestIsAvailableForAllIgnoresOptional(t *testing.T) {
	required := schedule.Participant{UserID: "req", IsRequired: true}
	optional := schedule.Participant{UserID: "opt", IsRequired: false}
	busy(&optional, 10, 11)
	participants := []schedule.Participant{required, optional}

	if !IsAvailableForAll(participants, slot(10, 0, 60), 0) {
		t.Error("IsAvailableForAll() blocked a slot on an optional participant's conflict")
	}

	busy(&required, 10, 11)
	participants[0] = required
	if IsAvailableForAll(participants, slot(10, 0, 60), 0) {
		t.Error("IsAvailableForAll() passed a slot with a required conflict")
	}
}
