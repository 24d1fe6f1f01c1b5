// Package availability scores how free a participant is for a proposed slot.
// Scores are on a 0 to 100 scale; a hard conflict within the buffered slot is
// exactly 0, a completely clear slot is 100.
package availability

import (
	"log/slog"
	"time"

	"github.com/slotsmith/slotsmith/pkg/interval"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

const (
	// sidePenalty is deducted per side when a busy interval sits inside the
	// buffer zone without touching the buffered slot itself.
	sidePenalty = 20.0
)

// Score rates one participant's availability for a slot. Each busy interval
// is expanded by the buffer on both sides; a slot overlapping any expanded
// interval is a hard conflict and scores exactly 0. Otherwise the minimum
// clearance before and after the slot each erodes the score linearly when it
// falls short of the buffer.
func Score(p *schedule.Participant, slot schedule.TimeInterval, bufferMinutes int) float64 {
	buffer := time.Duration(bufferMinutes) * time.Minute

	minBefore := -1.0
	minAfter := -1.0
	for _, busy := range p.BusyIntervals {
		bufStart, bufEnd := interval.Expand(busy.Start, busy.End, buffer)
		if interval.Overlaps(slot.Start, slot.End, bufStart, bufEnd) {
			return 0
		}
		if !busy.End.After(slot.Start) {
			gap := interval.GapMinutes(busy.End, slot.Start)
			if minBefore < 0 || gap < minBefore {
				minBefore = gap
			}
		}
		if !busy.Start.Before(slot.End) {
			gap := interval.GapMinutes(slot.End, busy.Start)
			if minAfter < 0 || gap < minAfter {
				minAfter = gap
			}
		}
	}

	score := 100.0
	if bufferMinutes > 0 {
		if minBefore >= 0 && minBefore < float64(bufferMinutes) {
			score -= (1 - minBefore/float64(bufferMinutes)) * sidePenalty
		}
		if minAfter >= 0 && minAfter < float64(bufferMinutes) {
			score -= (1 - minAfter/float64(bufferMinutes)) * sidePenalty
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// IsAvailableForAll reports whether every required participant is free for
// the buffered slot. Optional participants never block a slot.
func IsAvailableForAll(participants []schedule.Participant, slot schedule.TimeInterval, bufferMinutes int) bool {
	buffer := time.Duration(bufferMinutes) * time.Minute
	for i := range participants {
		p := &participants[i]
		if !p.IsRequired {
			continue
		}
		for _, busy := range p.BusyIntervals {
			bufStart, bufEnd := interval.Expand(busy.Start, busy.End, buffer)
			if interval.Overlaps(slot.Start, slot.End, bufStart, bufEnd) {
				return false
			}
		}
	}
	return true
}

// Filter keeps only the slots where every required participant is free.
// Order is preserved.
func Filter(participants []schedule.Participant, slots []schedule.TimeInterval, bufferMinutes int, logger *slog.Logger) []schedule.TimeInterval {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var out []schedule.TimeInterval
	for _, slot := range slots {
		if IsAvailableForAll(participants, slot, bufferMinutes) {
			out = append(out, slot)
		}
	}
	logger.Debug("filtered slots by required availability",
		"in", len(slots), "out", len(out), "buffer_minutes", bufferMinutes)
	return out
}
