// Package ranking blends availability, preference, proximity, fragmentation,
// and secondary optimization signals into one 0 to 100 score per slot, then
// sorts and truncates to the requested number of candidates. Ranking is a
// pure function of its inputs; the only time dependence is the explicit
// "now" argument feeding the recency signal.
package ranking

import (
	"log/slog"
	"sort"
	"time"

	"github.com/slotsmith/slotsmith/pkg/availability"
	"github.com/slotsmith/slotsmith/pkg/preference"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// Rank scores every slot and returns at most c.MaxCandidates candidates in
// non-increasing score order. Ties keep generation order, which is
// chronological.
func Rank(slots []schedule.TimeInterval, participants []schedule.Participant, c *schedule.Constraints, now time.Time, logger *slog.Logger) []schedule.Candidate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	candidates := make([]schedule.Candidate, 0, len(slots))
	for _, slot := range slots {
		candidates = append(candidates, scoreSlot(slot, participants, c, now))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > c.MaxCandidates {
		candidates = candidates[:c.MaxCandidates]
	}

	logger.Debug("ranked candidate slots",
		"evaluated", len(slots), "returned", len(candidates))
	return candidates
}

func scoreSlot(slot schedule.TimeInterval, participants []schedule.Participant, c *schedule.Constraints, now time.Time) schedule.Candidate {
	availScores := make([]float64, len(participants))
	for i := range participants {
		availScores[i] = availability.Score(&participants[i], slot, c.BufferMinutes)
	}

	availFactor, availDetail, conflicts := availabilityFactor(availScores, participants)
	prefScores := preference.ScoreAll(slot, participants, c.Category)
	prefFactor := preference.Aggregate(prefScores, participants) / 100
	proxFactor, proxDetail := proximityFactor(slot, participants, c.BufferMinutes)
	fragFactor, fragDetail := fragmentationFactor(slot, participants)
	optFactor := optimizationFactor(slot, participants, now)

	weighted := (availFactor*schedule.WeightAvailability +
		prefFactor*schedule.WeightPreference +
		proxFactor*schedule.WeightConflictProximity +
		fragFactor*schedule.WeightFragmentation +
		optFactor*schedule.WeightOptimization) * 100

	diff := differentiation(slot, c.Category)
	gapBonus := sameDayGapBonus(slot, participants, c)
	fragDetail.GapBonus = gapBonus

	// Intermediate sums may exceed the bounds; clamp only at the very end.
	score := weighted + diff + gapBonus
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	breakdown := schedule.ScoreBreakdown{
		Version:           schedule.BreakdownVersion,
		Weights:           schedule.Weights(),
		Availability:      availFactor,
		Preference:        prefFactor,
		ConflictProximity: proxFactor,
		Fragmentation:     fragFactor,
		Optimization:      optFactor,
		AvailabilityInfo:  availDetail,
		ProximityInfo:     proxDetail,
		FragmentationInfo: fragDetail,
	}

	return schedule.Candidate{
		Slot:      slot,
		Score:     score,
		Breakdown: breakdown,
		Reasoning: reasoning(score, &breakdown),
		Conflicts: conflicts,
	}
}
