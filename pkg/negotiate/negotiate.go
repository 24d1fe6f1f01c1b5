// Package negotiate resolves schedules that the first ranking pass could not
// satisfy. It filters out candidates conflicting with required participants,
// rewards optional coverage, and as a last resort progressively relaxes the
// constraints to manufacture compromise candidates.
package negotiate

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/slotsmith/slotsmith/pkg/availability"
	"github.com/slotsmith/slotsmith/pkg/generator"
	"github.com/slotsmith/slotsmith/pkg/ranking"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

const (
	optionalBonusMax  = 10.0
	compromiseTopN    = 3
	relaxedHoursFloor = 7
	relaxedHoursCeil  = 19
)

// Negotiate finalizes the candidate list. It returns the candidates to
// propose and the number of negotiation rounds used: 0 when the ranked input
// is returned unchanged, 2 after required-filtering (whether it resolves via
// optional rescoring or falls through to compromise mode), 1 when compromise
// mode is entered without any required participants.
func Negotiate(ranked []schedule.Candidate, participants []schedule.Participant, c *schedule.Constraints, now time.Time, logger *slog.Logger) ([]schedule.Candidate, int) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	required := schedule.Required(participants)
	if len(required) > 0 {
		filtered := withoutRequiredConflicts(ranked, required)
		if len(filtered) > 0 {
			rescored := rescoreWithOptionalBonus(filtered, participants, c)
			logger.Debug("negotiation resolved by filtering",
				"in", len(ranked), "out", len(rescored))
			return rescored, 2
		}
		logger.Debug("no candidate satisfies all required participants, entering compromise mode")
		return compromise(participants, c, now, logger), 2
	}

	if anyConflictFree(ranked) {
		return ranked, 0
	}
	logger.Debug("every candidate conflicts, entering compromise mode")
	return compromise(participants, c, now, logger), 1
}

// withoutRequiredConflicts keeps candidates whose conflict list names no
// required participant.
func withoutRequiredConflicts(candidates []schedule.Candidate, required []schedule.Participant) []schedule.Candidate {
	requiredIDs := make(map[string]bool, len(required))
	for i := range required {
		requiredIDs[required[i].UserID] = true
	}
	var out []schedule.Candidate
	for _, cand := range candidates {
		blocked := false
		for _, id := range cand.Conflicts {
			if requiredIDs[id] {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, cand)
		}
	}
	return out
}

func anyConflictFree(candidates []schedule.Candidate) bool {
	for _, cand := range candidates {
		if len(cand.Conflicts) == 0 {
			return true
		}
	}
	return false
}

// rescoreWithOptionalBonus adds up to +10 proportional to the fraction of
// optional participants available for each candidate, annotates the
// reasoning, and re-sorts. Candidates are copied, never mutated in place.
func rescoreWithOptionalBonus(candidates []schedule.Candidate, participants []schedule.Participant, c *schedule.Constraints) []schedule.Candidate {
	optional := schedule.Optional(participants)
	out := make([]schedule.Candidate, len(candidates))
	copy(out, candidates)
	if len(optional) == 0 {
		return out
	}

	for i := range out {
		available := 0
		for j := range optional {
			if availability.Score(&optional[j], out[i].Slot, c.BufferMinutes) > 50 {
				available++
			}
		}
		ratio := float64(available) / float64(len(optional))
		out[i].Score += optionalBonusMax * ratio
		if out[i].Score > 100 {
			out[i].Score = 100
		}
		out[i].Reasoning += fmt.Sprintf(" Includes %d/%d optional participants.", available, len(optional))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// compromise tries three relaxations of the original constraints, each built
// independently from the original and each re-running generation, the
// required-availability filter, and ranking. The best few candidates of every
// relaxation are merged; duplicate slot starts keep their first occurrence,
// so earlier relaxations win.
func compromise(participants []schedule.Participant, c *schedule.Constraints, now time.Time, logger *slog.Logger) []schedule.Candidate {
	var merged []schedule.Candidate

	extended := c.With(func(rc *schedule.Constraints) {
		rc.WorkingHoursStart = max(relaxedHoursFloor, rc.WorkingHoursStart-1)
		rc.WorkingHoursEnd = min(relaxedHoursCeil, rc.WorkingHoursEnd+1)
		rc.BufferMinutes = max(0, rc.BufferMinutes-5)
	})
	merged = append(merged, relaxAndRank(&extended, participants, now, logger, "Compromise: Extended hours.")...)

	reduced := c.With(func(rc *schedule.Constraints) {
		rc.BufferMinutes = max(0, rc.BufferMinutes-10)
	})
	merged = append(merged, relaxAndRank(&reduced, participants, now, logger, "Compromise: Reduced buffer.")...)

	if c.DurationMinutes > 30 {
		shorter := c.With(func(rc *schedule.Constraints) {
			rc.DurationMinutes = max(15, rc.DurationMinutes-15)
		})
		tag := fmt.Sprintf("Compromise: Shorter meeting (%dmin).", shorter.DurationMinutes)
		merged = append(merged, relaxAndRank(&shorter, participants, now, logger, tag)...)
	}

	merged = dedupByStart(merged)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > c.MaxCandidates {
		merged = merged[:c.MaxCandidates]
	}
	return merged
}

// relaxAndRank runs the full generate-filter-rank pipeline under relaxed
// constraints. Slots a required participant cannot attend are never proposed,
// even as compromises.
func relaxAndRank(c *schedule.Constraints, participants []schedule.Participant, now time.Time, logger *slog.Logger, tag string) []schedule.Candidate {
	slots := generator.Generate(c, logger)
	open := availability.Filter(participants, slots, c.BufferMinutes, logger)
	candidates := ranking.Rank(open, participants, c, now, logger)
	if len(candidates) > compromiseTopN {
		candidates = candidates[:compromiseTopN]
	}
	for i := range candidates {
		candidates[i].Reasoning += " " + tag
	}
	return candidates
}

// dedupByStart drops candidates whose slot start was already seen, keeping
// the first occurrence.
func dedupByStart(candidates []schedule.Candidate) []schedule.Candidate {
	seen := make(map[int64]bool, len(candidates))
	var out []schedule.Candidate
	for _, cand := range candidates {
		key := cand.Slot.Start.UnixNano()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cand)
	}
	return out
}
