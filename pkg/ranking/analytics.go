package ranking

import "github.com/slotsmith/slotsmith/pkg/schedule"

// Heuristics behind the coordination-savings estimate: manual scheduling
// costs roughly a quarter hour of back-and-forth per participant, and
// automation removes about three quarters of it.
const (
	manualMinutesPerParticipant = 15.0
	automationReduction         = 0.75
)

// TimeSavings estimates coordination effort saved by the ranked proposal.
type TimeSavings struct {
	ManualEstimateMinutes float64 `json:"manual_estimate_minutes"`
	SavedMinutes          float64 `json:"saved_minutes"`
	ReductionRatio        float64 `json:"reduction_ratio"`
}

// EstimateTimeSavings computes the savings analytics for a finished ranking.
// With no candidates nothing was saved.
func EstimateTimeSavings(candidates []schedule.Candidate, participantCount int) TimeSavings {
	manual := manualMinutesPerParticipant * float64(participantCount)
	if len(candidates) == 0 {
		return TimeSavings{ManualEstimateMinutes: manual}
	}
	return TimeSavings{
		ManualEstimateMinutes: manual,
		SavedMinutes:          manual * automationReduction,
		ReductionRatio:        automationReduction,
	}
}
