package negotiate

import (
	"sort"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// ConflictAnalysis summarizes which participants block candidates and how
// often. Pure reporting; it drives no scheduling decision.
type ConflictAnalysis struct {
	ConflictsByParticipant map[string]int `json:"conflicts_by_participant"`
	TotalConflicts         int            `json:"total_conflicts"`
	ConflictRate           float64        `json:"conflict_rate"`
	MostConstrained        []string       `json:"most_constrained,omitempty"`
}

// AnalyzeConflicts counts, per participant, how many candidates they conflict
// with. ConflictRate is the percentage of (candidate, participant) pairs that
// conflict. MostConstrained lists up to three participants with the highest
// counts, most constrained first; ties break by user ID for stable output.
func AnalyzeConflicts(candidates []schedule.Candidate, participants []schedule.Participant) ConflictAnalysis {
	analysis := ConflictAnalysis{
		ConflictsByParticipant: make(map[string]int, len(participants)),
	}
	for i := range participants {
		analysis.ConflictsByParticipant[participants[i].UserID] = 0
	}

	for _, cand := range candidates {
		analysis.TotalConflicts += len(cand.Conflicts)
		for _, id := range cand.Conflicts {
			analysis.ConflictsByParticipant[id]++
		}
	}
	if pairs := len(candidates) * len(participants); pairs > 0 {
		analysis.ConflictRate = float64(analysis.TotalConflicts) / float64(pairs) * 100
	}

	type entry struct {
		id    string
		count int
	}
	var entries []entry
	for id, n := range analysis.ConflictsByParticipant {
		if n > 0 {
			entries = append(entries, entry{id, n})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].id < entries[j].id
	})
	if len(entries) > 3 {
		entries = entries[:3]
	}
	for _, e := range entries {
		analysis.MostConstrained = append(analysis.MostConstrained, e.id)
	}
	return analysis
}
