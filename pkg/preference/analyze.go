package preference

import "github.com/slotsmith/slotsmith/pkg/schedule"

// GroupSummary describes the shared preference shape of a participant group.
// It is reporting only and feeds no scoring decision.
type GroupSummary struct {
	ParticipantsWithPatterns int                `json:"participants_with_patterns"`
	CommonPreferredDays      []schedule.Weekday `json:"common_preferred_days"`
	AvgMorningPersonScore    float64            `json:"avg_morning_person_score"`
	AvgPreferredStartHour    float64            `json:"avg_preferred_start_hour"`
	AvgPreferredEndHour      float64            `json:"avg_preferred_end_hour"`
}

// AnalyzeGroup summarizes the preference patterns present in a group.
// Days preferred by a strict majority of pattern-carrying participants are
// reported as common, in weekday order Monday first.
func AnalyzeGroup(participants []schedule.Participant) GroupSummary {
	var summary GroupSummary
	dayVotes := make(map[schedule.Weekday]int)
	var morningSum, startSum, endSum float64

	for i := range participants {
		pat := participants[i].Preferences
		if pat == nil {
			continue
		}
		summary.ParticipantsWithPatterns++
		morningSum += pat.MorningPersonScore
		startSum += float64(pat.PreferredHoursStart)
		endSum += float64(pat.PreferredHoursEnd)
		for _, d := range pat.PreferredDays {
			dayVotes[d]++
		}
	}
	if summary.ParticipantsWithPatterns == 0 {
		return summary
	}

	n := float64(summary.ParticipantsWithPatterns)
	summary.AvgMorningPersonScore = morningSum / n
	summary.AvgPreferredStartHour = startSum / n
	summary.AvgPreferredEndHour = endSum / n

	threshold := summary.ParticipantsWithPatterns/2 + 1
	weekOrder := []schedule.Weekday{
		schedule.Monday, schedule.Tuesday, schedule.Wednesday,
		schedule.Thursday, schedule.Friday, schedule.Saturday, schedule.Sunday,
	}
	for _, d := range weekOrder {
		if dayVotes[d] >= threshold {
			summary.CommonPreferredDays = append(summary.CommonPreferredDays, d)
		}
	}
	return summary
}
