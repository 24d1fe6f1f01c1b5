// Package preference scores a slot against a participant's learned habits.
// Sub-scores for day, time of day, morning/evening bias, duration fit, and
// category fit are blended as a cascade: each factor acts on the partially
// blended score rather than contributing to a flat weighted sum. The cascade
// order is load-bearing for score compatibility and must not be reordered.
package preference

import (
	"math"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// Cascade blend weights, applied in this order.
const (
	dayKeep      = 0.75
	timeKeep     = 0.70
	morningKeep  = 0.80
	durationKeep = 0.90
	categoryKeep = 0.85
)

// Score rates one slot for one participant on a 0 to 100 scale. A nil
// pattern degrades to the category-fit baseline, or 50 for a neutral
// category.
func Score(slot schedule.TimeInterval, pattern *schedule.PreferencePattern, category schedule.EventCategory) float64 {
	if pattern == nil {
		if category.Neutral() {
			return 50
		}
		return CategoryFit(slot, category)
	}

	score := 100.0
	score = score*dayKeep + dayScore(slot, pattern)*(1-dayKeep)
	score = score*timeKeep + timeScore(slot, pattern)*(1-timeKeep)
	score = score*morningKeep + morningScore(slot, pattern)*(1-morningKeep)
	score = score*durationKeep + durationScore(slot, pattern)*(1-durationKeep)
	score = score*categoryKeep + CategoryFit(slot, category)*(1-categoryKeep)

	return clamp(score)
}

// dayScore is 100 when the slot's weekday is preferred, 30 when it is not,
// and 50 when the participant declared no day preference.
func dayScore(slot schedule.TimeInterval, pattern *schedule.PreferencePattern) float64 {
	if len(pattern.PreferredDays) == 0 {
		return 50
	}
	wd := schedule.WeekdayOf(slot.Start)
	for _, d := range pattern.PreferredDays {
		if d == wd {
			return 100
		}
	}
	return 30
}

// timeScore stays in the 80 to 100 band inside the preferred-hour window,
// highest at the window center, and falls toward 10 with distance outside it.
func timeScore(slot schedule.TimeInterval, pattern *schedule.PreferencePattern) float64 {
	s, e := pattern.PreferredHoursStart, pattern.PreferredHoursEnd
	if e <= s {
		return 50
	}
	hour := slot.Start.UTC().Hour()
	if hour >= s && hour < e {
		center := float64(s) + float64(e-s)/2
		maxDist := float64(e-s) / 2
		dist := math.Abs(float64(hour) - center)
		return math.Max(80, 100-(dist/maxDist)*20)
	}
	var dist float64
	if hour < s {
		dist = float64(s - hour)
	} else {
		dist = float64(hour - e)
	}
	penalty := math.Min(dist*15, 60)
	return math.Max(10, 50-penalty)
}

// morningScore aligns the slot with the participant's morning/evening bias.
// Morning is 6:00 to 12:00, afternoon 14:00 to 19:00; everything else is
// neutral.
func morningScore(slot schedule.TimeInterval, pattern *schedule.PreferencePattern) float64 {
	hour := slot.Start.UTC().Hour()
	switch {
	case hour >= 6 && hour < 12:
		return pattern.MorningPersonScore * 100
	case hour >= 14 && hour < 19:
		return (1 - pattern.MorningPersonScore) * 100
	default:
		return 50
	}
}

// durationScore grades divergence from the participant's historical average
// meeting length in steps of half an hour.
func durationScore(slot schedule.TimeInterval, pattern *schedule.PreferencePattern) float64 {
	if pattern.AvgMeetingDurationMinutes <= 0 {
		return 50
	}
	diff := math.Abs(slot.Duration().Minutes() - float64(pattern.AvgMeetingDurationMinutes))
	switch {
	case diff <= 15:
		return 100
	case diff <= 30:
		return 80
	case diff <= 60:
		return 60
	default:
		return 40
	}
}

// ScoreAll returns the per-participant preference scores for a slot, in
// participant order.
func ScoreAll(slot schedule.TimeInterval, participants []schedule.Participant, category schedule.EventCategory) []float64 {
	scores := make([]float64, len(participants))
	for i := range participants {
		scores[i] = Score(slot, participants[i].Preferences, category)
	}
	return scores
}

// Aggregate combines per-participant preference scores into a single number,
// weighting required participants at 1.0 and optional at 0.5. No
// participants aggregates to the neutral 50.
func Aggregate(scores []float64, participants []schedule.Participant) float64 {
	var sum, weight float64
	for i := range participants {
		w := 0.5
		if participants[i].IsRequired {
			w = 1.0
		}
		sum += scores[i] * w
		weight += w
	}
	if weight == 0 {
		return 50
	}
	return sum / weight
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
