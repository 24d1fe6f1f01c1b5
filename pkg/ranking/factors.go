package ranking

import (
	"math"
	"time"

	"github.com/slotsmith/slotsmith/pkg/interval"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

const availableThreshold = 50.0

// availabilityFactor converts per-participant availability scores into a
// single [0,1] factor. When every required participant clears the threshold
// the factor rewards optional coverage on top of a 0.70 base; otherwise it
// collapses to half the required coverage ratio.
func availabilityFactor(scores []float64, participants []schedule.Participant) (float64, schedule.AvailabilityDetail, []string) {
	var detail schedule.AvailabilityDetail
	var conflicts []string
	var sum float64

	for i := range participants {
		s := scores[i]
		sum += s
		if s == 0 {
			conflicts = append(conflicts, participants[i].UserID)
		}
		if participants[i].IsRequired {
			detail.RequiredTotal++
			if s > availableThreshold {
				detail.RequiredAvailable++
			}
		} else {
			detail.OptionalTotal++
			if s > availableThreshold {
				detail.OptionalAvailable++
			}
		}
	}
	if len(participants) > 0 {
		detail.MeanAvailabilityScore = sum / float64(len(participants))
	} else {
		detail.MeanAvailabilityScore = 100
	}
	detail.AllRequiredAvailable = detail.RequiredAvailable == detail.RequiredTotal

	if detail.AllRequiredAvailable {
		optRatio := 1.0
		if detail.OptionalTotal > 0 {
			optRatio = float64(detail.OptionalAvailable) / float64(detail.OptionalTotal)
		}
		return 0.70 + 0.30*optRatio, detail, conflicts
	}
	reqRatio := 0.0
	if detail.RequiredTotal > 0 {
		reqRatio = float64(detail.RequiredAvailable) / float64(detail.RequiredTotal)
	}
	return 0.50 * reqRatio, detail, conflicts
}

// proximityFactor scores how crowded the slot's surroundings are, across all
// participants regardless of required status. Overlap is worst; a calendar
// with no meetings before or after the slot at all is best. In between, the
// band is picked from the minimum gap to any busy interval: 0.85 to 0.95 when
// the buffer is satisfied, 0.60 to 0.85 when close, 0.35 to 0.60 when nearly
// back-to-back.
func proximityFactor(slot schedule.TimeInterval, participants []schedule.Participant, bufferMinutes int) (float64, schedule.ProximityDetail) {
	minGap := -1.0
	overlapping := false
	for i := range participants {
		for _, busy := range participants[i].BusyIntervals {
			if interval.Overlaps(slot.Start, slot.End, busy.Start, busy.End) {
				overlapping = true
				continue
			}
			var gap float64
			if !busy.End.After(slot.Start) {
				gap = interval.GapMinutes(busy.End, slot.Start)
			} else {
				gap = interval.GapMinutes(slot.End, busy.Start)
			}
			if minGap < 0 || gap < minGap {
				minGap = gap
			}
		}
	}
	detail := schedule.ProximityDetail{MinGapMinutes: minGap}
	switch {
	case overlapping:
		return 0.15, detail
	case minGap < 0:
		return 1.0, detail
	case minGap >= float64(bufferMinutes):
		return 0.85 + 0.10*math.Min(minGap/60, 1), detail
	case minGap >= 5:
		return 0.60 + 0.25*(minGap/float64(bufferMinutes)), detail
	default:
		return 0.35 + 0.25*(minGap/5), detail
	}
}

// fragmentationFactor rewards slots that group with a participant's existing
// meetings instead of splintering an empty day. Classified per participant,
// then averaged.
func fragmentationFactor(slot schedule.TimeInterval, participants []schedule.Participant) (float64, schedule.FragmentationDetail) {
	var detail schedule.FragmentationDetail
	if len(participants) == 0 {
		return 0.5, detail
	}
	var sum float64
	for i := range participants {
		score, sameDay := classifyFragmentation(slot, &participants[i])
		sum += score
		if sameDay {
			detail.AdjacentCount++
		}
	}
	return sum / float64(len(participants)), detail
}

// classifyFragmentation grades one participant's calendar around the slot by
// counting same-day meetings within four hours: two or more close meetings is
// a well-grouped day, one is somewhat grouped, a distant same-day meeting is
// weaker, and a meeting within a day of the slot weaker still.
func classifyFragmentation(slot schedule.TimeInterval, p *schedule.Participant) (score float64, sameDay bool) {
	sameDayCount := 0
	closeCount := 0
	nearbyCount := 0
	for _, busy := range p.BusyIntervals {
		if interval.SameDay(busy.Start, slot.Start) {
			sameDayCount++
			gap := math.Min(
				interval.AbsMinutesApart(slot.Start, busy.End),
				interval.AbsMinutesApart(busy.Start, slot.End),
			)
			if gap <= 240 {
				closeCount++
			}
		}
		if interval.AbsMinutesApart(busy.Start, slot.Start) <= 24*60 {
			nearbyCount++
		}
	}
	sameDay = sameDayCount > 0
	switch {
	case closeCount >= 2:
		return 0.90 + math.Min(float64(closeCount)*0.05, 0.10), sameDay
	case closeCount == 1:
		return 0.75, sameDay
	case sameDayCount >= 1:
		return 0.55, sameDay
	case nearbyCount >= 1:
		return 0.40, false
	default:
		return 0.30, false
	}
}

// optimizationFactor is the equal-weighted mean of five minor signals, each
// on a 0 to 100 scale, normalized to [0,1].
func optimizationFactor(slot schedule.TimeInterval, participants []schedule.Participant, now time.Time) float64 {
	hour := slot.Start.UTC().Hour()

	var timeOfDay float64
	switch {
	case hour >= 9 && hour <= 16:
		timeOfDay = 100
	case hour == 8 || hour == 17:
		timeOfDay = 80
	case hour == 7 || hour == 18:
		timeOfDay = 60
	default:
		timeOfDay = 40
	}

	var dayOfWeek float64
	switch schedule.WeekdayOf(slot.Start) {
	case schedule.Tuesday, schedule.Wednesday, schedule.Thursday:
		dayOfWeek = 100
	case schedule.Monday, schedule.Friday:
		dayOfWeek = 90
	default:
		dayOfWeek = 50
	}

	density := densityScore(slot, participants)

	var tzFriendly float64
	switch {
	case hour >= 8 && hour <= 18:
		tzFriendly = 100
	case hour == 7 || hour == 19:
		tzFriendly = 70
	default:
		tzFriendly = 40
	}

	var recency float64
	days := int(math.Floor(slot.Start.Sub(now).Hours() / 24))
	switch {
	case days <= 3:
		recency = 95
	case days <= 7:
		recency = 100
	case days <= 14:
		recency = 90
	default:
		recency = 80
	}

	return (timeOfDay + dayOfWeek + density + tzFriendly + recency) / 5 / 100
}

// densityScore prefers slots with fewer meetings within two hours. Each
// participant's nearby-meeting count is banded separately, then the bands are
// averaged.
func densityScore(slot schedule.TimeInterval, participants []schedule.Participant) float64 {
	if len(participants) == 0 {
		return 50
	}
	var total float64
	for i := range participants {
		nearby := 0
		for _, busy := range participants[i].BusyIntervals {
			gap := math.Min(
				interval.AbsMinutesApart(slot.Start, busy.End),
				interval.AbsMinutesApart(busy.Start, slot.End),
			)
			if gap <= 120 {
				nearby++
			}
		}
		switch nearby {
		case 0:
			total += 100
		case 1:
			total += 80
		case 2:
			total += 60
		default:
			total += 40
		}
	}
	return total / float64(len(participants))
}
