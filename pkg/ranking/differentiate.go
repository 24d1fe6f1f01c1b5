package ranking

import (
	"math"

	"github.com/slotsmith/slotsmith/pkg/interval"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// differentiation is a small deterministic adjustment in [-3, +3] that keeps
// otherwise-identical slots from tying. It favors round starts, the category's
// preferred hours, mid-week days, and midday starts.
func differentiation(slot schedule.TimeInterval, category schedule.EventCategory) float64 {
	start := slot.Start.UTC()
	hour := start.Hour()
	minute := start.Minute()

	var total float64

	switch minute {
	case 0:
		total += 0.8
	case 30:
		total += 0.5
	case 15, 45:
		total += 0.2
	default:
		total -= float64(minute%15) * 0.05
	}

	total += categoryHourBonus(category, hour)

	switch schedule.WeekdayOf(start) {
	case schedule.Wednesday:
		total += 0.4
	case schedule.Tuesday, schedule.Thursday:
		total += 0.3
	case schedule.Monday:
		total += 0.15
	case schedule.Friday:
		total += 0.05
	}

	// Tent curve peaking mid-afternoon, between 9:00 and 17:00.
	if m := hour*60 + minute; m >= 540 && m <= 1020 {
		normalized := float64(m-540) / 480
		total += (1 - math.Abs(0.5-normalized)) * 0.6
	}

	if total > 3 {
		return 3
	}
	if total < -3 {
		return -3
	}
	return total
}

// categoryHourBonus grades the start hour against the category's preferred
// band. Only meetings, social events, and focus time carry an hour preference;
// other categories take no hour term at all.
func categoryHourBonus(category schedule.EventCategory, hour int) float64 {
	switch category {
	case schedule.CategoryMeeting:
		switch {
		case hour == 10:
			return 1.2
		case hour == 14:
			return 1.1
		case hour == 9 || hour == 15:
			return 0.9
		case hour == 11 || hour == 13:
			return 0.6
		case hour == 8 || hour == 16:
			return 0.3
		case hour >= 17:
			return -float64(hour-16) * 0.3
		}
	case schedule.CategorySocial:
		switch {
		case hour == 18:
			return 1.2
		case hour == 19:
			return 0.9
		case hour == 17:
			return 0.6
		case hour >= 20:
			return -float64(hour-19) * 0.4
		}
	case schedule.CategoryFocusTime:
		switch {
		case hour == 7 || hour == 8:
			return 1.2
		case hour == 9 || hour == 10:
			return 0.8
		case hour == 6:
			return 0.6
		}
	}
	return 0
}

// sameDayGapBonus awards up to +8 when the slot lands inside working hours on
// a day where some participant already has meetings. The bonus is the maximum
// across participants, never a sum.
func sameDayGapBonus(slot schedule.TimeInterval, participants []schedule.Participant, c *schedule.Constraints) float64 {
	hour := slot.Start.UTC().Hour()
	if hour < c.WorkingHoursStart || hour >= c.WorkingHoursEnd {
		return 0
	}

	best := 0.0
	for i := range participants {
		bonus := participantGapBonus(slot, &participants[i], c.Category)
		if bonus > best {
			best = bonus
		}
	}
	if best > 8 {
		return 8
	}
	return best
}

func participantGapBonus(slot schedule.TimeInterval, p *schedule.Participant, category schedule.EventCategory) float64 {
	hasBefore := false
	hasAfter := false
	sameDay := false
	for _, busy := range p.BusyIntervals {
		if !interval.SameDay(busy.Start, slot.Start) {
			continue
		}
		sameDay = true
		// Strictly before or after; a meeting touching the slot edge is
		// back-to-back, not a gap being filled.
		if busy.End.Before(slot.Start) {
			hasBefore = true
		}
		if busy.Start.After(slot.End) {
			hasAfter = true
		}
	}
	if !sameDay {
		return 0
	}
	bonus := 5.0
	if hasBefore && hasAfter {
		bonus += 3
	}
	if category == schedule.CategoryMeeting {
		bonus++
	}
	return bonus
}
