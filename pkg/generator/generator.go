// Package generator produces candidate meeting slots from constraints.
// Generation walks every date in the requested range and emits slots on a
// 30-minute grid inside hand-tuned, category-specific time windows.
package generator

import (
	"log/slog"
	"time"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// GridMinutes is the slot grid spacing.
const GridMinutes = 30

// window is an hour range [StartHour, EndHour) within a single day.
type window struct {
	startHour int
	endHour   int
}

// clampWindow bounds w to [lo, hi].
func clampWindow(w window, lo, hi int) window {
	if w.startHour < lo {
		w.startHour = lo
	}
	if w.endHour > hi {
		w.endHour = hi
	}
	return w
}

// windowsFor returns the candidate windows for a category on a weekday or
// weekend date. The tables mirror how calendars are actually used: meetings
// stretch slightly past working hours, personal errands bracket them,
// social events sit in the evening.
func windowsFor(cat schedule.EventCategory, weekend bool, c *schedule.Constraints) []window {
	whs, whe := c.WorkingHoursStart, c.WorkingHoursEnd
	if weekend {
		switch cat {
		case schedule.CategoryMeeting:
			return []window{{10, 13}}
		case schedule.CategoryWork:
			return []window{{9, 12}}
		case schedule.CategoryPersonal:
			return []window{{9, 18}}
		case schedule.CategorySocial:
			return []window{{11, 22}}
		case schedule.CategoryHealth:
			return []window{{8, 12}}
		case schedule.CategoryFocusTime:
			return []window{{8, 11}}
		case schedule.CategoryBreak:
			return []window{{10, 16}}
		default:
			return []window{{10, 16}}
		}
	}
	switch cat {
	case schedule.CategoryMeeting:
		return []window{clampWindow(window{whs - 1, whe + 1}, 7, 18)}
	case schedule.CategoryWork:
		return []window{{whs, whe}}
	case schedule.CategoryPersonal:
		return []window{{7, whs}, {whe, 20}}
	case schedule.CategorySocial:
		return []window{{17, 21}}
	case schedule.CategoryHealth:
		return []window{{7, 9}, {16, 19}}
	case schedule.CategoryFocusTime:
		return []window{{7, 10}, {14, 16}}
	case schedule.CategoryBreak:
		return []window{{10, 11}, {15, 16}}
	default:
		return []window{{whs, whe}}
	}
}

// Generate returns every candidate slot permitted by the constraints, in
// chronological order. Slots start on the 30-minute grid; a slot must fit
// entirely inside its window. Holidays and disallowed weekdays yield nothing.
func Generate(c *schedule.Constraints, logger *slog.Logger) []schedule.TimeInterval {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	duration := c.Duration()
	var slots []schedule.TimeInterval

	y, m, d := c.EarliestDate.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = c.LatestDate.UTC().Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !c.DayAllowed(day) {
			continue
		}
		if c.IsHoliday(day) {
			logger.Debug("skipping holiday", "date", day.Format("2006-01-02"))
			continue
		}
		weekend := schedule.IsWeekend(day)
		for _, w := range windowsFor(c.Category, weekend, c) {
			if w.endHour <= w.startHour {
				continue
			}
			windowEnd := day.Add(time.Duration(w.endHour) * time.Hour)
			start := day.Add(time.Duration(w.startHour) * time.Hour)
			for ; !start.Add(duration).After(windowEnd); start = start.Add(GridMinutes * time.Minute) {
				slots = append(slots, schedule.TimeInterval{
					Start:    start,
					End:      start.Add(duration),
					Timezone: "UTC",
				})
			}
		}
	}

	logger.Debug("generated candidate slots",
		"count", len(slots),
		"category", c.Category,
		"duration_minutes", c.DurationMinutes)
	return slots
}
