package preference

import "github.com/slotsmith/slotsmith/pkg/schedule"

// Category-fit band scores.
const (
	fitBest    = 90.0
	fitGood    = 70.0
	fitPoor    = 30.0
	fitNeutral = 50.0
)

// hourBand is an inclusive hour range within a day.
type hourBand struct {
	from, to int
}

func (b hourBand) contains(hour int) bool {
	return hour >= b.from && hour <= b.to
}

// categoryBands lists best/good/poor hour bands per category. Hours outside
// all bands score neutral. "other" has no bands and is neutral everywhere.
var categoryBands = map[schedule.EventCategory]struct {
	best, good, poor []hourBand
}{
	schedule.CategoryMeeting: {
		best: []hourBand{{10, 11}},
		good: []hourBand{{9, 12}, {14, 16}},
		poor: []hourBand{{0, 7}, {18, 23}},
	},
	schedule.CategoryWork: {
		best: []hourBand{{9, 11}},
		good: []hourBand{{8, 17}},
		poor: []hourBand{{0, 6}, {18, 23}},
	},
	schedule.CategoryPersonal: {
		best: []hourBand{{17, 19}},
		good: []hourBand{{7, 9}, {19, 20}},
		poor: []hourBand{{10, 16}},
	},
	schedule.CategorySocial: {
		best: []hourBand{{18, 20}},
		good: []hourBand{{17, 21}},
		poor: []hourBand{{0, 11}},
	},
	schedule.CategoryHealth: {
		best: []hourBand{{7, 9}},
		good: []hourBand{{16, 19}},
		poor: []hourBand{{12, 15}},
	},
	schedule.CategoryFocusTime: {
		best: []hourBand{{7, 9}},
		good: []hourBand{{10, 10}, {14, 16}},
		poor: []hourBand{{17, 23}},
	},
	schedule.CategoryBreak: {
		best: []hourBand{{10, 11}, {15, 16}},
		good: []hourBand{{12, 14}},
		poor: []hourBand{{0, 8}, {18, 23}},
	},
}

// CategoryFit scores the slot's start hour against the category's hand-tuned
// hour bands. A small per-minute deduction keeps slots inside the same band
// from tying exactly.
func CategoryFit(slot schedule.TimeInterval, category schedule.EventCategory) float64 {
	bands, ok := categoryBands[category]
	if !ok {
		return fitNeutral
	}
	hour := slot.Start.UTC().Hour()
	minute := slot.Start.UTC().Minute()

	base := fitNeutral
	switch {
	case anyContains(bands.best, hour):
		base = fitBest
	case anyContains(bands.good, hour):
		base = fitGood
	case anyContains(bands.poor, hour):
		base = fitPoor
	}
	return base - float64(minute)*0.05
}

func anyContains(bands []hourBand, hour int) bool {
	for _, b := range bands {
		if b.contains(hour) {
			return true
		}
	}
	return false
}
