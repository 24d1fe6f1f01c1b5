// Package interval provides time interval arithmetic shared by the scoring engines.
package interval

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// The test is half-open: intervals that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Expand widens [start, end) by the given padding on both sides.
func Expand(start, end time.Time, by time.Duration) (time.Time, time.Time) {
	return start.Add(-by), end.Add(by)
}

// GapMinutes returns the number of minutes from `from` to `to`.
// Negative when `to` precedes `from`.
func GapMinutes(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}

// AbsMinutesApart returns the absolute distance in minutes between two instants.
func AbsMinutesApart(a, b time.Time) float64 {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return d.Minutes()
}

// SameDay reports whether both instants fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
