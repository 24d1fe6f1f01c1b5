package schedule

import "time"

// Weekday is a lowercase weekday name as it appears on the wire.
type Weekday string

// Weekday values.
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Static bidirectional weekday tables, built once and never mutated.
var (
	weekdayToGo = map[Weekday]time.Weekday{
		Monday:    time.Monday,
		Tuesday:   time.Tuesday,
		Wednesday: time.Wednesday,
		Thursday:  time.Thursday,
		Friday:    time.Friday,
		Saturday:  time.Saturday,
		Sunday:    time.Sunday,
	}

	goToWeekday = map[time.Weekday]Weekday{
		time.Monday:    Monday,
		time.Tuesday:   Tuesday,
		time.Wednesday: Wednesday,
		time.Thursday:  Thursday,
		time.Friday:    Friday,
		time.Saturday:  Saturday,
		time.Sunday:    Sunday,
	}
)

// Valid reports whether w is one of the seven known weekday names.
func (w Weekday) Valid() bool {
	_, ok := weekdayToGo[w]
	return ok
}

// WeekdayOf returns the wire-format weekday for an instant (evaluated in UTC).
func WeekdayOf(t time.Time) Weekday {
	return goToWeekday[t.UTC().Weekday()]
}

// IsWeekend reports whether the instant falls on a Saturday or Sunday (UTC).
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
