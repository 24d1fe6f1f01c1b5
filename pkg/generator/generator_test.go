package generator

import (
	"testing"
	"time"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// 2026-09-07 is a Monday.
func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func constraints(mutate func(*schedule.Constraints)) schedule.Constraints {
	c := schedule.Constraints{
		DurationMinutes: 60,
		EarliestDate:    day(7),
		LatestDate:      day(7),
	}
	c.ApplyDefaults()
	if mutate != nil {
		mutate(&c)
	}
	return c
}

func TestGenerateGrid(t *testing.T) {
	c := constraints(nil)
	slots := Generate(&c, nil)

	// Window 9-17, 60 minute slots on a 30 minute grid: 9:00 through 16:00.
	if len(slots) != 15 {
		t.Fatalf("Generate() returned %d slots, want 15", len(slots))
	}
	if !slots[0].Start.Equal(day(7).Add(9 * time.Hour)) {
		t.Errorf("first slot = %v, want 09:00", slots[0].Start)
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(day(7).Add(16 * time.Hour)) {
		t.Errorf("last slot = %v, want 16:00", last.Start)
	}
	for _, s := range slots {
		if s.Start.Minute()%30 != 0 {
			t.Errorf("slot %v off the 30-minute grid", s.Start)
		}
		if s.Duration() != time.Hour {
			t.Errorf("slot duration = %v, want 1h", s.Duration())
		}
	}
}

func TestGenerateSkipsDisallowedWeekdays(t *testing.T) {
	c := constraints(func(c *schedule.Constraints) {
		c.EarliestDate = day(7)  // Monday
		c.LatestDate = day(13)   // Sunday
	})
	slots := Generate(&c, nil)
	for _, s := range slots {
		if schedule.IsWeekend(s.Start) {
			t.Errorf("slot %v falls on a weekend despite Mon-Fri constraint", s.Start)
		}
	}
	days := map[int]bool{}
	for _, s := range slots {
		days[s.Start.Day()] = true
	}
	if len(days) != 5 {
		t.Errorf("slots span %d days, want 5 weekdays", len(days))
	}
}

func TestGenerateSkipsHolidays(t *testing.T) {
	c := constraints(func(c *schedule.Constraints) {
		c.EarliestDate = day(7)
		c.LatestDate = day(8)
		c.Holidays = []time.Time{day(7)}
	})
	slots := Generate(&c, nil)
	if len(slots) == 0 {
		t.Fatal("Generate() returned no slots")
	}
	for _, s := range slots {
		if s.Start.Day() == 7 {
			t.Errorf("slot %v generated on a holiday", s.Start)
		}
	}
}

func TestGenerateWindowTooSmall(t *testing.T) {
	// Break windows are one hour each; a two hour meeting fits nowhere.
	c := constraints(func(c *schedule.Constraints) {
		c.DurationMinutes = 120
		c.Category = schedule.CategoryBreak
	})
	if slots := Generate(&c, nil); len(slots) != 0 {
		t.Errorf("Generate() = %d slots, want 0 when no window fits", len(slots))
	}
}

func TestGenerateCategoryWindows(t *testing.T) {
	tests := []struct {
		name     string
		category schedule.EventCategory
		minHour  int
		maxHour  int // latest permitted start hour boundary (exclusive end)
	}{
		{"social evenings", schedule.CategorySocial, 17, 21},
		{"meeting stretches past office hours", schedule.CategoryMeeting, 8, 18},
		{"focus mornings and afternoons", schedule.CategoryFocusTime, 7, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := constraints(func(c *schedule.Constraints) {
				c.Category = tt.category
				c.DurationMinutes = 30
			})
			slots := Generate(&c, nil)
			if len(slots) == 0 {
				t.Fatal("Generate() returned no slots")
			}
			for _, s := range slots {
				h := s.Start.Hour()
				if h < tt.minHour || h >= tt.maxHour {
					t.Errorf("slot at %02d:00 outside %d-%d window", h, tt.minHour, tt.maxHour)
				}
			}
		})
	}
}

func TestGenerateWeekendWindowsDiffer(t *testing.T) {
	c := constraints(func(c *schedule.Constraints) {
		c.EarliestDate = day(12) // Saturday
		c.LatestDate = day(12)
		c.AllowedDays = []schedule.Weekday{schedule.Saturday}
		c.Category = schedule.CategorySocial
		c.DurationMinutes = 30
	})
	slots := Generate(&c, nil)
	if len(slots) == 0 {
		t.Fatal("Generate() returned no weekend slots")
	}
	sawBeforeFive := false
	for _, s := range slots {
		h := s.Start.Hour()
		if h < 11 || h >= 22 {
			t.Errorf("weekend social slot at %02d:%02d outside 11-22", h, s.Start.Minute())
		}
		if h < 17 {
			sawBeforeFive = true
		}
	}
	// The weekend window opens at midday, unlike the weekday evening window.
	if !sawBeforeFive {
		t.Error("no weekend slot before 17:00; weekend window not applied")
	}
}
