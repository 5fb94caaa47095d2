package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// date builds a UTC midnight timestamp.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// holidaySet is a fixed-date HolidayProvider for tests.
type holidaySet map[string]bool

func (h holidaySet) IsHoliday(d time.Time) bool { return h[d.Format("2006-01-02")] }

func TestCalendar_IsBusinessDay(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(nil)

	assert.True(t, cal.IsBusinessDay(date(2025, 6, 2)))   // Monday
	assert.True(t, cal.IsBusinessDay(date(2025, 6, 6)))   // Friday
	assert.False(t, cal.IsBusinessDay(date(2025, 6, 7)))  // Saturday
	assert.False(t, cal.IsBusinessDay(date(2025, 6, 8)))  // Sunday

	withHoliday := NewCalendar(holidaySet{"2025-06-04": true})
	assert.False(t, withHoliday.IsBusinessDay(date(2025, 6, 4)))
	assert.True(t, withHoliday.IsBusinessDay(date(2025, 6, 5)))
}

func TestCalendar_AddBusinessDays(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(nil)

	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"forward within week", date(2025, 6, 2), 2, date(2025, 6, 4)},
		{"forward over weekend", date(2025, 6, 6), 1, date(2025, 6, 9)},
		{"forward from saturday", date(2025, 6, 7), 1, date(2025, 6, 9)},
		{"backward over weekend", date(2025, 6, 9), -1, date(2025, 6, 6)},
		{"backward within week", date(2025, 6, 5), -3, date(2025, 6, 2)},
		{"zero returns input even on weekend", date(2025, 6, 7), 0, date(2025, 6, 7)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cal.AddBusinessDays(tt.from, tt.n))
		})
	}
}

func TestCalendar_AddBusinessDays_SkipsHolidays(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(holidaySet{"2025-06-03": true})

	// Mon + 1 business day skips the Tuesday holiday.
	assert.Equal(t, date(2025, 6, 4), cal.AddBusinessDays(date(2025, 6, 2), 1))
}

func TestCalendar_BusinessDaysBetween(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(nil)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2025, 6, 2), date(2025, 6, 2), 0},
		{"mon to wed", date(2025, 6, 2), date(2025, 6, 4), 2},
		{"mon to fri", date(2025, 6, 2), date(2025, 6, 6), 4},
		{"fri to mon skips weekend", date(2025, 6, 6), date(2025, 6, 9), 1},
		{"reverse is negative", date(2025, 6, 9), date(2025, 6, 6), -1},
		{"weekend endpoints", date(2025, 6, 7), date(2025, 6, 8), 0},
		{"time of day is ignored", date(2025, 6, 2).Add(23 * time.Hour), date(2025, 6, 3).Add(time.Hour), 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cal.BusinessDaysBetween(tt.from, tt.to))
		})
	}
}

func TestCalendar_BusinessDaysBetween_WithHolidays(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(holidaySet{"2025-06-04": true})

	assert.Equal(t, 3, cal.BusinessDaysBetween(date(2025, 6, 2), date(2025, 6, 6)))
}

func TestCalendar_AddBusinessDays_RoundTrip(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(holidaySet{"2025-06-09": true})

	start := date(2025, 6, 2)
	for n := 1; n <= 10; n++ {
		forward := cal.AddBusinessDays(start, n)
		assert.True(t, cal.IsBusinessDay(forward), "landed on non-business day for n=%d", n)
		assert.Equal(t, start, cal.AddBusinessDays(forward, -n), "round trip failed for n=%d", n)
	}
}
