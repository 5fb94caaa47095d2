package deadline

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Holiday extension point
// ─────────────────────────────────────────────────────────────────────────────

// HolidayProvider reports whether a calendar date is a public holiday.  The
// default calendar treats no date as a holiday; jurisdiction-specific tables
// plug in through this interface.
type HolidayProvider interface {
	IsHoliday(d time.Time) bool
}

// noHolidays is the weekends-only default.
type noHolidays struct{}

func (noHolidays) IsHoliday(time.Time) bool { return false }

// ─────────────────────────────────────────────────────────────────────────────
// Calendar
// ─────────────────────────────────────────────────────────────────────────────

// Calendar provides pure business-day arithmetic.  Saturday and Sunday are
// never business days; additional non-working dates come from the optional
// HolidayProvider.  All methods are deterministic and perform no I/O.
type Calendar struct {
	holidays HolidayProvider
}

// NewCalendar builds a Calendar.  A nil provider yields the weekends-only
// rule.
func NewCalendar(holidays HolidayProvider) *Calendar {
	if holidays == nil {
		holidays = noHolidays{}
	}
	return &Calendar{holidays: holidays}
}

// IsBusinessDay reports whether d falls on a working day.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays.IsHoliday(d)
}

// AddBusinessDays moves d forward (n > 0) or backward (n < 0) by n business
// days.  AddBusinessDays(d, 0) returns d unchanged, even when d itself is not
// a business day; stepping always lands on a business day.
func (c *Calendar) AddBusinessDays(d time.Time, n int) time.Time {
	if n == 0 {
		return d
	}
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	out := d
	for remaining := n; remaining > 0; {
		out = out.AddDate(0, 0, step)
		if c.IsBusinessDay(out) {
			remaining--
		}
	}
	return out
}

// BusinessDaysBetween returns the signed number of business days from `from`
// to `to`, comparing calendar dates only.  The result is the count of
// business days strictly after `from` up to and including `to`; it is
// negative when `to` precedes `from`.
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	f := truncateToDay(from)
	t := truncateToDay(to)
	if f.Equal(t) {
		return 0
	}

	sign := 1
	if t.Before(f) {
		f, t = t, f
		sign = -1
	}

	days := 0
	for d := f.AddDate(0, 0, 1); !d.After(t); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days++
		}
	}
	return sign * days
}

// truncateToDay normalizes a timestamp to midnight in its own location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
