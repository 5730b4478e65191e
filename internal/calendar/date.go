package calendar

import "time"

const oneDay = 24 * time.Hour

// WeekEndDay returns the weekday that closes a week opening on start.
func WeekEndDay(start time.Weekday) time.Weekday {
	if start == time.Sunday {
		return time.Saturday
	}
	return (start + 6) % 7
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay moves t to the last nanosecond of its calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-1), t.Location())
}

// StartOfWeek rewinds t to the most recent weekStart (t itself if it already
// falls on it), at start of day.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -back)
}

// EndOfWeek advances t to the next weekEnd (t itself if it already falls on
// it), at end of day.
func EndOfWeek(t time.Time, weekEnd time.Weekday) time.Time {
	ahead := (int(weekEnd) - int(t.Weekday()) + 7) % 7
	return EndOfDay(StartOfDay(t).AddDate(0, 0, ahead))
}

// StartOfMonth returns the first day of t's month at start of day.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// LastDayOfMonth returns the last day of t's month at start of day.
func LastDayOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, DaysInMonth(y, m), 0, 0, 0, 0, t.Location())
}

// DaysInMonth reports how many days month m of year y has.
func DaysInMonth(y int, m time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsNoOverflow shifts t by n calendar months, clamping the day of
// month to the target month's length instead of rolling over. Jan 31 plus one
// month is the last day of February. The clock is kept.
func AddMonthsNoOverflow(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := first.Date()
	if last := DaysInMonth(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// SameDay reports whether a and b fall on the same calendar day, each read in
// its own location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayKey formats t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// calendarDays counts midnights crossed going from a's date to b's date.
// Negative when b is before a.
func calendarDays(a, b time.Time) int {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / oneDay)
}

// daySpan is the ceiling of the number of days between a and b: whole
// calendar days, plus one if b's clock runs past a's.
func daySpan(a, b time.Time) int {
	n := calendarDays(a, b)
	if clockOf(b) > clockOf(a) {
		n++
	}
	return n
}

func clockOf(t time.Time) time.Duration {
	hh, mm, ss := t.Clock()
	return time.Duration(hh)*time.Hour +
		time.Duration(mm)*time.Minute +
		time.Duration(ss)*time.Second +
		time.Duration(t.Nanosecond())
}
