package calendar

import (
	"fmt"
	"time"
)

// ConfigurationError reports grid geometry that is not made of whole weeks.
// It points at inconsistent week-start settings or a corrupted window, never
// at a transient condition.
type ConfigurationError struct {
	Reason string
	Days   int
	Weeks  int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("calendar not correctly configured: %s (days=%d, weeks=%d)", e.Reason, e.Days, e.Weeks)
}

// MonthGrid lists every day of g in rows of seven. g must already be aligned
// to week boundaries.
func MonthGrid(g GridWindow) ([][]time.Time, error) {
	days := daySpan(g.Start, g.End)
	weeks := (days + 6) / 7
	if days <= 0 {
		return nil, &ConfigurationError{Reason: "grid ends before it starts", Days: days}
	}
	if days%7 != 0 {
		return nil, &ConfigurationError{Reason: "grid does not span whole weeks", Days: days, Weeks: weeks}
	}

	rows := chunk(enumerate(g.Start, g.End), 7)
	if len(rows) != weeks {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("calculated %d weeks, enumerated %d", weeks, len(rows)),
			Days:   days,
			Weeks:  weeks,
		}
	}
	return rows, nil
}

// WeekGrid lists the seven days of the week starting at g.Start. The start is
// re-aligned to weekStart and the end to weekEnd; the two are passed apart
// because PeriodState closes the week on the locale's default week end.
func WeekGrid(g GridWindow, weekStart, weekEnd time.Weekday) ([]time.Time, error) {
	first := StartOfWeek(g.Start, weekStart)
	last := EndOfWeek(g.End, weekEnd)

	days := calendarDays(first, last) + 1
	if days != 7 {
		return nil, &ConfigurationError{Reason: "week grid must span exactly 7 days", Days: days, Weeks: 1}
	}
	return enumerate(first, last), nil
}

// MonthGrid materialises the current grid window as weeks of seven days.
func (s *PeriodState) MonthGrid() ([][]time.Time, error) {
	return MonthGrid(s.grid)
}

// WeekGrid materialises the seven days of the current week. The end is
// aligned with the locale's default week end, not WeekEnd; a week start that
// disagrees with the locale yields a ConfigurationError.
func (s *PeriodState) WeekGrid() ([]time.Time, error) {
	return WeekGrid(s.grid, s.weekStart, s.locale.DefaultWeekEnd())
}

// enumerate returns each start of day from first through last inclusive.
func enumerate(first, last time.Time) []time.Time {
	out := make([]time.Time, 0, max(calendarDays(first, last)+1, 0))
	for d := StartOfDay(first); !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func chunk(days []time.Time, size int) [][]time.Time {
	rows := make([][]time.Time, 0, (len(days)+size-1)/size)
	for len(days) > 0 {
		n := min(size, len(days))
		rows = append(rows, days[:n:n])
		days = days[n:]
	}
	return rows
}
