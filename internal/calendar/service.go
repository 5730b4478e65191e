package calendar

import (
	"fmt"
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"

	"github.com/lululau/calgrid/internal/holidays"
)

// Gregorian year range supported by the lunar calendar library. Days outside
// it are still rendered, just without lunar labels.
const (
	MinLunarYear = 1900
	MaxLunarYear = 3000
)

// Day is one rendered cell: a date plus everything shown with it.
type Day struct {
	Date            time.Time
	InPeriod        bool
	IsToday         bool
	LunarDayAlias   string
	LunarMonthAlias string
	SolarTerm       string
	HolidayInfo     *holidays.Info
	Events          []Event
	hasLunarData    bool
}

// SecondaryLabel selects the string rendered beneath the Gregorian date.
// Solar terms win, then the lunar month name on the first day of a lunar
// month, then the lunar day.
func (d Day) SecondaryLabel() string {
	if d.SolarTerm != "" {
		return d.SolarTerm
	}
	if d.LunarDayAlias == "初一" && d.LunarMonthAlias != "" {
		return d.LunarMonthAlias
	}
	return d.LunarDayAlias
}

// HasLunarData reports whether lunar metadata was calculated.
func (d Day) HasLunarData() bool {
	return d.hasLunarData
}

// View is a period laid out for rendering. Month views hold every week of
// the grid; week views hold exactly one.
type View struct {
	Mode      Mode
	Title     string
	WeekStart time.Weekday
	Period    Window
	Weeks     [][]Day
}

// Service decorates PeriodState grids with lunar, holiday and event data.
type Service struct {
	holidayData       holidays.Table
	events            []Event
	configuredWeekEnd bool
}

// Option configures the Service.
type Option func(*Service)

// WithHolidays sets the holiday table consulted for each day.
func WithHolidays(data holidays.Table) Option {
	return func(s *Service) {
		s.holidayData = data
	}
}

// WithEvents sets the events bucketed into each day.
func WithEvents(events []Event) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithConfiguredWeekEnd closes week views on the configured week end rather
// than the locale default, so any week start works in week mode.
func WithConfiguredWeekEnd() Option {
	return func(s *Service) {
		s.configuredWeekEnd = true
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEvents replaces the events, e.g. after the source file changed.
func (s *Service) SetEvents(events []Event) {
	s.events = events
}

// HasHolidayData reports whether a holiday table is loaded.
func (s *Service) HasHolidayData() bool {
	return len(s.holidayData) > 0
}

// View lays out the state's current period. Grid configuration errors are
// returned unchanged.
func (s *Service) View(state *PeriodState) (View, error) {
	var weeks [][]time.Time
	if state.Mode() == ModeWeek {
		days, err := s.weekGrid(state)
		if err != nil {
			return View{}, err
		}
		weeks = [][]time.Time{days}
	} else {
		grid, err := state.MonthGrid()
		if err != nil {
			return View{}, err
		}
		weeks = grid
	}

	window := state.Window()
	today := state.Today()
	view := View{
		Mode:      state.Mode(),
		Title:     title(state),
		WeekStart: state.WeekStart(),
		Period:    window,
		Weeks:     make([][]Day, len(weeks)),
	}
	for i, week := range weeks {
		row := make([]Day, len(week))
		for j, date := range week {
			row[j] = s.buildDay(date, window, today)
		}
		view.Weeks[i] = row
	}
	return view, nil
}

func (s *Service) weekGrid(state *PeriodState) ([]time.Time, error) {
	if s.configuredWeekEnd {
		return WeekGrid(state.Grid(), state.WeekStart(), state.WeekEnd())
	}
	return state.WeekGrid()
}

func title(state *PeriodState) string {
	start := state.StartsAt()
	if state.Mode() == ModeWeek {
		year, week := state.Locale().Rules().Week(start)
		return fmt.Sprintf("%d 年第 %d 周  %s ~ %s", year, week, start.Format("01-02"), state.EndsAt().Format("01-02"))
	}
	return fmt.Sprintf("%d 年 %d 月", start.Year(), int(start.Month()))
}

func (s *Service) buildDay(date time.Time, window Window, today time.Time) Day {
	d := Day{
		Date:     date,
		InPeriod: calendarDays(window.Start, date) >= 0 && calendarDays(date, window.End) >= 0,
		IsToday:  SameDay(date, today),
		Events:   EventsForDay(date, s.events),
	}
	if s.holidayData != nil {
		d.HolidayInfo = holidays.Lookup(s.holidayData, date)
	}
	if date.Year() < MinLunarYear || date.Year() > MaxLunarYear {
		return d
	}

	cal := calendarlib.BySolar(
		int64(date.Year()),
		int64(date.Month()),
		int64(date.Day()),
		12, 0, 0,
	)
	d.LunarDayAlias = cal.Lunar.DayAlias()
	d.LunarMonthAlias = cal.Lunar.MonthAlias()
	d.hasLunarData = true
	if term := cal.Solar.CurrentSolarterm; term != nil && term.IsInDay(&date) {
		d.SolarTerm = term.Alias()
	}
	return d
}
