package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects between a month grid and a single week.
type Mode int

const (
	ModeMonth Mode = iota
	ModeWeek
)

var (
	// ErrInvalidConfig wraps every construction-time validation failure.
	ErrInvalidConfig = errors.New("invalid calendar config")
	// ErrUnknownMode indicates a mode name or value outside month/week.
	ErrUnknownMode = errors.New("mode must be month or week")
)

func (m Mode) String() string {
	switch m {
	case ModeMonth:
		return "month"
	case ModeWeek:
		return "week"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "month" or "week" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return ModeMonth, nil
	case "week":
		return ModeWeek, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Window is the logical period on screen: an exact month or an exact week.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow spans the month containing t, both bounds at start of day.
func MonthWindow(t time.Time) Window {
	start := StartOfMonth(t)
	return Window{Start: start, End: LastDayOfMonth(start)}
}

// WeekWindow spans the week containing t, from start of day on weekStart to
// end of day on the matching week end.
func WeekWindow(t time.Time, weekStart time.Weekday) Window {
	start := StartOfWeek(t, weekStart)
	return Window{Start: start, End: EndOfWeek(start, WeekEndDay(weekStart))}
}

// AddMonths shifts both bounds by n months without day-of-month overflow.
func (w Window) AddMonths(n int) Window {
	return Window{Start: AddMonthsNoOverflow(w.Start, n), End: AddMonthsNoOverflow(w.End, n)}
}

// AddWeeks shifts both bounds by n weeks.
func (w Window) AddWeeks(n int) Window {
	return Window{Start: w.Start.AddDate(0, 0, 7*n), End: w.End.AddDate(0, 0, 7*n)}
}

// GridWindow is a Window widened to whole weeks.
type GridWindow struct {
	Start time.Time
	End   time.Time
}

// Align widens w outward to the enclosing week boundaries. The result always
// covers w and spans a whole number of weeks.
func Align(w Window, weekStart time.Weekday) GridWindow {
	return GridWindow{
		Start: StartOfWeek(w.Start, weekStart),
		End:   EndOfWeek(w.End, WeekEndDay(weekStart)),
	}
}

// Config holds the construction parameters of a PeriodState. Zero values
// select the documented defaults.
type Config struct {
	// Year, Month and Week default to today's values. Week is read under
	// the locale's numbering and only matters in week mode.
	Year  int
	Month int
	Week  int
	// Anchor, when set, places the period around this date instead of
	// Year/Month/Week.
	Anchor    time.Time
	WeekStart time.Weekday
	Mode      Mode
	// Locale is a BCP 47 tag, "en" when empty.
	Locale   string
	Location *time.Location
	// Now is the clock behind CurrentMonth/CurrentWeek and the defaults.
	Now func() time.Time
}

func (c Config) validate() error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 1..12", ErrInvalidConfig, c.Month)
	}
	if c.Week < 0 || c.Week > 53 {
		return fmt.Errorf("%w: week %d out of range 1..53", ErrInvalidConfig, c.Week)
	}
	if c.WeekStart < time.Sunday || c.WeekStart > time.Saturday {
		return fmt.Errorf("%w: week start %d out of range 0..6", ErrInvalidConfig, int(c.WeekStart))
	}
	if c.Mode != ModeMonth && c.Mode != ModeWeek {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrUnknownMode, int(c.Mode))
	}
	return nil
}

// PeriodState owns the displayed period and is the only thing that moves it.
// Each navigation swaps in a freshly computed Window and re-derives the grid
// window. A PeriodState belongs to a single caller and is not safe for
// concurrent use.
type PeriodState struct {
	window    Window
	grid      GridWindow
	mode      Mode
	weekStart time.Weekday
	locale    Locale
	loc       *time.Location
	now       func() time.Time
}

// New builds a PeriodState from cfg.
func New(cfg Config) (*PeriodState, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	locale, err := ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &PeriodState{
		mode:      cfg.Mode,
		weekStart: cfg.WeekStart,
		locale:    locale,
		loc:       cfg.Location,
		now:       cfg.Now,
	}
	s.set(s.initialWindow(cfg))
	return s, nil
}

func (s *PeriodState) initialWindow(cfg Config) Window {
	if !cfg.Anchor.IsZero() {
		anchor := cfg.Anchor.In(s.loc)
		if s.mode == ModeWeek {
			return WeekWindow(anchor, s.weekStart)
		}
		return MonthWindow(anchor)
	}

	today := s.today()
	year, month := cfg.Year, cfg.Month
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if s.mode == ModeMonth {
		return MonthWindow(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc))
	}

	week := cfg.Week
	if week == 0 {
		if cfg.Year == 0 {
			return WeekWindow(today, s.weekStart)
		}
		_, week = s.locale.Rules().Week(today)
	}
	return WeekWindow(s.locale.Rules().WeekDate(year, week, s.loc), s.weekStart)
}

func (s *PeriodState) today() time.Time {
	return StartOfDay(s.now().In(s.loc))
}

func (s *PeriodState) set(w Window) {
	s.window = w
	s.grid = Align(w, s.weekStart)
}

// PreviousMonth moves both bounds back one month, clamping the day of month.
func (s *PeriodState) PreviousMonth() { s.set(s.window.AddMonths(-1)) }

// NextMonth moves both bounds forward one month, clamping the day of month.
func (s *PeriodState) NextMonth() { s.set(s.window.AddMonths(1)) }

// CurrentMonth resets the period to the month containing today.
func (s *PeriodState) CurrentMonth() { s.set(MonthWindow(s.today())) }

// PreviousWeek moves both bounds back seven days.
func (s *PeriodState) PreviousWeek() { s.set(s.window.AddWeeks(-1)) }

// NextWeek moves both bounds forward seven days.
func (s *PeriodState) NextWeek() { s.set(s.window.AddWeeks(1)) }

// CurrentWeek resets the period to the week containing today. The week
// opens on the configured week start, not the locale's default first day,
// so it lines up with PreviousWeek, NextWeek and the grid.
func (s *PeriodState) CurrentWeek() { s.set(WeekWindow(s.today(), s.weekStart)) }

// Next advances one period in the current mode.
func (s *PeriodState) Next() {
	if s.mode == ModeWeek {
		s.NextWeek()
		return
	}
	s.NextMonth()
}

// Previous steps back one period in the current mode.
func (s *PeriodState) Previous() {
	if s.mode == ModeWeek {
		s.PreviousWeek()
		return
	}
	s.PreviousMonth()
}

// Current resets to the period containing today in the current mode.
func (s *PeriodState) Current() {
	if s.mode == ModeWeek {
		s.CurrentWeek()
		return
	}
	s.CurrentMonth()
}

// ShowMonth replaces the period with the whole month containing t. Unlike
// NextMonth it re-snaps the end to the month's last day.
func (s *PeriodState) ShowMonth(t time.Time) { s.set(MonthWindow(t.In(s.loc))) }

// SetMode switches the display mode. The window is left alone; callers that
// want a period matching the new mode re-anchor with CurrentMonth or
// CurrentWeek.
func (s *PeriodState) SetMode(m Mode) {
	s.mode = m
}

// SetLocale replaces the locale. Like SetMode it does not move the window.
func (s *PeriodState) SetLocale(locale string) error {
	l, err := ParseLocale(locale)
	if err != nil {
		return err
	}
	s.locale = l
	return nil
}

// Window returns the current period.
func (s *PeriodState) Window() Window { return s.window }

// Grid returns the period widened to whole weeks.
func (s *PeriodState) Grid() GridWindow { return s.grid }

// StartsAt is the first day of the period.
func (s *PeriodState) StartsAt() time.Time { return s.window.Start }

// EndsAt is the last day of the period.
func (s *PeriodState) EndsAt() time.Time { return s.window.End }

// GridStartsAt is the first day shown in the grid.
func (s *PeriodState) GridStartsAt() time.Time { return s.grid.Start }

// GridEndsAt is the end of the last day shown in the grid.
func (s *PeriodState) GridEndsAt() time.Time { return s.grid.End }

// WeekStart is the configured first day of the week.
func (s *PeriodState) WeekStart() time.Weekday { return s.weekStart }

// WeekEnd is the day closing a week that opens on WeekStart.
func (s *PeriodState) WeekEnd() time.Weekday { return WeekEndDay(s.weekStart) }

// Mode is the current display mode.
func (s *PeriodState) Mode() Mode { return s.mode }

// Locale is the locale deciding week numbering.
func (s *PeriodState) Locale() Locale { return s.locale }

// Location is the time zone every date is read in.
func (s *PeriodState) Location() *time.Location { return s.loc }

// Today returns the injected clock's current day at start of day.
func (s *PeriodState) Today() time.Time {
	return s.today()
}

// Config reports the parameters that would rebuild this state's settings
// around anchor.
func (s *PeriodState) Config(anchor time.Time) Config {
	return Config{
		Anchor:    anchor,
		WeekStart: s.weekStart,
		Mode:      s.mode,
		Locale:    s.locale.String(),
		Location:  s.loc,
		Now:       s.now,
	}
}
