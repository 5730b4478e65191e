package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"month", Config{Month: 13}, ErrInvalidConfig},
		{"week", Config{Week: 54}, ErrInvalidConfig},
		{"week start", Config{WeekStart: 7}, ErrInvalidConfig},
		{"mode", Config{Mode: Mode(9)}, ErrUnknownMode},
		{"locale", Config{Locale: "not a locale!"}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, tt.want) {
				t.Fatalf("New(%+v) error = %v, want %v", tt.cfg, err, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeMonth, "month": ModeMonth, "WEEK": ModeWeek} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("year"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("ParseMode(year) error = %v", err)
	}
}

func TestMonthNavigation(t *testing.T) {
	s := newTestState(t, Config{Year: 2024, Month: 2})
	before := s.Window()

	s.NextMonth()
	if DayKey(s.StartsAt()) != "2024-03-01" || DayKey(s.EndsAt()) != "2024-03-29" {
		t.Fatalf("NextMonth window %v..%v", s.StartsAt(), s.EndsAt())
	}
	if DayKey(before.Start) != "2024-02-01" {
		t.Fatalf("earlier window value changed to %v", before.Start)
	}

	s.PreviousMonth()
	if s.Window() != before {
		t.Fatalf("round trip gave %v, want %v", s.Window(), before)
	}
	if _, err := s.MonthGrid(); err != nil {
		t.Fatalf("grid after navigation: %v", err)
	}
}

func TestNextMonthClampsDayOfMonth(t *testing.T) {
	s := newTestState(t, Config{Year: 2024, Month: 1})
	s.NextMonth()
	if DayKey(s.StartsAt()) != "2024-02-01" || DayKey(s.EndsAt()) != "2024-02-29" {
		t.Fatalf("window %v..%v", s.StartsAt(), s.EndsAt())
	}
	if got := AddMonthsNoOverflow(day(2023, 1, 31), 1); DayKey(got) != "2023-02-28" {
		t.Fatalf("AddMonthsNoOverflow = %v", got)
	}
	if got := AddMonthsNoOverflow(day(2024, 3, 31), -1); DayKey(got) != "2024-02-29" {
		t.Fatalf("AddMonthsNoOverflow backwards = %v", got)
	}
}

func TestMonthRoundTripFromDay31(t *testing.T) {
	s := newTestState(t, Config{Year: 2024, Month: 1})
	s.NextMonth()
	s.PreviousMonth()
	if DayKey(s.StartsAt()) != "2024-01-01" || DayKey(s.EndsAt()) != "2024-01-29" {
		t.Fatalf("round trip window %v..%v, want 2024-01-01..2024-01-29", s.StartsAt(), s.EndsAt())
	}
	if _, err := s.MonthGrid(); err != nil {
		t.Fatalf("grid after clamped round trip: %v", err)
	}
}

func TestShowMonthSnapsToWholeMonth(t *testing.T) {
	s := newTestState(t, Config{Year: 2024, Month: 1})
	s.NextMonth()
	s.NextMonth()
	if DayKey(s.EndsAt()) != "2024-03-29" {
		t.Fatalf("NextMonth end = %v", s.EndsAt())
	}
	s.ShowMonth(s.StartsAt())
	if DayKey(s.StartsAt()) != "2024-03-01" || DayKey(s.EndsAt()) != "2024-03-31" {
		t.Fatalf("ShowMonth window %v..%v", s.StartsAt(), s.EndsAt())
	}
	if DayKey(s.GridEndsAt()) != "2024-04-06" {
		t.Fatalf("grid end = %v", s.GridEndsAt())
	}
}

func TestCurrentMonthIsIdempotent(t *testing.T) {
	s := newTestState(t, Config{Year: 2020, Month: 7})
	s.CurrentMonth()
	first := s.Window()
	s.CurrentMonth()
	if s.Window() != first {
		t.Fatalf("CurrentMonth moved from %v to %v", first, s.Window())
	}
	if DayKey(first.Start) != "2024-06-01" || DayKey(first.End) != "2024-06-30" {
		t.Fatalf("CurrentMonth = %v..%v", first.Start, first.End)
	}
}

func TestWeekNavigation(t *testing.T) {
	s := newTestState(t, Config{Mode: ModeWeek, WeekStart: time.Monday})
	if DayKey(s.StartsAt()) != "2024-06-10" || DayKey(s.EndsAt()) != "2024-06-16" {
		t.Fatalf("default week %v..%v", s.StartsAt(), s.EndsAt())
	}
	if !s.EndsAt().Equal(EndOfDay(day(2024, 6, 16))) {
		t.Fatalf("week should end at end of day, got %v", s.EndsAt())
	}

	s.NextWeek()
	if DayKey(s.StartsAt()) != "2024-06-17" {
		t.Fatalf("NextWeek start %v", s.StartsAt())
	}
	s.PreviousWeek()
	s.PreviousWeek()
	if DayKey(s.StartsAt()) != "2024-06-03" {
		t.Fatalf("PreviousWeek start %v", s.StartsAt())
	}
	s.CurrentWeek()
	if DayKey(s.StartsAt()) != "2024-06-10" {
		t.Fatalf("CurrentWeek start %v", s.StartsAt())
	}
	if s.GridStartsAt() != s.StartsAt() || !s.GridEndsAt().Equal(s.EndsAt()) {
		t.Fatalf("week grid window should equal the week")
	}
}

func TestModeDispatch(t *testing.T) {
	s := newTestState(t, Config{Year: 2024, Month: 2})
	s.Next()
	if s.StartsAt().Month() != time.March {
		t.Fatalf("Next in month mode moved to %v", s.StartsAt())
	}

	s.SetMode(ModeWeek)
	if s.StartsAt().Month() != time.March {
		t.Fatalf("SetMode must not move the window")
	}
	s.Current()
	if DayKey(s.StartsAt()) != "2024-06-09" {
		t.Fatalf("Current in week mode = %v", s.StartsAt())
	}
	s.Previous()
	if DayKey(s.StartsAt()) != "2024-06-02" {
		t.Fatalf("Previous in week mode = %v", s.StartsAt())
	}
}

func TestWeekAnchor(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantStart string
	}{
		{"iso week one", Config{Mode: ModeWeek, Year: 2021, Week: 1, Locale: "de-DE", WeekStart: time.Monday}, "2021-01-04"},
		{"us week one", Config{Mode: ModeWeek, Year: 2021, Week: 1, Locale: "en", WeekStart: time.Sunday}, "2020-12-27"},
		{"anchor date", Config{Mode: ModeWeek, Anchor: day(2024, 6, 15)}, "2024-06-09"},
		{"anchor wins over year", Config{Mode: ModeWeek, Year: 1999, Week: 3, Anchor: day(2024, 6, 15)}, "2024-06-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t, tt.cfg)
			if got := DayKey(s.StartsAt()); got != tt.wantStart {
				t.Fatalf("start = %s, want %s", got, tt.wantStart)
			}
		})
	}
}

func TestConfigRebuildsAroundAnchor(t *testing.T) {
	s := newTestState(t, Config{Mode: ModeWeek, WeekStart: time.Wednesday, Locale: "de-DE"})
	rebuilt, err := New(s.Config(day(2023, 10, 5)))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if rebuilt.Mode() != ModeWeek || rebuilt.WeekStart() != time.Wednesday || rebuilt.Locale().String() != "de-DE" {
		t.Fatalf("settings not carried over: %v %v %v", rebuilt.Mode(), rebuilt.WeekStart(), rebuilt.Locale())
	}
	if DayKey(rebuilt.StartsAt()) != "2023-10-04" {
		t.Fatalf("start = %v", rebuilt.StartsAt())
	}
	if !rebuilt.Today().Equal(s.Today()) {
		t.Fatalf("clock not carried over")
	}
}
