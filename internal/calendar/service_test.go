package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lululau/calgrid/internal/holidays"
)

func TestMonthViewGeneratesCompleteWeeks(t *testing.T) {
	s := newTestState(t, Config{
		Year:  2024,
		Month: 2,
		Now:   func() time.Time { return time.Date(2024, 2, 18, 10, 0, 0, 0, time.UTC) },
	})
	svc := NewService(WithEvents([]Event{
		{Title: "Standup", Date: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)},
		{Title: "Dinner", Date: time.Date(2024, 2, 10, 23, 0, 0, 0, time.UTC)},
		{Title: "Brunch", Date: time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)},
	}))
	view, err := svc.View(s)
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if view.Title != "2024 年 2 月" {
		t.Fatalf("title = %q", view.Title)
	}
	if len(view.Weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(view.Weeks))
	}

	foundToday := false
	inPeriod := 0
	for _, week := range view.Weeks {
		if len(week) != 7 {
			t.Fatalf("week should have 7 days, got %d", len(week))
		}
		for _, d := range week {
			if d.InPeriod {
				inPeriod++
			}
			if d.IsToday {
				foundToday = true
				if d.Date.Day() != 18 {
					t.Fatalf("expected IsToday on 18th, got %d", d.Date.Day())
				}
			}
			if !d.HasLunarData() || d.SecondaryLabel() == "" {
				t.Fatalf("%s has no lunar label", DayKey(d.Date))
			}
			switch DayKey(d.Date) {
			case "2024-02-10":
				if len(d.Events) != 2 {
					t.Fatalf("expected 2 events on the 10th, got %d", len(d.Events))
				}
				if d.LunarDayAlias != "初一" {
					t.Fatalf("lunar new year alias = %q", d.LunarDayAlias)
				}
			case "2024-02-11":
				if len(d.Events) != 1 {
					t.Fatalf("expected 1 event on the 11th, got %d", len(d.Events))
				}
			}
		}
	}
	if !foundToday {
		t.Fatalf("expected to flag current day")
	}
	if inPeriod != 29 {
		t.Fatalf("expected 29 in-period days, got %d", inPeriod)
	}
}

func TestWeekViewHonoursWeekEndOption(t *testing.T) {
	s := newTestState(t, Config{Mode: ModeWeek, Anchor: day(2024, 6, 15), WeekStart: time.Monday, Locale: "en"})

	_, err := NewService().View(s)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError without the option, got %v", err)
	}

	view, err := NewService(WithConfiguredWeekEnd()).View(s)
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if len(view.Weeks) != 1 || len(view.Weeks[0]) != 7 {
		t.Fatalf("unexpected week view shape")
	}
	if DayKey(view.Weeks[0][0].Date) != "2024-06-10" || DayKey(view.Weeks[0][6].Date) != "2024-06-16" {
		t.Fatalf("week %v..%v", view.Weeks[0][0].Date, view.Weeks[0][6].Date)
	}
	if !strings.Contains(view.Title, "06-10 ~ 06-16") {
		t.Fatalf("title = %q", view.Title)
	}
	for _, d := range view.Weeks[0] {
		if !d.InPeriod {
			t.Fatalf("%s should be in period", DayKey(d.Date))
		}
	}
}

func TestViewAttachesHolidays(t *testing.T) {
	table, err := holidays.Parse([]byte(`[{"year": "2024", "holiday": {
		"02-10": {"holiday": true, "name": "春节", "date": "2024-02-10"},
		"02-18": {"holiday": false, "name": "春节后补班", "date": "2024-02-18"}
	}}]`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	svc := NewService(WithHolidays(table))
	if !svc.HasHolidayData() {
		t.Fatalf("expected holiday data")
	}
	view, err := svc.View(newTestState(t, Config{Year: 2024, Month: 2}))
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	for _, week := range view.Weeks {
		for _, d := range week {
			switch DayKey(d.Date) {
			case "2024-02-10":
				if d.HolidayInfo == nil || !d.HolidayInfo.IsHoliday {
					t.Fatalf("expected holiday on 02-10, got %+v", d.HolidayInfo)
				}
			case "2024-02-18":
				if d.HolidayInfo == nil || d.HolidayInfo.IsHoliday {
					t.Fatalf("expected make-up workday on 02-18, got %+v", d.HolidayInfo)
				}
			case "2024-02-12":
				if d.HolidayInfo != nil {
					t.Fatalf("unexpected holiday info on 02-12")
				}
			}
		}
	}
}
