package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lululau/calgrid/internal/calendar"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calgrid", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WeekStart != "sunday" || cfg.Mode != "month" || cfg.AlignWeekEnd {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config permissions = %o, want 600", perm)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "week_start: monday\nmode: week\nlocale: de-DE\ntimezone: UTC\nalign_week_end: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALGRID_MODE", "month")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if wd, _ := cfg.Weekday(); wd != time.Monday {
		t.Fatalf("week start = %v, want Monday", wd)
	}
	if mode, _ := cfg.CalendarMode(); mode != calendar.ModeMonth {
		t.Fatalf("env should override mode, got %v", mode)
	}
	if !cfg.AlignWeekEnd {
		t.Fatalf("align_week_end from file should be kept")
	}
	if loc, _ := cfg.Location(); loc != time.UTC {
		t.Fatalf("location = %v, want UTC", loc)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"week start", "week_start: someday\n", "first day of week"},
		{"mode", "mode: year\n", "month or week"},
		{"timezone", "timezone: Mars/Olympus\n", "timezone"},
		{"log level", "log_level: loud\n", "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadEnvParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CALGRID_NO_COLOR", "not-a-bool")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		err  bool
	}{
		{"sunday", time.Sunday, false},
		{"Monday", time.Monday, false},
		{"sat", time.Saturday, false},
		{"3", time.Wednesday, false},
		{"7", 0, true},
		{"mo", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("ParseWeekday(%q) error = %v", tt.in, err)
			}
			if !tt.err && got != tt.want {
				t.Fatalf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
