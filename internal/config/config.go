package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lululau/calgrid/internal/calendar"
	appLog "github.com/lululau/calgrid/internal/log"
)

// Config is the persisted application configuration. Values are read from
// the YAML file first, then overridden by CALGRID_* environment variables.
type Config struct {
	// WeekStart names the first day of the week ("sunday", "mon", "1", ...).
	WeekStart string `yaml:"week_start" env:"CALGRID_WEEK_START"`
	// Mode is the initial view: "month" or "week".
	Mode string `yaml:"mode" env:"CALGRID_MODE"`
	// Locale is a BCP 47 tag deciding week numbering, e.g. "en" or "de-DE".
	Locale string `yaml:"locale" env:"CALGRID_LOCALE"`
	// Timezone is an IANA zone name; empty or "Local" uses the system zone.
	Timezone string `yaml:"timezone" env:"CALGRID_TIMEZONE"`
	// AlignWeekEnd closes week views on the configured week end instead of
	// the locale's default one. Off by default: a week start that disagrees
	// with the locale then fails to render in week mode.
	AlignWeekEnd bool `yaml:"align_week_end" env:"CALGRID_ALIGN_WEEK_END"`
	// EventsFile is an optional .ics, .yaml or .json file of events.
	EventsFile string `yaml:"events_file" env:"CALGRID_EVENTS_FILE"`
	// HolidaysFile overrides the cached holiday data.
	HolidaysFile string `yaml:"holidays_file" env:"CALGRID_HOLIDAYS_FILE"`
	NoColor      bool   `yaml:"no_color" env:"CALGRID_NO_COLOR"`
	LogLevel     string `yaml:"log_level" env:"CALGRID_LOG_LEVEL"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		WeekStart:    "sunday",
		Mode:         "month",
		Locale:       calendar.DefaultLocale,
		Timezone:     "Local",
		LogLevel:     "info",
	}
}

// Normalize fills empty fields with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.WeekStart == "" {
		c.WeekStart = def.WeekStart
	}
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks every field that is interpreted later.
func (c *Config) Validate() error {
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := c.CalendarMode(); err != nil {
		return err
	}
	if _, err := calendar.ParseLocale(c.Locale); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Weekday parses WeekStart.
func (c *Config) Weekday() (time.Weekday, error) {
	return ParseWeekday(c.WeekStart)
}

// CalendarMode parses Mode.
func (c *Config) CalendarMode() (calendar.Mode, error) {
	return calendar.ParseMode(c.Mode)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English names, their three-letter prefixes, or
// the digits 0 (Sunday) through 6 (Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("week start %d out of range 0..6", n)
		}
		return time.Weekday(n), nil
	}
	if wd, ok := weekdaysByName[s]; ok {
		return wd, nil
	}
	if len(s) == 3 {
		for name, wd := range weekdaysByName {
			if strings.HasPrefix(name, s) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid first day of week %q", s)
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "calgrid", "config.yaml"), nil
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
//
// On first run the file does not exist: a default config is written there
// (0600) and used. Failing to write it is logged, not fatal.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			appLog.Error("failed to write default config", err, "path", path)
		}
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions, creating the
// parent directory (0700) when needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
