package calendar

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// WeekRules describes how a locale numbers the weeks of a year.
type WeekRules struct {
	// FirstDay opens every week.
	FirstDay time.Weekday
	// MinDays is how many days of January the first week must contain.
	MinDays int
}

var (
	isoWeekRules = WeekRules{FirstDay: time.Monday, MinDays: 4}
	usWeekRules  = WeekRules{FirstDay: time.Sunday, MinDays: 1}
)

// Territories whose weeks open on Sunday (CLDR weekData).
var sundayFirstRegions = map[string]bool{
	"AG": true, "AS": true, "BD": true, "BR": true, "BS": true, "BT": true,
	"BW": true, "BZ": true, "CA": true, "CN": true, "CO": true, "DM": true,
	"DO": true, "ET": true, "GT": true, "GU": true, "HK": true, "HN": true,
	"ID": true, "IL": true, "IN": true, "JM": true, "JP": true, "KE": true,
	"KH": true, "KR": true, "LA": true, "MH": true, "MM": true, "MO": true,
	"MT": true, "MX": true, "MZ": true, "NI": true, "NP": true, "PA": true,
	"PE": true, "PH": true, "PK": true, "PR": true, "PT": true, "PY": true,
	"SA": true, "SG": true, "SV": true, "TH": true, "TT": true, "TW": true,
	"UM": true, "US": true, "VE": true, "VI": true, "WS": true, "YE": true,
	"ZA": true, "ZW": true,
}

// Locale pairs a BCP 47 tag with the week numbering of its region.
type Locale struct {
	tag   language.Tag
	rules WeekRules
}

// ParseLocale resolves tags such as "en", "de-DE" or "zh_CN". Tags without a
// region use the most likely one ("en" is read as en-US).
func ParseLocale(s string) (Locale, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		s = DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, fmt.Errorf("%w: locale %q: %v", ErrInvalidConfig, s, err)
	}
	region, _ := tag.Region()
	rules := isoWeekRules
	if sundayFirstRegions[region.String()] {
		rules = usWeekRules
	}
	return Locale{tag: tag, rules: rules}, nil
}

// String returns the canonical tag.
func (l Locale) String() string {
	return l.tag.String()
}

// Tag exposes the underlying language tag.
func (l Locale) Tag() language.Tag {
	return l.tag
}

// Rules returns the locale's week numbering rules.
func (l Locale) Rules() WeekRules {
	return l.rules
}

// DefaultWeekEnd is the weekday that closes a week under the locale's own
// convention, independent of any configured week start.
func (l Locale) DefaultWeekEnd() time.Weekday {
	return WeekEndDay(l.rules.FirstDay)
}

// firstWeekStart returns the first day of week 1 of year.
func (r WeekRules) firstWeekStart(year int, loc *time.Location) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	start := StartOfWeek(jan1, r.FirstDay)
	if 7-calendarDays(start, jan1) < r.MinDays {
		start = start.AddDate(0, 0, 7)
	}
	return start
}

// Week returns the week-numbering year and week of t.
func (r WeekRules) Week(t time.Time) (year, week int) {
	year = t.Year()
	if next := r.firstWeekStart(year+1, t.Location()); !StartOfDay(t).Before(next) {
		return year + 1, 1
	}
	first := r.firstWeekStart(year, t.Location())
	if StartOfDay(t).Before(first) {
		year--
		first = r.firstWeekStart(year, t.Location())
	}
	return year, calendarDays(first, t)/7 + 1
}

// WeekDate returns the opening day of the given week. Weeks past the end of
// the year roll into the next one.
func (r WeekRules) WeekDate(year, week int, loc *time.Location) time.Time {
	return r.firstWeekStart(year, loc).AddDate(0, 0, 7*(week-1))
}
