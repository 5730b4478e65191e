package holidays

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CacheMaxAge is how long downloaded data is trusted.
const CacheMaxAge = 180 * 24 * time.Hour

// Parse decodes holiday JSON into a Table.
func Parse(data []byte) (Table, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holidays JSON: %w", err)
	}
	table := make(Table, len(file))
	for _, year := range file {
		table[year.Year] = year.Holiday
	}
	return table, nil
}

// LoadFromFile reads and parses a holiday JSON file.
func LoadFromFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}
	return Parse(data)
}

// CachePath returns the holiday cache location under the user cache dir.
func CachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	return filepath.Join(dir, "calgrid", "holidays.json"), nil
}

// LoadFromCache loads the cached holiday file.
func LoadFromCache() (Table, error) {
	path, err := CachePath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// IsCacheValid reports whether path exists and was written within
// CacheMaxAge of now.
func IsCacheValid(path string, now time.Time) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.ModTime().After(now.Add(-CacheMaxAge)), nil
}

// Lookup returns the holiday information for date, or nil.
func Lookup(table Table, date time.Time) *Info {
	days, ok := table[strconv.Itoa(date.Year())]
	if !ok {
		return nil
	}
	entry, ok := days[date.Format("01-02")]
	if !ok || entry == nil {
		return nil
	}
	return &Info{IsHoliday: entry.Holiday, Name: entry.Name}
}

// Years summarises the years covered by a table.
type Years struct {
	Min   int
	Max   int
	Count int
}

// Span reports the year range of table, ignoring keys that are not years.
func Span(table Table) (Years, bool) {
	var ys Years
	for key := range table {
		y, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if ys.Count == 0 || y < ys.Min {
			ys.Min = y
		}
		if ys.Count == 0 || y > ys.Max {
			ys.Max = y
		}
		ys.Count++
	}
	return ys, ys.Count > 0
}
