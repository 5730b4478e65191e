package holidays

import (
	"encoding/json"
)

// Entry is one day of the published holiday data.
type Entry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	After   *bool  `json:"after,omitempty"`
	Target  string `json:"target,omitempty"`
	Rest    *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts "holiday" as either a boolean or a string; some
// published files use a non-empty string for true.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	aux := &struct {
		Holiday any `json:"holiday"`
		*plain
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch v := aux.Holiday.(type) {
	case bool:
		e.Holiday = v
	case string:
		e.Holiday = v != ""
	default:
		e.Holiday = false
	}
	return nil
}

// File is the on-disk layout: one object per year.
type File []struct {
	Year    string            `json:"year"`
	Holiday map[string]*Entry `json:"holiday"`
}

// Table indexes entries by year ("2024") then by "MM-DD".
type Table map[string]map[string]*Entry

// Info is what a calendar cell needs to know about a holiday.
type Info struct {
	// IsHoliday is false for a make-up working day (调休).
	IsHoliday bool
	Name      string
}
