package calendar

import "time"

// Dated is anything placed on a calendar day.
type Dated interface {
	EventDate() time.Time
}

// Event is a caller-supplied calendar entry. The calendar never mutates it.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Date        time.Time
	AllDay      bool
}

// EventDate implements Dated.
func (e Event) EventDate() time.Time {
	return e.Date
}

// EventsForDay keeps the events that fall on day's calendar date, ignoring
// the time of day. Order is preserved and the input is left untouched.
func EventsForDay[E Dated](day time.Time, events []E) []E {
	out := make([]E, 0)
	for _, ev := range events {
		if SameDay(ev.EventDate(), day) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsByDay groups events under their DayKey, preserving order within each
// day.
func EventsByDay[E Dated](events []E) map[string][]E {
	out := make(map[string][]E)
	for _, ev := range events {
		key := DayKey(ev.EventDate())
		out[key] = append(out[key], ev)
	}
	return out
}
