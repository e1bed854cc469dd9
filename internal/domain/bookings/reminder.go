package bookings

import (
	"fmt"
	"strings"
	"time"
)

// ReminderMarker is written into the notes column once the pre-arrival
// email went out. Other tools search for it, so the token must not change.
const ReminderMarker = "pre-arrival-sent"

const DateLayout = "2006-01-02"

func HasReminderMarker(notes string) bool {
	return strings.Contains(strings.ToLower(notes), ReminderMarker)
}

func AppendReminderMarker(notes string, at time.Time) string {
	marker := fmt.Sprintf("%s: %s", ReminderMarker, timestamp(at))
	if strings.TrimSpace(notes) == "" {
		return marker
	}
	return notes + " | " + marker
}

var zonedLayouts = []string{
	time.RFC3339,
}

var calendarLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, January 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseCheckIn reads the check-in cell and returns midnight of that calendar
// day in loc. Timestamps carrying an offset are converted to loc first.
func ParseCheckIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidCheckIn
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t, loc), nil
		}
	}

	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCheckIn, s)
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// TargetDate is the calendar day `days` after now, at midnight in loc.
func TargetDate(now time.Time, days int, loc *time.Location) time.Time {
	return StartOfDay(now, loc).AddDate(0, 0, days)
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
