package models

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for appointment dates and times.
var (
	dateLayouts = []string{"2006-01-02", "02/01/2006"}
	timeLayouts = []string{"03:04 PM", "3:04 PM", "15:04"}
)

// ParseSchedule combines an appointment date and time into an instant in loc.
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := parseFirst(dateLayouts, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	t, err := parseFirst(timeLayouts, strings.ToUpper(strings.TrimSpace(clock)), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func parseFirst(layouts []string, value string, loc *time.Location) (time.Time, error) {
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// FormatDate renders a date like "Tuesday, November 19, 2024".
// Unparseable input is returned unchanged.
func FormatDate(date string) string {
	d, err := parseFirst(dateLayouts, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

// FormatTime renders a clock in any accepted layout as "3:04 PM".
// Unparseable input is returned unchanged.
func FormatTime(clock string) string {
	t, err := parseFirst(timeLayouts, strings.ToUpper(strings.TrimSpace(clock)), time.UTC)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// CountdownLabel describes how long until start.
func CountdownLabel(now, start time.Time) string {
	diff := start.Sub(now)
	if diff <= 0 {
		return "Appointment time has passed"
	}

	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)

	if hours > 24 {
		days := hours / 24
		if days > 1 {
			return fmt.Sprintf("%d days remaining", days)
		}
		return fmt.Sprintf("%d day remaining", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm remaining", hours, minutes)
	}
	return fmt.Sprintf("%d minutes remaining", minutes)
}

// JoinWindowOpen reports whether a consultation starting at start and lasting
// duration can be joined at now, allowing lead time before the start.
func JoinWindowOpen(now, start time.Time, duration, lead time.Duration) bool {
	return !now.Before(start.Add(-lead)) && now.Before(start.Add(duration))
}
