package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for segment dates, statistics keys
// and the streak's last active date.
const DateLayout = "2006-01-02"

// Calendar dates are handled as UTC midnights ("civil" dates) so that date
// arithmetic never crosses a DST transition. Instants are converted to a civil
// date in the configured location with Civil, and back with DayStart.

// Civil returns the calendar date of t in loc as a UTC midnight.
func Civil(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

// DateOf formats the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a 2006-01-02 date into a civil date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// DayStart returns the first instant of the civil date in loc.
func DayStart(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the half-open range [start, end) covering date in loc.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return DayStart(d, loc), DayStart(NextDay(d), loc), nil
}

// NextDay returns the civil date after date.
func NextDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}

// DatesBetween lists civil dates from..to inclusive as strings.
func DatesBetween(from, to time.Time) []string {
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// DaysBetween returns b - a in whole calendar days.
func DaysBetween(a, b string) (int, error) {
	da, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	db, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(db.Sub(da).Hours() / 24), nil
}

// WeekStartDate returns the civil date beginning the week that contains date.
func WeekStartDate(date time.Time, weekStart time.Weekday) time.Time {
	offset := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return date.AddDate(0, 0, -offset)
}

// WeekDates returns the seven dates of the week containing date.
func WeekDates(date time.Time, weekStart time.Weekday) []string {
	start := WeekStartDate(date, weekStart)
	return DatesBetween(start, start.AddDate(0, 0, 6))
}

// MonthDates returns every date of the given month.
func MonthDates(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DatesBetween(first, first.AddDate(0, 1, -1))
}

// ParseWeekday accepts "monday"/"sunday" as stored in settings, and "0"/"1".
func ParseWeekday(s string) (time.Weekday, error) {
	switch s {
	case "sunday", "Sunday", "0":
		return time.Sunday, nil
	case "monday", "Monday", "1":
		return time.Monday, nil
	}
	return time.Monday, fmt.Errorf("%w: week start %q", ErrInvalidInput, s)
}

func FormatWeekday(d time.Weekday) string {
	if d == time.Sunday {
		return "sunday"
	}
	return "monday"
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseWhen reads a user-entered instant in loc. A bare "15:04" is taken on
// the current day; an empty string yields the zero time.
func ParseWhen(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time %q: use HH:MM, \"YYYY-MM-DD HH:MM\" or RFC3339", ErrInvalidInput, s)
}
