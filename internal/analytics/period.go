package analytics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned for windows other than 7, 30, 90 or 365 days
var ErrInvalidPeriod = errors.New("period must be one of 7, 30, 90, 365")

// Period is a reporting window measured in whole calendar days ending today
type Period int

const (
	Week    Period = 7
	Month   Period = 30
	Quarter Period = 90
	Year    Period = 365
)

// DefaultPeriod is used when the caller does not pick one
const DefaultPeriod = Week

// ParsePeriod accepts "7", "30", "90" or "365". Empty input yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPeriod, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	switch p := Period(n); p {
	case Week, Month, Quarter, Year:
		return p, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, n)
}

// Window returns the first day of the period and the exclusive end (tomorrow),
// both at midnight in now's location
func (p Period) Window(now time.Time) (time.Time, time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dayStart.AddDate(0, 0, -(int(p) - 1)), dayStart.AddDate(0, 0, 1)
}

// Contains reports whether the calendar day of t falls inside the window
func (p Period) Contains(day, now time.Time) bool {
	start, end := p.Window(now)
	d := calendarDay(day, now.Location())
	return !d.Before(start) && d.Before(end)
}

// calendarDay keeps the year, month and day of t and places them at midnight in loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
