// Package civil converts between absolute instants and calendar dates /
// clock times as perceived in the office's fixed timezone. Day-boundary
// math goes through the location so it stays correct across DST
// transitions; adding 24h to an instant does not.
package civil

import (
	"regexp"
	"time"

	"consular-queue/internal/pkg/errs"
)

const (
	DateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	ErrInvalidDate      = errs.New("invalid calendar date, expected YYYY-MM-DD")
	ErrInvalidTimeOfDay = errs.New("invalid time of day, expected HH:MM (24h)")

	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type Zone struct {
	loc *time.Location
}

func NewZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, errs.Wrap(err, "unknown timezone "+name)
	}
	return Zone{loc: loc}, nil
}

func MustZone(name string) Zone {
	z, err := NewZone(name)
	if err != nil {
		panic(err)
	}
	return z
}

func (z Zone) Location() *time.Location {
	return z.loc
}

// Date formats an instant as the calendar date it falls on in the zone.
func (z Zone) Date(t time.Time) string {
	return t.In(z.loc).Format(DateLayout)
}

// TimeOfDay formats an instant as its wall-clock time in the zone.
func (z Zone) TimeOfDay(t time.Time) string {
	return t.In(z.loc).Format(timeLayout)
}

// DayBounds returns the half-open interval [start, end) covering the
// civil day: end is the first instant of the following day.
func (z Zone) DayBounds(date string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, z.loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, z.loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

// Combine resolves a calendar date plus a wall-clock time to an instant.
func (z Zone) Combine(date, timeOfDay string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, z.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if !ValidTimeOfDay(timeOfDay) {
		return time.Time{}, ErrInvalidTimeOfDay
	}
	tod, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		return time.Time{}, ErrInvalidTimeOfDay
	}
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, z.loc), nil
}

// Weekday reports the weekday of a calendar date in the zone.
func (z Zone) Weekday(date string) (time.Weekday, error) {
	d, err := time.ParseInLocation(DateLayout, date, z.loc)
	if err != nil {
		return time.Sunday, ErrInvalidDate
	}
	return d.Weekday(), nil
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}
