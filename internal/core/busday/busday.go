// Package busday models calendar days in the fixed business timezone.
//
// A Day carries no wall-clock or location information. The only way to turn an
// instant into a Day is Clock.DayOf, so the instant-to-local-day conversion
// happens exactly once per call chain; downstream code passes Day values around
// and cannot accidentally shift a timestamp by the zone offset a second time.
package busday

import (
	"fmt"
	"strings"
	"time"

	"restock/internal/core/apperror"
)

// Day is a calendar date in the business timezone.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// NewDay builds a Day from its components, normalizing overflow
// (e.g. Jan 32 becomes Feb 1).
func NewDay(year int, month time.Month, date int) Day {
	t := time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// Parse reads a Day from ISO "2006-01-02" form.
func Parse(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("value", s)
	}
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}, nil
}

// String returns ISO form "2006-01-02".
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// MarshalJSON renders the ISO form.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads the ISO form.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Compact returns the YYMMDD form used inside document identifiers.
func (d Day) Compact() string {
	return fmt.Sprintf("%02d%02d%02d", d.Year%100, int(d.Month), d.Date)
}

// IsZero reports whether d is the zero value.
func (d Day) IsZero() bool {
	return d == Day{}
}

// Before reports whether d is an earlier calendar day than o.
func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Date < o.Date
}

// After reports whether d is a later calendar day than o.
func (d Day) After(o Day) bool {
	return o.Before(d)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return NewDay(d.Year, d.Month, d.Date+1)
}

// Clock converts instants to business-day values. It is the single owner of the
// business timezone; nothing else in the codebase may call time.In with it.
type Clock struct {
	loc *time.Location
}

// NewClock creates a Clock for the given location.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc}
}

// LoadClock creates a Clock from an IANA timezone name.
func LoadClock(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Clock{}, fmt.Errorf("load business timezone %q: %w", name, err)
	}
	return Clock{loc: loc}, nil
}

// Location returns the business timezone.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayOf returns the calendar day the instant falls on in the business timezone.
// This is the only instant-to-day conversion in the system.
func (c Clock) DayOf(t time.Time) Day {
	local := t.In(c.Location())
	return Day{Year: local.Year(), Month: local.Month(), Date: local.Day()}
}

// Today returns the current business day.
func (c Clock) Today() Day {
	return c.DayOf(time.Now())
}

// StartOf returns the first instant of the day in the business timezone.
func (c Clock) StartOf(d Day) time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, c.Location())
}

// Window resolves an inclusive [from, to] day range into a half-open instant
// range [start, end). Resolved once at the boundary; queries compare
// created_at >= start AND created_at < end and never re-derive the day.
func (c Clock) Window(from, to Day) (time.Time, time.Time) {
	return c.StartOf(from), c.StartOf(to.Next())
}
