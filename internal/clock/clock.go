// Package clock provides the zone-aware clock injected into the schedule
// matcher and the release scheduler. All weekday and HH:MM comparisons in the
// engine go through one Clock so that server-local time never leaks into
// schedule decisions and tests can pin the instant.
package clock

import (
	"fmt"
	"time"
)

// Clock yields the current instant in the institution's time zone.
type Clock interface {
	Now() time.Time
}

// Zone is the production clock. It converts wall time into a fixed
// time.Location loaded once at startup.
type Zone struct {
	loc *time.Location
}

// NewZone loads the named IANA zone (e.g. "America/Mexico_City").
func NewZone(name string) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Zone{loc: loc}, nil
}

// Now returns the current time in the configured zone.
func (z *Zone) Now() time.Time { return time.Now().In(z.loc) }

// Fixed is a test clock frozen at a single instant.
type Fixed struct {
	T time.Time
}

// Now returns the frozen instant.
func (f Fixed) Now() time.Time { return f.T }

// Weekday returns the English weekday name of t, matching the day names
// stored on schedule entries.
func Weekday(t time.Time) string { return t.Weekday().String() }

// HHMM formats t as a zero-padded minute-granular clock value. Seconds are
// intentionally dropped; the whole engine works at minute resolution.
func HHMM(t time.Time) string { return t.Format("15:04") }

// CivilDate formats t as its civil date in the clock's zone.
func CivilDate(t time.Time) string { return t.Format("2006-01-02") }
