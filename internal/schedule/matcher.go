// Package schedule resolves which class, if any, is active in a lab at a
// given instant. It is the single gate the assignment flow and the release
// loop consult; no other code compares weekdays or clock values.
package schedule

import (
	"context"
	"log"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
)

// Source provides read access to schedule entries. Satisfied by the MySQL
// ScheduleRepo and by the in-memory source used in tests.
type Source interface {
	ByLabAndDay(ctx context.Context, lab, day string) ([]model.ScheduleEntry, error)
	ByDay(ctx context.Context, day string) ([]model.ScheduleEntry, error)
}

// Matcher answers "what class is active in this lab right now". The injected
// clock fixes the institutional time zone so the answer never depends on
// server-local time.
type Matcher struct {
	src Source
	clk clock.Clock
}

// NewMatcher builds a Matcher over the given source and clock.
func NewMatcher(src Source, clk clock.Clock) *Matcher {
	return &Matcher{src: src, clk: clk}
}

// ActiveSchedule returns the schedule entry containing the current instant
// for the lab, or nil when no class is in session. Callers must treat nil as
// "seat assignment forbidden".
//
// When overlapping rows both contain the instant — malformed data the admin
// workflow should have prevented — the entry with the lowest start time wins
// and the conflict is logged, never silently dropped.
func (m *Matcher) ActiveSchedule(ctx context.Context, lab string) (*model.ScheduleEntry, error) {
	now := m.clk.Now()
	entries, err := m.src.ByLabAndDay(ctx, lab, clock.Weekday(now))
	if err != nil {
		return nil, err
	}

	hhmm := clock.HHMM(now)
	var active *model.ScheduleEntry
	matches := 0
	for i := range entries {
		e := entries[i]
		if !e.Contains(hhmm) {
			continue
		}
		matches++
		if active == nil || e.StartTime < active.StartTime {
			active = &e
		}
	}
	if matches > 1 {
		log.Printf("schedule: conflict in %s on %s at %s: %d overlapping entries, using earliest start %s (%s)",
			lab, clock.Weekday(now), hhmm, matches, active.StartTime, active.Subject)
	}
	return active, nil
}

// EndingNow returns every entry, across all labs, whose end time equals the
// current minute exactly. The release loop fires on equality rather than
// less-than so each class triggers one release at its boundary minute and
// nothing re-fires through the idle period afterwards.
func (m *Matcher) EndingNow(ctx context.Context) ([]model.ScheduleEntry, error) {
	now := m.clk.Now()
	entries, err := m.src.ByDay(ctx, clock.Weekday(now))
	if err != nil {
		return nil, err
	}

	hhmm := clock.HHMM(now)
	var ending []model.ScheduleEntry
	for _, e := range entries {
		if e.EndTime == hhmm {
			ending = append(ending, e)
		}
	}
	return ending, nil
}
