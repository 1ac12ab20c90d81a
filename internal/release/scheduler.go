// Package release runs the periodic job that frees all seats of a lab the
// minute its class ends.
package release

import (
	"context"
	"log"
	"time"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
)

// SeatReleaser bulk-releases a lab's occupied seats.
type SeatReleaser interface {
	BulkRelease(ctx context.Context, lab string) (int, error)
}

// AssignmentCloser closes the lab's live assignment records.
type AssignmentCloser interface {
	ReleaseAllForLab(ctx context.Context, lab string, at time.Time) (int, error)
}

// EndMatcher reports the schedule entries ending at the current minute.
type EndMatcher interface {
	EndingNow(ctx context.Context) ([]model.ScheduleEntry, error)
}

// Scheduler ticks once per interval and releases every lab whose class just
// ended. A failure in one lab never blocks the others, and a failed tick is
// simply retried by the next one: both release operations are idempotent.
type Scheduler struct {
	matcher     EndMatcher
	seats       SeatReleaser
	assignments AssignmentCloser
	clk         clock.Clock
	interval    time.Duration

	// OnReleased, when set, is invoked per released lab, e.g. to publish the
	// audit event to the broker.
	OnReleased func(ctx context.Context, lab, subject string, count int, at time.Time)
}

// NewScheduler builds a Scheduler. A non-positive interval defaults to one
// minute, the boundary granularity of the schedule data.
func NewScheduler(m EndMatcher, seats SeatReleaser, assignments AssignmentCloser, clk clock.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{matcher: m, seats: seats, assignments: assignments, clk: clk, interval: interval}
}

// Run ticks until the context is cancelled. It never returns an error and
// never panics the host: each tick is individually recovered and logged.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	log.Printf("release: scheduler started (interval=%s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("release: scheduler stopped: %v", ctx.Err())
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one release pass. Exported so tests can drive the scheduler
// with a fixed clock instead of waiting on the ticker.
func (s *Scheduler) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("release: tick panic recovered: %v", r)
		}
	}()

	ending, err := s.matcher.EndingNow(ctx)
	if err != nil {
		log.Printf("release: query ending classes: %v", err)
		return
	}
	if len(ending) == 0 {
		return
	}

	// Two sections can share an end minute in one lab; release each lab once.
	seen := make(map[string]bool, len(ending))
	for _, e := range ending {
		if seen[e.Lab] {
			continue
		}
		seen[e.Lab] = true
		s.releaseLab(ctx, e.Lab, e.Subject)
	}
}

func (s *Scheduler) releaseLab(ctx context.Context, lab, subject string) {
	now := s.clk.Now()
	count, err := s.seats.BulkRelease(ctx, lab)
	if err != nil {
		log.Printf("release: %s: bulk release failed: %v", lab, err)
		return
	}
	closed, err := s.assignments.ReleaseAllForLab(ctx, lab, now)
	if err != nil {
		// Seats are already free; records left open past their window are
		// ignored by the duplicate guard, which checks window containment.
		log.Printf("release: %s: closing assignments failed: %v", lab, err)
		return
	}
	log.Printf("release: %s: class %q ended at %s, released %d seats, closed %d assignments",
		lab, subject, clock.HHMM(now), count, closed)

	if s.OnReleased != nil {
		s.OnReleased(ctx, lab, subject, count, now)
	}
}
