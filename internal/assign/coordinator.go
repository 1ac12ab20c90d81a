// Package assign implements the seat-assignment flow: one code path takes a
// raw scan through identity verification, the duplicate guard, the schedule
// gate and the atomic seat claim.
package assign

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
	"github.com/campuslab/lab-seat-service/internal/roster"
	"github.com/campuslab/lab-seat-service/internal/scan"
)

// SeatStore is the seat-state dependency. Transition must be atomic: the
// status change applies only if the seat still has the expected from-status.
type SeatStore interface {
	Transition(ctx context.Context, lab, kind string, number int, from, to model.SeatStatus) error
}

// AssignmentStore persists assignment records and answers the duplicate
// guard's live-assignment query.
type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	FindLive(ctx context.Context, studentID, lab, classDate, clockVal string) (*model.Assignment, error)
}

// IdentityVerifier confirms a scanned id/name pair against the roster.
type IdentityVerifier interface {
	Verify(ctx context.Context, id, name string) (model.Student, error)
}

// ClassMatcher resolves the active schedule entry for a lab.
type ClassMatcher interface {
	ActiveSchedule(ctx context.Context, lab string) (*model.ScheduleEntry, error)
}

// Reason classifies why an assignment attempt was turned down. Rejections
// are ordinary return values; only infrastructure failures surface as errors.
type Reason string

const (
	ReasonIdentityInvalid Reason = "identity_invalid"
	ReasonDuplicate       Reason = "duplicate_registration"
	ReasonNoActiveClass   Reason = "no_active_class"
	ReasonSeatTaken       Reason = "seat_taken"
)

// Result is the outcome of one assignment attempt. Either Assignment is set
// (success) or Reason is. Existing carries the already-held seat alongside a
// duplicate_registration rejection so the caller can show it.
type Result struct {
	Assignment *model.Assignment
	Reason     Reason
	Existing   *model.Assignment
}

// OK reports whether the attempt committed an assignment.
func (r *Result) OK() bool { return r.Reason == "" }

func rejected(reason Reason) *Result { return &Result{Reason: reason} }

// Coordinator orchestrates assignment attempts. Any number of them may run
// concurrently; correctness under racing claims rests entirely on the seat
// store's compare-and-swap transition, which is the last step of the flow so
// a losing race never leaves a half-committed record.
type Coordinator struct {
	verifier    IdentityVerifier
	matcher     ClassMatcher
	seats       SeatStore
	assignments AssignmentStore
	clk         clock.Clock

	// OnAssigned, when set, is invoked after a successful commit, e.g. to
	// publish the event to the broker. It must not block for long.
	OnAssigned func(ctx context.Context, a model.Assignment)
}

// NewCoordinator wires the assignment flow's dependencies.
func NewCoordinator(v IdentityVerifier, m ClassMatcher, seats SeatStore, assignments AssignmentStore, clk clock.Clock) *Coordinator {
	return &Coordinator{verifier: v, matcher: m, seats: seats, assignments: assignments, clk: clk}
}

// Assign attempts to claim the seat identified by seatKey ("PC-5") in lab
// for the student encoded in rawScan. Checks run cheapest-first; the seat
// transition comes last and is the only step that mutates state.
func (c *Coordinator) Assign(ctx context.Context, rawScan, lab, seatKey string) (*Result, error) {
	parsed, err := scan.Parse(rawScan)
	if err != nil {
		return rejected(ReasonIdentityInvalid), nil
	}
	kind, number, err := model.ParseSeatKey(seatKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrSeatNotFound, seatKey)
	}

	student, err := c.verifier.Verify(ctx, parsed.ID, parsed.Name)
	if errors.Is(err, roster.ErrNoMatch) {
		return rejected(ReasonIdentityInvalid), nil
	}
	if err != nil {
		return nil, fmt.Errorf("verify identity: %w", err)
	}

	now := c.clk.Now()
	date, hhmm := clock.CivilDate(now), clock.HHMM(now)

	existing, err := c.assignments.FindLive(ctx, student.ID, lab, date, hhmm)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		return &Result{Reason: ReasonDuplicate, Existing: existing}, nil
	}

	entry, err := c.matcher.ActiveSchedule(ctx, lab)
	if err != nil {
		return nil, fmt.Errorf("resolve schedule: %w", err)
	}
	if entry == nil {
		return rejected(ReasonNoActiveClass), nil
	}

	err = c.seats.Transition(ctx, lab, kind, number, model.SeatAvailable, model.SeatOccupied)
	if errors.Is(err, repository.ErrConflict) {
		// Seat was claimed between listing and commit; the caller re-presents
		// availability and lets the student pick again.
		return rejected(ReasonSeatTaken), nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim seat: %w", err)
	}

	a := &model.Assignment{
		StudentID:   student.ID,
		StudentName: student.Name,
		Program:     student.Program,
		Lab:         lab,
		SeatKind:    kind,
		SeatNumber:  number,
		Subject:     entry.Subject,
		Instructor:  entry.Instructor,
		ClassDate:   date,
		WindowStart: entry.StartTime,
		WindowEnd:   entry.EndTime,
		CreatedAt:   now,
	}
	if err := c.assignments.Create(ctx, a); err != nil {
		// Undo the claim so the seat is not stranded occupied without a record.
		_ = c.seats.Transition(ctx, lab, kind, number, model.SeatOccupied, model.SeatAvailable)
		return nil, fmt.Errorf("persist assignment: %w", err)
	}

	if c.OnAssigned != nil {
		c.OnAssigned(ctx, *a)
	}
	return &Result{Assignment: a}, nil
}
