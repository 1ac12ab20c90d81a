package assign

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
	"github.com/campuslab/lab-seat-service/internal/roster"
	"github.com/campuslab/lab-seat-service/internal/schedule"
)

// Monday 2026-08-24, during the 08:00-08:50 Redes class in lab1.
func testClock() clock.Fixed {
	return clock.Fixed{T: time.Date(2026, 8, 24, 8, 15, 0, 0, time.UTC)}
}

type fixture struct {
	seats       *repository.MemorySeatStore
	assignments *repository.MemoryAssignmentStore
	coord       *Coordinator
}

func newFixture(clk clock.Clock) *fixture {
	seats := repository.NewMemorySeatStore()
	seats.AddLab("lab1",
		model.Seat{Kind: model.KindPC, Number: 1},
		model.Seat{Kind: model.KindPC, Number: 5},
		model.Seat{Kind: model.KindLaptop, Number: 1},
	)
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes", Instructor: "Gómez"},
	)
	students := repository.NewMemoryRoster(
		model.Student{ID: "12345678", Name: "Ana Ruiz", Program: "ISC"},
		model.Student{ID: "87654321", Name: "Juan Carlos Pérez", Program: "IME"},
	)
	assignments := repository.NewMemoryAssignmentStore()

	coord := NewCoordinator(
		roster.NewVerifier(students, 0),
		schedule.NewMatcher(src, clk),
		seats,
		assignments,
		clk,
	)
	return &fixture{seats: seats, assignments: assignments, coord: coord}
}

func TestAssign_Success(t *testing.T) {
	f := newFixture(testClock())

	res, err := f.coord.Assign(context.Background(), "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("rejected with %q, want success", res.Reason)
	}

	a := res.Assignment
	if a == nil || a.ID == 0 {
		t.Fatal("success result carries no persisted assignment")
	}
	if a.StudentName != "Ana Ruiz" || a.Program != "ISC" {
		t.Errorf("assignment carries %q/%q, want canonical roster fields", a.StudentName, a.Program)
	}
	if a.Subject != "Redes" || a.Instructor != "Gómez" {
		t.Errorf("assignment class = %q/%q, want Redes/Gómez", a.Subject, a.Instructor)
	}
	if a.ClassDate != "2026-08-24" || a.WindowStart != "08:00" || a.WindowEnd != "08:50" {
		t.Errorf("assignment window = %s %s-%s, want 2026-08-24 08:00-08:50",
			a.ClassDate, a.WindowStart, a.WindowEnd)
	}

	occupied, err := f.seats.OccupiedKeys(context.Background(), "lab1")
	if err != nil {
		t.Fatalf("OccupiedKeys: %v", err)
	}
	if !occupied["PC-5"] {
		t.Errorf("PC-5 not occupied after assignment: %v", occupied)
	}
}

func TestAssign_MalformedScan(t *testing.T) {
	f := newFixture(testClock())
	res, err := f.coord.Assign(context.Background(), "garbage", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonIdentityInvalid {
		t.Errorf("reason = %q, want identity_invalid", res.Reason)
	}
}

func TestAssign_UnknownStudent(t *testing.T) {
	f := newFixture(testClock())
	res, err := f.coord.Assign(context.Background(), "00000000|Nadie Aquí|ISC", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonIdentityInvalid {
		t.Errorf("reason = %q, want identity_invalid", res.Reason)
	}
	occupied, _ := f.seats.OccupiedKeys(context.Background(), "lab1")
	if len(occupied) != 0 {
		t.Errorf("rejected attempt occupied seats: %v", occupied)
	}
}

func TestAssign_NameMismatch(t *testing.T) {
	f := newFixture(testClock())
	res, err := f.coord.Assign(context.Background(), "12345678|Juan Carlos Pérez|ISC", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonIdentityInvalid {
		t.Errorf("reason = %q, want identity_invalid", res.Reason)
	}
}

func TestAssign_NoActiveClass(t *testing.T) {
	// 10:00 is between classes.
	f := newFixture(clock.Fixed{T: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)})
	res, err := f.coord.Assign(context.Background(), "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonNoActiveClass {
		t.Errorf("reason = %q, want no_active_class", res.Reason)
	}
}

func TestAssign_DuplicateReportsExistingSeat(t *testing.T) {
	f := newFixture(testClock())
	ctx := context.Background()

	first, err := f.coord.Assign(ctx, "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil || !first.OK() {
		t.Fatalf("first attempt: res=%+v err=%v", first, err)
	}

	second, err := f.coord.Assign(ctx, "12345678|Ana Ruiz|ISC", "lab1", "PC-1")
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if second.Reason != ReasonDuplicate {
		t.Fatalf("reason = %q, want duplicate_registration", second.Reason)
	}
	if second.Existing == nil || second.Existing.SeatKey() != "PC-5" {
		t.Errorf("duplicate does not report the held seat: %+v", second.Existing)
	}

	// PC-1 must be untouched by the rejected attempt.
	occupied, _ := f.seats.OccupiedKeys(ctx, "lab1")
	if occupied["PC-1"] {
		t.Error("rejected duplicate claimed PC-1")
	}
}

func TestAssign_SeatTaken(t *testing.T) {
	f := newFixture(testClock())
	ctx := context.Background()

	first, err := f.coord.Assign(ctx, "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil || !first.OK() {
		t.Fatalf("first attempt: res=%+v err=%v", first, err)
	}

	second, err := f.coord.Assign(ctx, "87654321|Juan Carlos Pérez|IME", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if second.Reason != ReasonSeatTaken {
		t.Errorf("reason = %q, want seat_taken", second.Reason)
	}
}

func TestAssign_MaintenanceSeatIsTaken(t *testing.T) {
	f := newFixture(testClock())
	ctx := context.Background()
	if err := f.seats.Transition(ctx, "lab1", model.KindPC, 5, model.SeatAvailable, model.SeatMaintenance); err != nil {
		t.Fatalf("mark maintenance: %v", err)
	}

	res, err := f.coord.Assign(ctx, "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonSeatTaken {
		t.Errorf("reason = %q, want seat_taken for a maintenance seat", res.Reason)
	}
}

func TestAssign_ConcurrentRaceForOneSeat(t *testing.T) {
	f := newFixture(testClock())
	ctx := context.Background()

	scans := []string{
		"12345678|Ana Ruiz|ISC",
		"87654321|Juan Carlos Pérez|IME",
	}
	var wg sync.WaitGroup
	results := make([]*Result, len(scans))
	for i, raw := range scans {
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			res, err := f.coord.Assign(ctx, raw, "lab1", "PC-5")
			if err != nil {
				t.Errorf("attempt %d: %v", i, err)
				return
			}
			results[i] = res
		}(i, raw)
	}
	wg.Wait()

	won := 0
	for _, res := range results {
		if res != nil && res.OK() {
			won++
		} else if res != nil && res.Reason != ReasonSeatTaken {
			t.Errorf("loser rejected with %q, want seat_taken", res.Reason)
		}
	}
	if won != 1 {
		t.Errorf("%d attempts won the seat, want exactly 1", won)
	}
}

func TestAssign_OnAssignedHookFires(t *testing.T) {
	f := newFixture(testClock())

	var got model.Assignment
	f.coord.OnAssigned = func(_ context.Context, a model.Assignment) { got = a }

	res, err := f.coord.Assign(context.Background(), "12345678|Ana Ruiz|ISC", "lab1", "PC-5")
	if err != nil || !res.OK() {
		t.Fatalf("assign: res=%+v err=%v", res, err)
	}
	if got.ID != res.Assignment.ID || got.SeatKey() != "PC-5" {
		t.Errorf("hook received %+v, want the committed assignment", got)
	}
}
