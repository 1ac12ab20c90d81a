package release

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
	"github.com/campuslab/lab-seat-service/internal/schedule"
)

func mondayAt(hour, min int) clock.Fixed {
	return clock.Fixed{T: time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)}
}

func occupiedLab(lab string, n int) []model.Seat {
	seats := make([]model.Seat, n)
	for i := range seats {
		seats[i] = model.Seat{Kind: model.KindPC, Number: i + 1, Status: model.SeatOccupied}
	}
	return seats
}

func countOccupied(t *testing.T, store *repository.MemorySeatStore, lab string) int {
	t.Helper()
	keys, err := store.OccupiedKeys(context.Background(), lab)
	if err != nil {
		t.Fatalf("OccupiedKeys(%s): %v", lab, err)
	}
	return len(keys)
}

func TestTick_ReleasesOnlyAtExactEndMinute(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "07:00", EndTime: "07:50", Subject: "Redes"},
	)
	store := repository.NewMemorySeatStore()
	store.AddLab("lab1", occupiedLab("lab1", 3)...)
	assignments := repository.NewMemoryAssignmentStore()

	for _, tc := range []struct {
		hour, min int
		freed     bool
	}{
		{7, 45, false},
		{7, 55, false},
		{7, 50, true},
	} {
		clk := mondayAt(tc.hour, tc.min)
		s := NewScheduler(schedule.NewMatcher(src, clk), store, assignments, clk, time.Minute)
		s.Tick(context.Background())

		occupied := countOccupied(t, store, "lab1")
		if tc.freed && occupied != 0 {
			t.Errorf("%02d:%02d: %d seats still occupied, want 0", tc.hour, tc.min, occupied)
		}
		if !tc.freed && occupied != 3 {
			t.Errorf("%02d:%02d: %d seats occupied, release must not fire off-boundary", tc.hour, tc.min, occupied)
		}
	}
}

func TestTick_ClosesLiveAssignments(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "07:00", EndTime: "07:50", Subject: "Redes"},
	)
	store := repository.NewMemorySeatStore()
	store.AddLab("lab1", occupiedLab("lab1", 1)...)
	assignments := repository.NewMemoryAssignmentStore()
	ctx := context.Background()

	a := &model.Assignment{
		StudentID: "12345678", Lab: "lab1",
		SeatKind: model.KindPC, SeatNumber: 1,
		ClassDate: "2026-08-24", WindowStart: "07:00", WindowEnd: "07:50",
	}
	if err := assignments.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	clk := mondayAt(7, 50)
	var gotLab string
	var gotCount int
	s := NewScheduler(schedule.NewMatcher(src, clk), store, assignments, clk, time.Minute)
	s.OnReleased = func(_ context.Context, lab, _ string, count int, _ time.Time) {
		gotLab, gotCount = lab, count
	}
	s.Tick(ctx)

	live, err := assignments.FindLive(ctx, "12345678", "lab1", "2026-08-24", "07:30")
	if err != nil {
		t.Fatalf("FindLive: %v", err)
	}
	if live != nil {
		t.Errorf("assignment still live after release: %+v", live)
	}
	if gotLab != "lab1" || gotCount != 1 {
		t.Errorf("hook got (%q, %d), want (lab1, 1)", gotLab, gotCount)
	}
}

func TestTick_SharedEndMinuteReleasesLabOnce(t *testing.T) {
	// Two sections ending 07:50 in the same lab; the lab is processed once.
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "07:00", EndTime: "07:50", Subject: "Redes"},
		model.ScheduleEntry{ID: 2, Lab: "lab1", Day: "Monday", StartTime: "06:00", EndTime: "07:50", Subject: "Redes Lab"},
	)
	store := repository.NewMemorySeatStore()
	store.AddLab("lab1", occupiedLab("lab1", 2)...)
	assignments := repository.NewMemoryAssignmentStore()

	clk := mondayAt(7, 50)
	fired := 0
	s := NewScheduler(schedule.NewMatcher(src, clk), store, assignments, clk, time.Minute)
	s.OnReleased = func(context.Context, string, string, int, time.Time) { fired++ }
	s.Tick(context.Background())

	if fired != 1 {
		t.Errorf("release fired %d times for one lab, want 1", fired)
	}
}

// failingSeats fails BulkRelease for one lab and delegates the rest.
type failingSeats struct {
	inner   *repository.MemorySeatStore
	failLab string
}

func (f *failingSeats) BulkRelease(ctx context.Context, lab string) (int, error) {
	if lab == f.failLab {
		return 0, errors.New("storage unavailable")
	}
	return f.inner.BulkRelease(ctx, lab)
}

func TestTick_LabFailureDoesNotBlockOthers(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "07:00", EndTime: "07:50", Subject: "Redes"},
		model.ScheduleEntry{ID: 2, Lab: "lab2", Day: "Monday", StartTime: "07:00", EndTime: "07:50", Subject: "Programación"},
	)
	store := repository.NewMemorySeatStore()
	store.AddLab("lab1", occupiedLab("lab1", 2)...)
	store.AddLab("lab2", occupiedLab("lab2", 2)...)
	assignments := repository.NewMemoryAssignmentStore()

	clk := mondayAt(7, 50)
	s := NewScheduler(schedule.NewMatcher(src, clk),
		&failingSeats{inner: store, failLab: "lab1"}, assignments, clk, time.Minute)
	s.Tick(context.Background())

	if n := countOccupied(t, store, "lab1"); n != 2 {
		t.Errorf("failed lab1 has %d occupied seats, want the original 2", n)
	}
	if n := countOccupied(t, store, "lab2"); n != 0 {
		t.Errorf("lab2 has %d occupied seats, want 0 despite lab1 failing", n)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	src := repository.NewMemoryScheduleSource()
	store := repository.NewMemorySeatStore()
	assignments := repository.NewMemoryAssignmentStore()
	clk := mondayAt(7, 0)

	s := NewScheduler(schedule.NewMatcher(src, clk), store, assignments, clk, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
