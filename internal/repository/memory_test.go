package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campuslab/lab-seat-service/internal/model"
)

func newLabStore() *MemorySeatStore {
	store := NewMemorySeatStore()
	store.AddLab("lab1",
		model.Seat{Kind: model.KindPC, Number: 1},
		model.Seat{Kind: model.KindPC, Number: 2},
		model.Seat{Kind: model.KindPC, Number: 5},
		model.Seat{Kind: model.KindLaptop, Number: 1},
	)
	return store
}

func TestTransition_ConcurrentClaims_ExactlyOneWinner(t *testing.T) {
	store := newLabStore()
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Transition(ctx, "lab1", model.KindPC, 5,
				model.SeatAvailable, model.SeatOccupied)
		}()
	}
	wg.Wait()
	close(results)

	won, lost := 0, 0
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("%d claims succeeded, want exactly 1", won)
	}
	if lost != attempts-1 {
		t.Errorf("%d claims conflicted, want %d", lost, attempts-1)
	}

	occupied, err := store.OccupiedKeys(ctx, "lab1")
	if err != nil {
		t.Fatalf("OccupiedKeys: %v", err)
	}
	if len(occupied) != 1 || !occupied["PC-5"] {
		t.Errorf("occupied = %v, want exactly {PC-5}", occupied)
	}
}

func TestTransition_UnknownSeatAndLab(t *testing.T) {
	store := newLabStore()
	ctx := context.Background()

	err := store.Transition(ctx, "lab1", model.KindPC, 99, model.SeatAvailable, model.SeatOccupied)
	if !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("unknown seat: got %v, want ErrSeatNotFound", err)
	}
	err = store.Transition(ctx, "lab9", model.KindPC, 1, model.SeatAvailable, model.SeatOccupied)
	if !errors.Is(err, ErrLabNotFound) {
		t.Errorf("unknown lab: got %v, want ErrLabNotFound", err)
	}
}

func TestBulkRelease_SkipsMaintenanceAndIsIdempotent(t *testing.T) {
	store := NewMemorySeatStore()
	store.AddLab("lab1",
		model.Seat{Kind: model.KindPC, Number: 1, Status: model.SeatOccupied},
		model.Seat{Kind: model.KindPC, Number: 2, Status: model.SeatOccupied},
		model.Seat{Kind: model.KindPC, Number: 3, Status: model.SeatMaintenance},
		model.Seat{Kind: model.KindPC, Number: 4},
	)
	ctx := context.Background()

	n, err := store.BulkRelease(ctx, "lab1")
	if err != nil {
		t.Fatalf("BulkRelease: %v", err)
	}
	if n != 2 {
		t.Errorf("released %d seats, want 2", n)
	}

	seats, err := store.ListByLab(ctx, "lab1")
	if err != nil {
		t.Fatalf("ListByLab: %v", err)
	}
	for _, s := range seats {
		switch s.Number {
		case 3:
			if s.Status != model.SeatMaintenance {
				t.Errorf("PC-3 status = %q, maintenance must survive a release", s.Status)
			}
		default:
			if s.Status != model.SeatAvailable {
				t.Errorf("PC-%d status = %q, want available", s.Number, s.Status)
			}
		}
	}

	// Second pass finds nothing left to free.
	n, err = store.BulkRelease(ctx, "lab1")
	if err != nil {
		t.Fatalf("second BulkRelease: %v", err)
	}
	if n != 0 {
		t.Errorf("second release freed %d seats, want 0", n)
	}
}

func TestMemoryAssignmentStore_FindLive(t *testing.T) {
	store := NewMemoryAssignmentStore()
	ctx := context.Background()

	a := &model.Assignment{
		StudentID: "12345678", Lab: "lab1",
		SeatKind: model.KindPC, SeatNumber: 5,
		ClassDate: "2026-08-24", WindowStart: "08:00", WindowEnd: "08:50",
		CreatedAt: time.Date(2026, 8, 24, 8, 5, 0, 0, time.UTC),
	}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	got, err := store.FindLive(ctx, "12345678", "lab1", "2026-08-24", "08:30")
	if err != nil {
		t.Fatalf("FindLive: %v", err)
	}
	if got == nil || got.ID != a.ID {
		t.Fatalf("FindLive inside window = %+v, want record %d", got, a.ID)
	}

	// Outside the window, a different lab or a different date: no live record.
	for _, q := range []struct{ lab, date, clock string }{
		{"lab1", "2026-08-24", "09:00"},
		{"lab2", "2026-08-24", "08:30"},
		{"lab1", "2026-08-25", "08:30"},
	} {
		got, err := store.FindLive(ctx, "12345678", q.lab, q.date, q.clock)
		if err != nil {
			t.Fatalf("FindLive(%+v): %v", q, err)
		}
		if got != nil {
			t.Errorf("FindLive(%+v) = %+v, want nil", q, got)
		}
	}

	// Releasing closes the record; the guard no longer sees it.
	n, err := store.ReleaseAllForLab(ctx, "lab1", time.Date(2026, 8, 24, 8, 50, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReleaseAllForLab: %v", err)
	}
	if n != 1 {
		t.Errorf("closed %d records, want 1", n)
	}
	got, err = store.FindLive(ctx, "12345678", "lab1", "2026-08-24", "08:30")
	if err != nil {
		t.Fatalf("FindLive after release: %v", err)
	}
	if got != nil {
		t.Errorf("released record still reported live: %+v", got)
	}
}

func TestMemoryAssignmentStore_ListRecent(t *testing.T) {
	store := NewMemoryAssignmentStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		lab := "lab1"
		if i%2 == 1 {
			lab = "lab2"
		}
		if err := store.Create(ctx, &model.Assignment{StudentID: "s", Lab: lab}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := store.ListRecent(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d records, want 5", len(all))
	}
	if all[0].ID <= all[1].ID {
		t.Errorf("records not newest-first: %d then %d", all[0].ID, all[1].ID)
	}

	lab2, err := store.ListRecent(ctx, "lab2", 1)
	if err != nil {
		t.Fatalf("ListRecent(lab2): %v", err)
	}
	if len(lab2) != 1 || lab2[0].Lab != "lab2" {
		t.Errorf("filtered list = %+v, want single lab2 record", lab2)
	}
}
