package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
)

// mondayAt returns a fixed clock pinned to Monday 2026-08-24 at the given
// hour and minute, UTC.
func mondayAt(hour, min int) clock.Fixed {
	return clock.Fixed{T: time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)}
}

func TestActiveSchedule_MatchesCurrentWindow(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes", Instructor: "Gómez"},
		model.ScheduleEntry{ID: 2, Lab: "lab1", Day: "Monday", StartTime: "09:00", EndTime: "09:50", Subject: "Bases de Datos", Instructor: "Luna"},
		model.ScheduleEntry{ID: 3, Lab: "lab2", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Programación", Instructor: "Peña"},
	)

	m := NewMatcher(src, mondayAt(8, 15))
	entry, err := m.ActiveSchedule(context.Background(), "lab1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an active class at 08:15, got nil")
	}
	if entry.Subject != "Redes" || entry.Instructor != "Gómez" {
		t.Errorf("matched %q/%q, want Redes/Gómez", entry.Subject, entry.Instructor)
	}
}

func TestActiveSchedule_BoundariesInclusive(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes"},
	)

	cases := []struct {
		hour, min int
		active    bool
	}{
		{7, 59, false},
		{8, 0, true},
		{8, 50, true},
		{8, 51, false},
	}
	for _, c := range cases {
		m := NewMatcher(src, mondayAt(c.hour, c.min))
		entry, err := m.ActiveSchedule(context.Background(), "lab1")
		if err != nil {
			t.Fatalf("%02d:%02d: unexpected error: %v", c.hour, c.min, err)
		}
		if got := entry != nil; got != c.active {
			t.Errorf("%02d:%02d: active = %v, want %v", c.hour, c.min, got, c.active)
		}
	}
}

func TestActiveSchedule_NoClassOnOtherDay(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Tuesday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes"},
	)
	m := NewMatcher(src, mondayAt(8, 15))
	entry, err := m.ActiveSchedule(context.Background(), "lab1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("Tuesday class matched on Monday: %+v", entry)
	}
}

func TestActiveSchedule_OverlapEarliestStartWins(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "08:30", EndTime: "09:20", Subject: "Bases de Datos"},
		model.ScheduleEntry{ID: 2, Lab: "lab1", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes"},
	)
	m := NewMatcher(src, mondayAt(8, 40))
	entry, err := m.ActiveSchedule(context.Background(), "lab1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an active class inside the overlap, got nil")
	}
	if entry.Subject != "Redes" {
		t.Errorf("overlap resolved to %q, want the earlier-starting Redes", entry.Subject)
	}
}

func TestEndingNow_ExactMinuteOnly(t *testing.T) {
	src := repository.NewMemoryScheduleSource(
		model.ScheduleEntry{ID: 1, Lab: "lab1", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Redes"},
		model.ScheduleEntry{ID: 2, Lab: "lab2", Day: "Monday", StartTime: "08:00", EndTime: "08:50", Subject: "Programación"},
		model.ScheduleEntry{ID: 3, Lab: "lab3", Day: "Monday", StartTime: "08:00", EndTime: "09:50", Subject: "Sistemas Operativos"},
	)

	m := NewMatcher(src, mondayAt(8, 50))
	ending, err := m.EndingNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ending) != 2 {
		t.Fatalf("got %d ending entries, want 2: %+v", len(ending), ending)
	}

	// One minute later nothing ends; a missed boundary must not re-fire.
	m = NewMatcher(src, mondayAt(8, 51))
	ending, err = m.EndingNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ending) != 0 {
		t.Errorf("got %d ending entries at 08:51, want 0", len(ending))
	}
}
