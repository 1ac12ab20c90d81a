package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// In-memory implementations of the store contracts used by the engine.
// They keep the same semantics as the MySQL repositories — most importantly
// the compare-and-swap Transition, here guarded by a mutex instead of a
// conditional UPDATE — and back the engine's tests as well as local runs
// without a database.

// MemorySeatStore holds seat state per lab behind one mutex.
type MemorySeatStore struct {
	mu    sync.Mutex
	seats map[string]map[string]*model.Seat // lab -> seat key -> seat
}

// NewMemorySeatStore returns an empty in-memory seat store.
func NewMemorySeatStore() *MemorySeatStore {
	return &MemorySeatStore{seats: make(map[string]map[string]*model.Seat)}
}

// AddLab registers a lab with the given seats, replacing any previous layout.
func (m *MemorySeatStore) AddLab(lab string, seats ...model.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey := make(map[string]*model.Seat, len(seats))
	for i := range seats {
		s := seats[i]
		s.Lab = lab
		if s.Status == "" {
			s.Status = model.SeatAvailable
		}
		byKey[s.Key()] = &s
	}
	m.seats[lab] = byKey
}

// ListByLab returns a snapshot of the lab's seats ordered by kind then number.
func (m *MemorySeatStore) ListByLab(_ context.Context, lab string) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.seats[lab]
	if !ok {
		return nil, ErrLabNotFound
	}
	out := make([]model.Seat, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

// OccupiedKeys returns the occupied seat keys of a lab.
func (m *MemorySeatStore) OccupiedKeys(_ context.Context, lab string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.seats[lab]
	if !ok {
		return nil, ErrLabNotFound
	}
	keys := make(map[string]bool)
	for k, s := range byKey {
		if s.Status == model.SeatOccupied {
			keys[k] = true
		}
	}
	return keys, nil
}

// Transition applies the compare-and-swap status change under the store lock.
func (m *MemorySeatStore) Transition(_ context.Context, lab, kind string, number int, from, to model.SeatStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.seats[lab]
	if !ok {
		return ErrLabNotFound
	}
	s, ok := byKey[model.SeatKey(kind, number)]
	if !ok {
		return ErrSeatNotFound
	}
	if s.Status != from {
		return ErrConflict
	}
	s.Status = to
	s.UpdatedAt = time.Now()
	return nil
}

// BulkRelease flips every occupied seat of a lab back to available.
func (m *MemorySeatStore) BulkRelease(_ context.Context, lab string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.seats[lab]
	if !ok {
		return 0, ErrLabNotFound
	}
	n := 0
	for _, s := range byKey {
		if s.Status == model.SeatOccupied {
			s.Status = model.SeatAvailable
			s.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

// MemoryScheduleSource serves schedule entries from a slice.
type MemoryScheduleSource struct {
	mu      sync.Mutex
	entries []model.ScheduleEntry
}

// NewMemoryScheduleSource returns a source preloaded with the given entries.
func NewMemoryScheduleSource(entries ...model.ScheduleEntry) *MemoryScheduleSource {
	return &MemoryScheduleSource{entries: entries}
}

// ByLabAndDay returns the lab's entries for one weekday ordered by start time.
func (m *MemoryScheduleSource) ByLabAndDay(_ context.Context, lab, day string) ([]model.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.Lab == lab && e.Day == day {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// ByDay returns every lab's entries for one weekday.
func (m *MemoryScheduleSource) ByDay(_ context.Context, day string) ([]model.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out, nil
}

// MemoryAssignmentStore collects assignment records in memory.
type MemoryAssignmentStore struct {
	mu      sync.Mutex
	nextID  uint64
	records []*model.Assignment
}

// NewMemoryAssignmentStore returns an empty assignment store.
func NewMemoryAssignmentStore() *MemoryAssignmentStore {
	return &MemoryAssignmentStore{nextID: 1}
}

// Create appends a record and assigns it an id.
func (m *MemoryAssignmentStore) Create(_ context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	cp := *a
	m.records = append(m.records, &cp)
	return nil
}

// FindLive returns the student's live assignment whose window covers the
// clock value on the given date, or nil.
func (m *MemoryAssignmentStore) FindLive(_ context.Context, studentID, lab, classDate, clock string) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		a := m.records[i]
		if a.ReleasedAt == nil && a.StudentID == studentID && a.Lab == lab &&
			a.ClassDate == classDate && a.WindowStart <= clock && clock <= a.WindowEnd {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// ReleaseAllForLab closes every live record of a lab.
func (m *MemoryAssignmentStore) ReleaseAllForLab(_ context.Context, lab string, at time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.records {
		if a.Lab == lab && a.ReleasedAt == nil {
			t := at
			a.ReleasedAt = &t
			n++
		}
	}
	return n, nil
}

// ListRecent returns up to limit newest records, optionally filtered by lab.
func (m *MemoryAssignmentStore) ListRecent(_ context.Context, lab string, limit int) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var out []model.Assignment
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		a := m.records[i]
		if lab == "" || a.Lab == lab {
			out = append(out, *a)
		}
	}
	return out, nil
}

// MemoryRoster is a fixed student roster keyed by id.
type MemoryRoster struct {
	students map[string]model.Student
}

// NewMemoryRoster builds a roster from the given students.
func NewMemoryRoster(students ...model.Student) *MemoryRoster {
	m := &MemoryRoster{students: make(map[string]model.Student, len(students))}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

// GetByID fetches a roster row by student id.
func (m *MemoryRoster) GetByID(_ context.Context, id string) (model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return model.Student{}, ErrStudentNotFound
	}
	return s, nil
}
