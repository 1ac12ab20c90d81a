package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// AssignmentRepo persists assignment records. Rows are append-only: a
// successful coordinator commit inserts one, the release scheduler closes
// the lab's live rows by stamping released_at, nothing ever updates them
// otherwise.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns an AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// Create inserts a new assignment and populates its generated ID.
func (r *AssignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	const q = `INSERT INTO assignments
	           (student_id, student_name, program, lab, seat_kind, seat_number,
	            subject, instructor, class_date, window_start, window_end, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		a.StudentID, a.StudentName, a.Program, a.Lab, a.SeatKind, a.SeatNumber,
		a.Subject, a.Instructor, a.ClassDate, a.WindowStart, a.WindowEnd,
		a.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// FindLive returns the student's live assignment in a lab whose class window
// contains the given clock value on the given date, or nil when none exists.
// This is the duplicate-registration guard: at most one such row can be live
// at a time, and callers surface its seat so the student is not blocked
// silently.
func (r *AssignmentRepo) FindLive(ctx context.Context, studentID, lab, classDate, clock string) (*model.Assignment, error) {
	const q = `SELECT id, student_id, student_name, program, lab, seat_kind, seat_number,
	                  subject, instructor, class_date, window_start, window_end, created_at, released_at
	           FROM assignments
	           WHERE student_id = ? AND lab = ? AND class_date = ?
	             AND window_start <= ? AND window_end >= ?
	             AND released_at IS NULL
	           ORDER BY created_at DESC
	           LIMIT 1`
	a, err := r.scanOne(r.db.QueryRowContext(ctx, q, studentID, lab, classDate, clock, clock))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ReleaseAllForLab closes every live assignment of a lab, stamping the time
// the release loop fired. Returns the number of rows closed. Idempotent for
// the same reason BulkRelease is: closed rows no longer match.
func (r *AssignmentRepo) ReleaseAllForLab(ctx context.Context, lab string, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET released_at = ? WHERE lab = ? AND released_at IS NULL`,
		at.UTC(), lab)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListRecent returns the newest assignment records for the audit view,
// optionally filtered by lab. Limit caps the result set.
func (r *AssignmentRepo) ListRecent(ctx context.Context, lab string, limit int) ([]model.Assignment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id, student_id, student_name, program, lab, seat_kind, seat_number,
	             subject, instructor, class_date, window_start, window_end, created_at, released_at
	      FROM assignments`
	args := []interface{}{}
	if lab != "" {
		q += ` WHERE lab = ?`
		args = append(args, lab)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var released sql.NullTime
		if err := rows.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.Program, &a.Lab,
			&a.SeatKind, &a.SeatNumber, &a.Subject, &a.Instructor,
			&a.ClassDate, &a.WindowStart, &a.WindowEnd, &a.CreatedAt, &released); err != nil {
			return nil, err
		}
		if released.Valid {
			t := released.Time
			a.ReleasedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *AssignmentRepo) scanOne(row rowScanner) (*model.Assignment, error) {
	var a model.Assignment
	var released sql.NullTime
	err := row.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.Program, &a.Lab,
		&a.SeatKind, &a.SeatNumber, &a.Subject, &a.Instructor,
		&a.ClassDate, &a.WindowStart, &a.WindowEnd, &a.CreatedAt, &released)
	if err != nil {
		return nil, err
	}
	if released.Valid {
		t := released.Time
		a.ReleasedAt = &t
	}
	return &a, nil
}
