package repository

import (
	"context"
	"database/sql"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// ScheduleRepo reads and replaces the weekly class windows of each lab.
// The engine treats this data as read-mostly reference: only the admin
// surface writes it, the matcher and the release loop just query it.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleCols = `id, lab, day, start_time, end_time, subject, instructor, section`

func scanEntries(rows *sql.Rows) ([]model.ScheduleEntry, error) {
	defer rows.Close()
	var out []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		var section sql.NullString
		if err := rows.Scan(&e.ID, &e.Lab, &e.Day, &e.StartTime, &e.EndTime,
			&e.Subject, &e.Instructor, &section); err != nil {
			return nil, err
		}
		if section.Valid {
			s := section.String
			e.Section = &s
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ByLabAndDay returns all entries of one lab on one weekday ordered by start
// time, the order the matcher relies on for earliest-start-wins resolution.
func (r *ScheduleRepo) ByLabAndDay(ctx context.Context, lab, day string) ([]model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleCols+` FROM schedules WHERE lab = ? AND day = ? ORDER BY start_time`,
		lab, day)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ByDay returns every lab's entries for one weekday. The release loop uses
// this to find classes ending at the current minute across all labs in a
// single query.
func (r *ScheduleRepo) ByDay(ctx context.Context, day string) ([]model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleCols+` FROM schedules WHERE day = ? ORDER BY lab, start_time`,
		day)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ListByLab returns a lab's full week ordered by day then start time.
func (r *ScheduleRepo) ListByLab(ctx context.Context, lab string) ([]model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleCols+` FROM schedules WHERE lab = ? ORDER BY day, start_time`,
		lab)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ReplaceForLab swaps a lab's entire weekly schedule in one transaction,
// mirroring how the admin UI submits the whole week at once.
func (r *ScheduleRepo) ReplaceForLab(ctx context.Context, lab string, entries []model.ScheduleEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE lab = ?`, lab); err != nil {
		return err
	}
	const ins = `INSERT INTO schedules (lab, day, start_time, end_time, subject, instructor, section)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		var section interface{}
		if e.Section != nil {
			section = *e.Section
		}
		if _, err := tx.ExecContext(ctx, ins,
			lab, e.Day, e.StartTime, e.EndTime, e.Subject, e.Instructor, section); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
