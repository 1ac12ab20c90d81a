package repository // repository defines data access for lab seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// SeatRepo is the authoritative store for seat state. Transition is the only
// way any caller mutates a single seat's status; it is a conditional UPDATE
// checked through RowsAffected, so two concurrent claims on the same seat
// can never both succeed.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// ListByLab retrieves the full layout and state of a lab ordered by kind
// then number, the order the floor-plan UI draws them in.
func (r *SeatRepo) ListByLab(ctx context.Context, lab string) ([]model.Seat, error) {
	const q = `SELECT id, lab, kind, number, grid_row, grid_col, status, created_at, updated_at
	           FROM seats
	           WHERE lab = ?
	           ORDER BY kind, number`
	rows, err := r.db.QueryContext(ctx, q, lab)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(
			&s.ID, &s.Lab, &s.Kind, &s.Number, &s.GridRow, &s.GridCol,
			&s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OccupiedKeys returns the set of "<kind>-<number>" keys currently occupied
// in a lab, used by the seat picker to grey out taken seats.
func (r *SeatRepo) OccupiedKeys(ctx context.Context, lab string) (map[string]bool, error) {
	const q = `SELECT CONCAT(kind, '-', number)
	           FROM seats
	           WHERE lab = ? AND status = 'occupied'`
	rows, err := r.db.QueryContext(ctx, q, lab)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Transition applies a compare-and-swap status change on one seat. The UPDATE
// only matches when the seat still has the expected `from` status; zero
// affected rows means either the seat does not exist (ErrSeatNotFound) or a
// concurrent writer got there first (ErrConflict).
func (r *SeatRepo) Transition(ctx context.Context, lab, kind string, number int, from, to model.SeatStatus) error {
	const q = `UPDATE seats
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE lab = ? AND kind = ? AND number = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, lab, kind, number, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Distinguish a lost race from a bad key.
	var cur model.SeatStatus
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM seats WHERE lab = ? AND kind = ? AND number = ?`,
		lab, kind, number).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSeatNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

// BulkRelease flips every occupied seat in a lab back to available and
// returns how many changed. Seats in maintenance are untouched, and running
// it twice is harmless: the second call matches nothing.
func (r *SeatRepo) BulkRelease(ctx context.Context, lab string) (int, error) {
	const q = `UPDATE seats
	           SET status = 'available', updated_at = CURRENT_TIMESTAMP
	           WHERE lab = ? AND status = 'occupied'`
	res, err := r.db.ExecContext(ctx, q, lab)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReplaceLayout swaps a lab's entire seat layout inside one transaction.
// Existing rows are deleted and the new layout inserted in a single
// multi-row statement. New seats start available.
func (r *SeatRepo) ReplaceLayout(ctx context.Context, lab string, seats []model.Seat) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE lab = ?`, lab); err != nil {
		return err
	}
	if len(seats) > 0 {
		query := `INSERT INTO seats (lab, kind, number, grid_row, grid_col, status) VALUES `
		args := make([]interface{}, 0, len(seats)*6)
		for i, s := range seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, 'available')"
			args = append(args, lab, s.Kind, s.Number, s.GridRow, s.GridCol)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
