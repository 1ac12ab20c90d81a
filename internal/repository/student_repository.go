package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// StudentRepo reads the enrolled-student roster. The roster is loaded by an
// external enrollment process; this service only ever looks rows up by id.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// GetByID fetches a roster row by student id.
func (r *StudentRepo) GetByID(ctx context.Context, id string) (model.Student, error) {
	var s model.Student
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, program FROM students WHERE id = ? LIMIT 1`,
		id).Scan(&s.ID, &s.Name, &s.Program)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrStudentNotFound
	}
	return s, err
}
