// Package roster implements the identity-verification contract against the
// enrolled-student roster.
package roster

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
)

// Store is the roster lookup dependency, satisfied by the MySQL StudentRepo
// and the in-memory roster in tests.
type Store interface {
	GetByID(ctx context.Context, id string) (model.Student, error)
}

// ErrNoMatch means the student id is unknown or the scanned name does not
// belong to that id. It is a business outcome, not an infrastructure error;
// the coordinator maps it to an identity_invalid rejection.
var ErrNoMatch = errors.New("identity does not match roster")

// Verifier confirms that a scanned {id, name} pair belongs to an enrolled
// student and returns the canonical roster fields. Every lookup runs under
// a timeout so a slow roster backend cannot stall seat assignment for the
// students queueing behind.
type Verifier struct {
	store   Store
	timeout time.Duration
}

// NewVerifier builds a Verifier. A non-positive timeout defaults to three
// seconds.
func NewVerifier(store Store, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Verifier{store: store, timeout: timeout}
}

// Verify looks up the id and compares names case-insensitively, the same
// tolerance the hand-typed fallback form always had. On success the roster's
// canonical name and program are returned, not the scanned ones.
func (v *Verifier) Verify(ctx context.Context, id, name string) (model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	s, err := v.store.GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, repository.ErrStudentNotFound) {
		return model.Student{}, ErrNoMatch
	}
	if err != nil {
		return model.Student{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(name), s.Name) {
		return model.Student{}, ErrNoMatch
	}
	return s, nil
}
