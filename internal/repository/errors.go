// Package repository defines data access for labs, schedules, seats,
// assignments and the student roster. Sentinel errors declared here let
// handlers and the assignment coordinator distinguish failure scenarios
// with errors.Is instead of string matching.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup or transition targets a
// seat key that does not exist in the lab.
var ErrSeatNotFound = errors.New("seat not found")

// ErrLabNotFound is returned when an operation names a lab that is not
// configured in the registry.
var ErrLabNotFound = errors.New("lab not found")

// ErrStudentNotFound is returned when the roster has no row for a student id.
var ErrStudentNotFound = errors.New("student not found")

// ErrConflict is returned by the seat compare-and-swap transition when the
// seat's current status differs from the expected one. The caller lost a
// race (or is looking at stale availability) and must re-present state.
var ErrConflict = errors.New("conflict")
