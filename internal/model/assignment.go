package model

import "time"

// Assignment binds one verified student to one seat for one class window.
// Records are created only by a successful coordinator commit and are never
// mutated afterwards; the release scheduler closes them by setting
// ReleasedAt when the owning class window ends.
//
// Fields:
//  ID          – primary key identifier.
//  StudentID   – roster identifier of the student.
//  StudentName – canonical name as returned by the roster.
//  Program     – study program of the student.
//  Lab         – lab code the seat belongs to.
//  SeatKind    – PC or LAPTOP.
//  SeatNumber  – seat number within lab+kind.
//  Subject     – subject of the class window.
//  Instructor  – instructor of the class window.
//  ClassDate   – civil date ("2006-01-02") of the class, institutional zone.
//  WindowStart – class start clock value ("HH:MM").
//  WindowEnd   – class end clock value ("HH:MM").
//  CreatedAt   – commit timestamp.
//  ReleasedAt  – when the lab was bulk released; nil while live.
type Assignment struct {
	ID          uint64     // assignments.id
	StudentID   string     // assignments.student_id
	StudentName string     // assignments.student_name
	Program     string     // assignments.program
	Lab         string     // assignments.lab
	SeatKind    string     // assignments.seat_kind
	SeatNumber  int        // assignments.seat_number
	Subject     string     // assignments.subject
	Instructor  string     // assignments.instructor
	ClassDate   string     // assignments.class_date
	WindowStart string     // assignments.window_start
	WindowEnd   string     // assignments.window_end
	CreatedAt   time.Time  // assignments.created_at
	ReleasedAt  *time.Time // assignments.released_at (nullable)
}

// SeatKey returns the "<kind>-<number>" key of the assigned seat.
func (a Assignment) SeatKey() string { return SeatKey(a.SeatKind, a.SeatNumber) }

// Live reports whether the assignment still holds its seat.
func (a Assignment) Live() bool { return a.ReleasedAt == nil }
