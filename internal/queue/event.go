// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatAssignedEvent is published when a student successfully claims a seat.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type SeatAssignedEvent struct {
	AssignmentID uint64 `json:"assignment_id"`
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	Program      string `json:"program"`
	Lab          string `json:"lab"`
	Seat         string `json:"seat"`
	Subject      string `json:"subject"`
	Instructor   string `json:"instructor"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
	AssignedAt   string `json:"assigned_at"`
}

// LabReleasedEvent is published when the release scheduler frees a lab at
// the end of its class window. ReleasedCount feeds the operational audit
// trail.
type LabReleasedEvent struct {
	Lab           string `json:"lab"`
	Subject       string `json:"subject"`
	ReleasedCount int    `json:"released_count"`
	ReleasedAt    string `json:"released_at"`
}
