package model

// Student is a roster row used to verify scan input. The roster is reference
// data maintained outside this service; the engine only reads it.
//
// Fields:
//  ID      – institutional student number (matricula).
//  Name    – canonical full name.
//  Program – study program / career.
type Student struct {
	ID      string // students.id
	Name    string // students.name
	Program string // students.program
}
