package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeatStatus enumerates the lifecycle states of a seat. Transitions between
// states go through the seat repository's compare-and-swap update; the
// maintenance state is only ever entered or left by staff action.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatOccupied    SeatStatus = "occupied"
	SeatMaintenance SeatStatus = "maintenance"
)

// ValidSeatStatus reports whether s is one of the known seat states.
func ValidSeatStatus(s SeatStatus) bool {
	switch s {
	case SeatAvailable, SeatOccupied, SeatMaintenance:
		return true
	}
	return false
}

// Seat kinds. A lab mixes desktop PCs and laptop slots; numbers are unique
// within one lab and kind, so "PC-5" and "LAPTOP-5" are different seats.
const (
	KindPC     = "PC"
	KindLaptop = "LAPTOP"
)

// Seat describes one assignable unit inside a lab.
//
// Fields:
//  ID        – primary key identifier.
//  Lab       – lab code (lab1..lab4) owning the seat.
//  Kind      – PC or LAPTOP.
//  Number    – seat number, unique within lab+kind.
//  GridRow   – row of the seat in the floor-plan grid.
//  GridCol   – column of the seat in the floor-plan grid.
//  Status    – current availability state.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Seat struct {
	ID        uint64     // seats.id
	Lab       string     // seats.lab
	Kind      string     // seats.kind
	Number    int        // seats.number
	GridRow   int        // seats.grid_row
	GridCol   int        // seats.grid_col
	Status    SeatStatus // seats.status
	CreatedAt time.Time  // seats.created_at
	UpdatedAt time.Time  // seats.updated_at
}

// Key returns the seat's presentation key, e.g. "PC-5".
func (s Seat) Key() string { return SeatKey(s.Kind, s.Number) }

// SeatKey builds the "<kind>-<number>" key used by the seat-picker UI and
// the occupied-seat listing.
func SeatKey(kind string, number int) string {
	return fmt.Sprintf("%s-%d", kind, number)
}

// ParseSeatKey splits a "<kind>-<number>" key back into its parts. The kind
// is upper-cased so client input like "pc-5" still resolves.
func ParseSeatKey(key string) (kind string, number int, err error) {
	i := strings.LastIndex(key, "-")
	if i <= 0 || i == len(key)-1 {
		return "", 0, fmt.Errorf("invalid seat key %q", key)
	}
	kind = strings.ToUpper(strings.TrimSpace(key[:i]))
	number, err = strconv.Atoi(key[i+1:])
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("invalid seat key %q", key)
	}
	if kind != KindPC && kind != KindLaptop {
		return "", 0, fmt.Errorf("unknown seat kind in %q", key)
	}
	return kind, number, nil
}
