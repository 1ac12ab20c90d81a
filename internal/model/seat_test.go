package model

import "testing"

func TestSeatKey_RoundTrip(t *testing.T) {
	key := SeatKey(KindPC, 5)
	if key != "PC-5" {
		t.Fatalf("SeatKey(PC, 5) = %q, want %q", key, "PC-5")
	}
	kind, number, err := ParseSeatKey(key)
	if err != nil {
		t.Fatalf("ParseSeatKey(%q): %v", key, err)
	}
	if kind != KindPC || number != 5 {
		t.Errorf("ParseSeatKey(%q) = (%q, %d), want (PC, 5)", key, kind, number)
	}
}

func TestParseSeatKey_LowercaseKind(t *testing.T) {
	kind, number, err := ParseSeatKey("laptop-12")
	if err != nil {
		t.Fatalf("ParseSeatKey(laptop-12): %v", err)
	}
	if kind != KindLaptop || number != 12 {
		t.Errorf("got (%q, %d), want (LAPTOP, 12)", kind, number)
	}
}

func TestParseSeatKey_Invalid(t *testing.T) {
	bad := []string{"", "PC", "PC-", "-5", "PC-0", "PC--3", "PC-x", "DESK-5"}
	for _, key := range bad {
		if _, _, err := ParseSeatKey(key); err == nil {
			t.Errorf("ParseSeatKey(%q) accepted, want error", key)
		}
	}
}

func TestValidSeatStatus(t *testing.T) {
	for _, s := range []SeatStatus{SeatAvailable, SeatOccupied, SeatMaintenance} {
		if !ValidSeatStatus(s) {
			t.Errorf("ValidSeatStatus(%q) = false, want true", s)
		}
	}
	if ValidSeatStatus("broken") {
		t.Error(`ValidSeatStatus("broken") = true, want false`)
	}
}
