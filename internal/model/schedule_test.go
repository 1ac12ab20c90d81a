package model

import "testing"

func TestScheduleEntry_Contains_BoundariesInclusive(t *testing.T) {
	e := ScheduleEntry{StartTime: "07:00", EndTime: "07:50"}

	cases := []struct {
		clock string
		want  bool
	}{
		{"06:59", false},
		{"07:00", true},
		{"07:25", true},
		{"07:50", true},
		{"07:51", false},
	}
	for _, c := range cases {
		if got := e.Contains(c.clock); got != c.want {
			t.Errorf("Contains(%q) = %v, want %v", c.clock, got, c.want)
		}
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "07:05", "13:30", "23:59"}
	for _, s := range valid {
		if !ValidClock(s) {
			t.Errorf("ValidClock(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "7:00", "24:00", "12:60", "12:5", "1200", "12:00:00"}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Errorf("ValidClock(%q) = true, want false", s)
		}
	}
}

func TestScheduleEntry_Validate(t *testing.T) {
	ok := ScheduleEntry{
		Lab: "lab1", Day: "Monday",
		StartTime: "08:00", EndTime: "08:50",
		Subject: "Redes", Instructor: "Gómez",
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	bad := []ScheduleEntry{
		{Day: "Monday", StartTime: "8:00", EndTime: "08:50", Subject: "Redes"},
		{Day: "Monday", StartTime: "08:50", EndTime: "08:00", Subject: "Redes"},
		{Day: "Monday", StartTime: "08:00", EndTime: "08:00", Subject: "Redes"},
		{Day: "Lunes", StartTime: "08:00", EndTime: "08:50", Subject: "Redes"},
		{Day: "Monday", StartTime: "08:00", EndTime: "08:50"},
	}
	for i, e := range bad {
		if err := e.Validate(); err == nil {
			t.Errorf("case %d: invalid entry %+v accepted", i, e)
		}
	}
}
