package scan

import (
	"errors"
	"testing"
)

func TestParse_PipeDelimited(t *testing.T) {
	s, err := Parse("12345678|Ana Ruiz|ISC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "12345678" || s.Name != "Ana Ruiz" || s.Program != "ISC" {
		t.Errorf("parsed %+v, want {12345678 Ana Ruiz ISC}", s)
	}
}

func TestParse_PipeDelimited_TrimsFields(t *testing.T) {
	s, err := Parse("  12345678 | Ana Ruiz | ISC ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "12345678" || s.Name != "Ana Ruiz" || s.Program != "ISC" {
		t.Errorf("parsed %+v, want trimmed fields", s)
	}
}

func TestParse_SpaceDelimited_MultiWordName(t *testing.T) {
	s, err := Parse("87654321 Juan Carlos Pérez IME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "87654321" {
		t.Errorf("id = %q, want 87654321", s.ID)
	}
	if s.Name != "Juan Carlos Pérez" {
		t.Errorf("name = %q, want %q", s.Name, "Juan Carlos Pérez")
	}
	if s.Program != "IME" {
		t.Errorf("program = %q, want IME", s.Program)
	}
}

func TestParse_Malformed(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"12345678",
		"12345678 Ana",
		"12345678|Ana Ruiz",
		"12345678|Ana Ruiz|ISC|extra",
		"12345678||ISC",
	}
	for _, raw := range bad {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want ErrMalformed", raw, err)
		}
	}
}
