// Package scan decodes the raw string produced by the QR/barcode reader at
// the lab entrance. Symbol decoding itself happens on the client; this
// package only deals with the decoded text.
package scan

import (
	"errors"
	"strings"

	"github.com/campuslab/lab-seat-service/internal/model"
)

// ErrMalformed is returned when the scanned text cannot be split into the
// expected id / name / program fields.
var ErrMalformed = errors.New("malformed scan data")

// Parse extracts {id, name, program} from a scanned credential string.
// Two layouts are accepted:
//
//	pipe-delimited:   "12345678|Ana Ruiz|ISC"
//	space-delimited:  "12345678 Ana Ruiz ISC"
//
// In the space-delimited form the first token is the student id, the last
// token is the program code and everything between is the name. Name
// canonicalisation is the roster's job, not ours.
func Parse(raw string) (model.Student, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Student{}, ErrMalformed
	}

	if strings.Contains(raw, "|") {
		parts := strings.Split(raw, "|")
		if len(parts) != 3 {
			return model.Student{}, ErrMalformed
		}
		s := model.Student{
			ID:      strings.TrimSpace(parts[0]),
			Name:    strings.TrimSpace(parts[1]),
			Program: strings.TrimSpace(parts[2]),
		}
		if s.ID == "" || s.Name == "" || s.Program == "" {
			return model.Student{}, ErrMalformed
		}
		return s, nil
	}

	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return model.Student{}, ErrMalformed
	}
	return model.Student{
		ID:      fields[0],
		Name:    strings.Join(fields[1:len(fields)-1], " "),
		Program: fields[len(fields)-1],
	}, nil
}
