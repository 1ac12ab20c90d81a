package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/roster"
)

// StudentHandler exposes roster verification so the kiosk can validate a
// scan before showing the seat picker.
type StudentHandler struct {
	Verifier *roster.Verifier
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(v *roster.Verifier) *StudentHandler {
	if v == nil {
		panic("nil verifier passed to NewStudentHandler")
	}
	return &StudentHandler{Verifier: v}
}

type verifyReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Verify handles POST /api/students/verify. A roster mismatch is a valid
// business outcome (valid=false), not an error status; only infrastructure
// failures return 500.
func (h *StudentHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id and name are required"})
	}

	s, err := h.Verifier.Verify(c.Request().Context(), req.ID, req.Name)
	if errors.Is(err, roster.ErrNoMatch) {
		return c.JSON(http.StatusOK, echo.Map{"valid": false, "student": nil})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"student": echo.Map{
			"id":      s.ID,
			"name":    s.Name,
			"program": s.Program,
		},
	})
}
