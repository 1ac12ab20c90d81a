package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/clock"
)

// TimeHandler reports server time in UTC and in the institutional zone so
// kiosk clients can sanity-check their own clocks against the one that
// actually gates assignment.
type TimeHandler struct {
	Clk clock.Clock
}

// Now handles GET /api/time.
func (h *TimeHandler) Now(c echo.Context) error {
	now := h.Clk.Now()
	return c.JSON(http.StatusOK, echo.Map{
		"utc":        time.Now().UTC().Format(time.RFC3339),
		"local":      now.Format(time.RFC3339),
		"local_hhmm": clock.HHMM(now),
		"weekday":    clock.Weekday(now),
	})
}
