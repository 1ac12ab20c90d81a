package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
	"github.com/campuslab/lab-seat-service/internal/schedule"
)

// ScheduleHandler serves the weekly schedule of each lab and the admin
// endpoint that replaces it.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Matcher   *schedule.Matcher
	Labs      map[string]bool
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(sr *repository.ScheduleRepo, m *schedule.Matcher, labs map[string]bool) *ScheduleHandler {
	if sr == nil || m == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedules: sr, Matcher: m, Labs: labs}
}

type entryPart struct {
	Day        string  `json:"day"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Subject    string  `json:"subject"`
	Instructor string  `json:"instructor"`
	Section    *string `json:"section,omitempty"`
}

func toEntryPart(e model.ScheduleEntry) entryPart {
	return entryPart{
		Day: e.Day, StartTime: e.StartTime, EndTime: e.EndTime,
		Subject: e.Subject, Instructor: e.Instructor, Section: e.Section,
	}
}

// List handles GET /api/labs/:lab/schedule: the lab's full week.
func (h *ScheduleHandler) List(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	entries, err := h.Schedules.ListByLab(c.Request().Context(), lab)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	out := make([]entryPart, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryPart(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "total": len(out), "entries": out})
}

// Replace handles PUT /api/labs/:lab/schedule (admin): the admin UI submits
// the whole week at once and the repository swaps it transactionally. Each
// entry is validated for HH:MM format and weekday before anything is written.
func (h *ScheduleHandler) Replace(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	var req struct {
		Entries []entryPart `json:"entries"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	entries := make([]model.ScheduleEntry, 0, len(req.Entries))
	for i, p := range req.Entries {
		e := model.ScheduleEntry{
			Lab: lab, Day: p.Day, StartTime: p.StartTime, EndTime: p.EndTime,
			Subject: p.Subject, Instructor: p.Instructor, Section: p.Section,
		}
		if err := e.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
				"index": i,
			})
		}
		entries = append(entries, e)
	}
	if err := h.Schedules.ReplaceForLab(c.Request().Context(), lab, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "total": len(entries)})
}

// CurrentClass handles GET /api/labs/:lab/current-class: the active schedule
// entry right now, or null when the lab is idle. The seat picker uses this
// to tell students why assignment is closed.
func (h *ScheduleHandler) CurrentClass(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	entry, err := h.Matcher.ActiveSchedule(c.Request().Context(), lab)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve schedule"})
	}
	if entry == nil {
		return c.JSON(http.StatusOK, echo.Map{"lab": lab, "active": false, "class": nil})
	}
	p := toEntryPart(*entry)
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "active": true, "class": p})
}
