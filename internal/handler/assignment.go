package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/assign"
	"github.com/campuslab/lab-seat-service/internal/clock"
	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
)

// AssignmentHandler exposes the seat-assignment flow and the assignment
// audit views. The registration endpoint is public: the kiosk at the lab
// door is unauthenticated, the scan itself is the credential.
type AssignmentHandler struct {
	Coordinator *assign.Coordinator
	Assignments *repository.AssignmentRepo
	Seats       *repository.SeatRepo
	Clk         clock.Clock
	Labs        map[string]bool
}

// NewAssignmentHandler constructs an AssignmentHandler.
func NewAssignmentHandler(co *assign.Coordinator, ar *repository.AssignmentRepo, sr *repository.SeatRepo, clk clock.Clock, labs map[string]bool) *AssignmentHandler {
	if co == nil || ar == nil || sr == nil {
		panic("nil dependency passed to NewAssignmentHandler")
	}
	return &AssignmentHandler{Coordinator: co, Assignments: ar, Seats: sr, Clk: clk, Labs: labs}
}

type assignReq struct {
	Scan string `json:"scan"`
	Lab  string `json:"lab"`
	Seat string `json:"seat"`
}

type assignmentPart struct {
	ID          uint64 `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Program     string `json:"program"`
	Lab         string `json:"lab"`
	Seat        string `json:"seat"`
	Subject     string `json:"subject"`
	Instructor  string `json:"instructor"`
	ClassDate   string `json:"class_date"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	CreatedAt   string `json:"created_at"`
	Released    bool   `json:"released"`
}

func toAssignmentPart(a model.Assignment) assignmentPart {
	return assignmentPart{
		ID:          a.ID,
		StudentID:   a.StudentID,
		StudentName: a.StudentName,
		Program:     a.Program,
		Lab:         a.Lab,
		Seat:        a.SeatKey(),
		Subject:     a.Subject,
		Instructor:  a.Instructor,
		ClassDate:   a.ClassDate,
		WindowStart: a.WindowStart,
		WindowEnd:   a.WindowEnd,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		Released:    !a.Live(),
	}
}

// Create handles POST /api/assignments. It runs one assignment attempt and
// maps the coordinator's structured rejections onto HTTP statuses the seat
// picker understands. Infrastructure failures are the only 500s.
func (h *AssignmentHandler) Create(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Scan == "" || req.Seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scan and seat are required"})
	}
	if !h.Labs[req.Lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab", "reason": "not_found"})
	}

	res, err := h.Coordinator.Assign(c.Request().Context(), req.Scan, req.Lab, req.Seat)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) || errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown seat", "reason": "not_found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment failed"})
	}

	switch res.Reason {
	case "":
		return c.JSON(http.StatusCreated, echo.Map{"assignment": toAssignmentPart(*res.Assignment)})
	case assign.ReasonIdentityInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"reason": res.Reason,
			"error":  "student could not be verified",
		})
	case assign.ReasonDuplicate:
		// Surface the seat already held so the student is not blocked silently.
		return c.JSON(http.StatusConflict, echo.Map{
			"reason":   res.Reason,
			"error":    "student already holds a seat for this class",
			"existing": toAssignmentPart(*res.Existing),
		})
	case assign.ReasonNoActiveClass:
		return c.JSON(http.StatusConflict, echo.Map{
			"reason": res.Reason,
			"error":  "no class is in session for this lab",
		})
	case assign.ReasonSeatTaken:
		return c.JSON(http.StatusConflict, echo.Map{
			"reason": res.Reason,
			"error":  "seat was just taken, pick another",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown rejection"})
	}
}

// List handles GET /api/assignments (staff). Optional ?lab= filter and
// ?limit= cap; newest first.
func (h *AssignmentHandler) List(c echo.Context) error {
	lab := c.QueryParam("lab")
	if lab != "" && !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}
	items, err := h.Assignments.ListRecent(c.Request().Context(), lab, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignments"})
	}
	out := make([]assignmentPart, 0, len(items))
	for _, a := range items {
		out = append(out, toAssignmentPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Release handles POST /api/labs/:lab/release (staff): a manual bulk release
// for when a class ends early. Same idempotent operations the scheduler runs.
func (h *AssignmentHandler) Release(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	ctx := c.Request().Context()
	count, err := h.Seats.BulkRelease(ctx, lab)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
	}
	if _, err := h.Assignments.ReleaseAllForLab(ctx, lab, h.Clk.Now()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "released": count})
}
