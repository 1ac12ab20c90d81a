package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/model"
	"github.com/campuslab/lab-seat-service/internal/repository"
)

// SeatHandler serves the seat map and the staff layout/maintenance surface.
type SeatHandler struct {
	Seats *repository.SeatRepo
	Labs  map[string]bool
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(sr *repository.SeatRepo, labs map[string]bool) *SeatHandler {
	if sr == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{Seats: sr, Labs: labs}
}

type seatPart struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Number  int    `json:"number"`
	GridRow int    `json:"grid_row"`
	GridCol int    `json:"grid_col"`
	Status  string `json:"status"`
}

// ListSeats handles GET /api/labs/:lab/seats: the full layout and state, in
// the order the floor plan draws it.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	seats, err := h.Seats.ListByLab(c.Request().Context(), lab)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	out := make([]seatPart, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatPart{
			Key: s.Key(), Kind: s.Kind, Number: s.Number,
			GridRow: s.GridRow, GridCol: s.GridCol, Status: string(s.Status),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "seats": out})
}

// OccupiedSeats handles GET /api/labs/:lab/occupied: the sorted list of
// "<kind>-<number>" keys currently taken, for the seat picker to grey out.
func (h *SeatHandler) OccupiedSeats(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	keys, err := h.Seats.OccupiedKeys(c.Request().Context(), lab)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load occupancy"})
	}
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "occupied": out})
}

type layoutReq struct {
	Seats []struct {
		Kind    string `json:"kind"`
		Number  int    `json:"number"`
		GridRow int    `json:"grid_row"`
		GridCol int    `json:"grid_col"`
	} `json:"seats"`
}

// ReplaceLayout handles PUT /api/labs/:lab/seats (admin): swaps the lab's
// whole seat layout in one transaction. All new seats start available, so
// this is for configuration windows, not mid-class edits.
func (h *SeatHandler) ReplaceLayout(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	var req layoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seats := make([]model.Seat, 0, len(req.Seats))
	seen := make(map[string]bool, len(req.Seats))
	for _, s := range req.Seats {
		if (s.Kind != model.KindPC && s.Kind != model.KindLaptop) || s.Number <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each seat needs kind PC|LAPTOP and a positive number"})
		}
		key := model.SeatKey(s.Kind, s.Number)
		if seen[key] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat " + key})
		}
		seen[key] = true
		seats = append(seats, model.Seat{
			Kind: s.Kind, Number: s.Number, GridRow: s.GridRow, GridCol: s.GridCol,
		})
	}
	if err := h.Seats.ReplaceLayout(c.Request().Context(), lab, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save layout"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "saved": len(seats)})
}

type statusReq struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SetStatus handles PUT /api/labs/:lab/seats/:key/status (staff). It goes
// through the same compare-and-swap transition as assignment, so marking a
// seat for maintenance cannot clobber a concurrent claim: the staff client
// states which status it believes the seat has.
func (h *SeatHandler) SetStatus(c echo.Context) error {
	lab := c.Param("lab")
	if !h.Labs[lab] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lab"})
	}
	kind, number, err := model.ParseSeatKey(c.Param("key"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown seat"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, to := model.SeatStatus(req.From), model.SeatStatus(req.To)
	if !model.ValidSeatStatus(from) || !model.ValidSeatStatus(to) || from == to {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be distinct seat statuses"})
	}

	err = h.Seats.Transition(c.Request().Context(), lab, kind, number, from, to)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"seat": model.SeatKey(kind, number), "status": to})
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown seat"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat status changed concurrently, reload"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seat"})
	}
}
