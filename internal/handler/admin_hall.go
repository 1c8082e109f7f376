package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/model"
	"github.com/stagebook/stagebook/internal/repository"
)

// AdminHandler bundles the catalog repositories behind the ADMIN-only write
// endpoints.
type AdminHandler struct {
	Halls        *repository.HallRepo
	Genres       *repository.GenreRepo
	Actors       *repository.ActorRepo
	Plays        *repository.PlayRepo
	Performances *repository.PerformanceRepo
}

func NewAdminHandler(h *repository.HallRepo, g *repository.GenreRepo, a *repository.ActorRepo, p *repository.PlayRepo, pf *repository.PerformanceRepo) *AdminHandler {
	return &AdminHandler{Halls: h, Genres: g, Actors: a, Plays: p, Performances: pf}
}

type hallReq struct {
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
}

type hallResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
	Capacity   uint32 `json:"capacity"`
}

func toHallResp(h *model.TheatreHall) hallResp {
	return hallResp{ID: h.ID, Name: h.Name, Rows: h.Rows, SeatsInRow: h.SeatsInRow, Capacity: h.Capacity()}
}

func (req hallReq) validate() error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Rows == 0 || req.SeatsInRow == 0 {
		return errors.New("rows and seats_in_row must be positive")
	}
	return nil
}

// CreateHall handles POST /api/v1/halls.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	hall := &model.TheatreHall{Name: req.Name, Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hall failed"})
	}
	return c.JSON(http.StatusCreated, toHallResp(hall))
}

// UpdateHall handles PUT /api/v1/halls/:id.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	hall := &model.TheatreHall{ID: id, Name: req.Name, Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Update(c.Request().Context(), hall); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hall failed"})
	}
	return c.JSON(http.StatusOK, toHallResp(hall))
}

// DeleteHall handles DELETE /api/v1/halls/:id.  Halls referenced by
// performances cannot be removed.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall has scheduled performances"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete hall failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
