package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/model"
	"github.com/stagebook/stagebook/internal/repository"
)

type performanceReq struct {
	PlayID   uint64 `json:"play_id"`
	HallID   uint64 `json:"hall_id"`
	ShowTime string `json:"show_time"` // RFC3339
}

func (req performanceReq) parse(requireFuture bool) (time.Time, error) {
	if req.PlayID == 0 || req.HallID == 0 {
		return time.Time{}, errors.New("play_id and hall_id are required")
	}
	st, err := time.Parse(time.RFC3339, req.ShowTime)
	if err != nil {
		return time.Time{}, errors.New("show_time must be RFC3339")
	}
	if requireFuture && !st.After(time.Now()) {
		return time.Time{}, errors.New("show_time must be in the future")
	}
	return st, nil
}

// CreatePerformance handles POST /api/v1/performances.  Show time must be in
// the future at creation.
func (h *AdminHandler) CreatePerformance(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, err := req.parse(true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p := &model.Performance{PlayID: req.PlayID, HallID: req.HallID, ShowTime: st.UTC()}
	if err := h.Performances.Create(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrBadReference) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown play or hall id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create performance failed"})
	}
	detail, err := h.Performances.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load performance failed"})
	}
	return c.JSON(http.StatusCreated, detail)
}

// UpdatePerformance handles PUT /api/v1/performances/:id.  Rescheduling past
// performances is allowed so the future check only applies at creation.
func (h *AdminHandler) UpdatePerformance(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, err := req.parse(false)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p := &model.Performance{ID: id, PlayID: req.PlayID, HallID: req.HallID, ShowTime: st.UTC()}
	if err := h.Performances.Update(c.Request().Context(), p); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrPerformanceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case errors.Is(err, repository.ErrBadReference):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown play or hall id"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update performance failed"})
		}
	}
	detail, err := h.Performances.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load performance failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// DeletePerformance handles DELETE /api/v1/performances/:id.  Performances
// with sold tickets cannot be removed.
func (h *AdminHandler) DeletePerformance(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Performances.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrPerformanceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "performance has sold tickets"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete performance failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
