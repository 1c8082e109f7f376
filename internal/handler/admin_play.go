package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/model"
	"github.com/stagebook/stagebook/internal/repository"
)

type playReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration_min"`
	GenreIDs    []uint64 `json:"genre_ids"`
	ActorIDs    []uint64 `json:"actor_ids"`
}

func (req *playReq) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return errors.New("title is required")
	}
	if req.DurationMin == 0 {
		return errors.New("duration_min must be positive")
	}
	return nil
}

// CreatePlay handles POST /api/v1/plays.  Genre and actor links are replaced
// wholesale; unknown IDs fail the whole request.
func (h *AdminHandler) CreatePlay(c echo.Context) error {
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p := &model.Play{Title: req.Title, Description: req.Description, DurationMin: req.DurationMin}
	if err := h.Plays.Create(c.Request().Context(), p, req.GenreIDs, req.ActorIDs); err != nil {
		if errors.Is(err, repository.ErrBadReference) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create play failed"})
	}
	row, err := h.Plays.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load play failed"})
	}
	return c.JSON(http.StatusCreated, row)
}

// UpdatePlay handles PUT /api/v1/plays/:id.
func (h *AdminHandler) UpdatePlay(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p := &model.Play{ID: id, Title: req.Title, Description: req.Description, DurationMin: req.DurationMin}
	if err := h.Plays.Update(c.Request().Context(), p, req.GenreIDs, req.ActorIDs); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrPlayNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		case errors.Is(err, repository.ErrBadReference):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor id"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update play failed"})
		}
	}
	row, err := h.Plays.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load play failed"})
	}
	return c.JSON(http.StatusOK, row)
}

// DeletePlay handles DELETE /api/v1/plays/:id.  Plays with scheduled
// performances cannot be removed.
func (h *AdminHandler) DeletePlay(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Plays.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrPlayNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "play has scheduled performances"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete play failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
