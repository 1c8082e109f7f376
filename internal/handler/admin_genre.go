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

type genreReq struct {
	Name string `json:"name"`
}

type genreResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CreateGenre handles POST /api/v1/genres.  Genre names are unique.
func (h *AdminHandler) CreateGenre(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := &model.Genre{Name: req.Name}
	if err := h.Genres.Create(c.Request().Context(), g); err != nil {
		if errors.Is(err, repository.ErrGenreExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, genreResp{ID: g.ID, Name: g.Name})
}

// UpdateGenre handles PUT /api/v1/genres/:id.
func (h *AdminHandler) UpdateGenre(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := &model.Genre{ID: id, Name: req.Name}
	if err := h.Genres.Update(c.Request().Context(), g); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		case errors.Is(err, repository.ErrGenreExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update genre failed"})
		}
	}
	return c.JSON(http.StatusOK, genreResp{ID: g.ID, Name: g.Name})
}

// DeleteGenre handles DELETE /api/v1/genres/:id.
func (h *AdminHandler) DeleteGenre(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete genre failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
