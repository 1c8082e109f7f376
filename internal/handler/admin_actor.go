package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/model"
)

type actorReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type actorResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func toActorResp(a *model.Actor) actorResp {
	return actorResp{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, FullName: a.FullName()}
}

func (req *actorReq) validate() error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return errors.New("first_name and last_name are required")
	}
	return nil
}

// CreateActor handles POST /api/v1/actors.
func (h *AdminHandler) CreateActor(c echo.Context) error {
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	a := &model.Actor{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Create(c.Request().Context(), a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create actor failed"})
	}
	return c.JSON(http.StatusCreated, toActorResp(a))
}

// UpdateActor handles PUT /api/v1/actors/:id.
func (h *AdminHandler) UpdateActor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	a := &model.Actor{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Update(c.Request().Context(), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update actor failed"})
	}
	return c.JSON(http.StatusOK, toActorResp(a))
}

// DeleteActor handles DELETE /api/v1/actors/:id.
func (h *AdminHandler) DeleteActor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete actor failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
