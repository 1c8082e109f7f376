package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/repository"
)

// PublicHandler serves the unauthenticated catalog reads.
type PublicHandler struct {
	Halls        *repository.HallRepo
	Genres       *repository.GenreRepo
	Actors       *repository.ActorRepo
	Plays        *repository.PlayRepo
	Performances *repository.PerformanceRepo
}

func NewPublicHandler(h *repository.HallRepo, g *repository.GenreRepo, a *repository.ActorRepo, p *repository.PlayRepo, pf *repository.PerformanceRepo) *PublicHandler {
	return &PublicHandler{Halls: h, Genres: g, Actors: a, Plays: p, Performances: pf}
}

// ListHalls handles GET /api/v1/halls.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list halls failed"})
	}
	out := make([]hallResp, 0, len(halls))
	for _, hall := range halls {
		out = append(out, toHallResp(hall))
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": out})
}

// GetHall handles GET /api/v1/halls/:id.
func (h *PublicHandler) GetHall(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get hall failed"})
	}
	return c.JSON(http.StatusOK, toHallResp(hall))
}

// ListGenres handles GET /api/v1/genres.
func (h *PublicHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list genres failed"})
	}
	out := make([]genreResp, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreResp{ID: g.ID, Name: g.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": out})
}

// GetGenre handles GET /api/v1/genres/:id.
func (h *PublicHandler) GetGenre(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get genre failed"})
	}
	return c.JSON(http.StatusOK, genreResp{ID: g.ID, Name: g.Name})
}

// ListActors handles GET /api/v1/actors.
func (h *PublicHandler) ListActors(c echo.Context) error {
	actors, err := h.Actors.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list actors failed"})
	}
	out := make([]actorResp, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"actors": out})
}

// GetActor handles GET /api/v1/actors/:id.
func (h *PublicHandler) GetActor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get actor failed"})
	}
	return c.JSON(http.StatusOK, toActorResp(a))
}

// ListPlays handles GET /api/v1/plays with ?title=&genres=1,2&actors=3&page=&page_size=.
func (h *PublicHandler) ListPlays(c echo.Context) error {
	page, pageSize := pageParams(c)
	f := repository.PlayFilter{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		GenreIDs: parseIDList(c.QueryParam("genres")),
		ActorIDs: parseIDList(c.QueryParam("actors")),
		Page:     page,
		PageSize: pageSize,
	}
	plays, total, err := h.Plays.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list plays failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"plays":     plays,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPlay handles GET /api/v1/plays/:id.
func (h *PublicHandler) GetPlay(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	row, err := h.Plays.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get play failed"})
	}
	return c.JSON(http.StatusOK, row)
}

// ListPerformances handles GET /api/v1/performances with ?date=2026-01-02&play=&page=&page_size=.
func (h *PublicHandler) ListPerformances(c echo.Context) error {
	page, pageSize := pageParams(c)
	f := repository.PerformanceFilter{Page: page, PageSize: pageSize}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		f.Date = d
	}
	if ids := parseIDList(c.QueryParam("play")); len(ids) == 1 {
		f.PlayID = ids[0]
	}
	perfs, total, err := h.Performances.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list performances failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"performances": perfs,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

// GetPerformance handles GET /api/v1/performances/:id.  The detail includes
// the hall grid and already-taken seats so a client can render a seat map.
func (h *PublicHandler) GetPerformance(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Performances.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get performance failed"})
	}
	return c.JSON(http.StatusOK, detail)
}
