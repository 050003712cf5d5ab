package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// GenreHandler serves CRUD endpoints for genres. Listing and reading
// are public; create and update require authentication and delete
// additionally requires an admin (enforced by route middleware).
type GenreHandler struct {
	Genres *repository.GenreRepo
}

// NewGenreHandler constructs a GenreHandler.
func NewGenreHandler(genres *repository.GenreRepo) *GenreHandler {
	if genres == nil {
		panic("nil repository passed to NewGenreHandler")
	}
	return &GenreHandler{Genres: genres}
}

type genreReq struct {
	Name string `json:"name"`
}

// validate trims the name and enforces the 5..50 length rule.
func (r *genreReq) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) < 5 || len(r.Name) > 50 {
		return errors.New("name must be 5 to 50 characters")
	}
	return nil
}

// List handles GET /api/genres. Genres come back sorted by name.
func (h *GenreHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	genres, err := h.Genres.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, genres)
}

// Get handles GET /api/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	genre, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, genre)
}

// Create handles POST /api/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	genre := &model.Genre{Name: req.Name}
	if err := h.Genres.Create(c.Request().Context(), genre); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusOK, genre)
}

// Update handles PUT /api/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	genre := &model.Genre{ID: id, Name: req.Name}
	if err := h.Genres.Update(c.Request().Context(), genre); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update genre failed"})
	}
	return c.JSON(http.StatusOK, genre)
}

// Delete handles DELETE /api/genres/:id.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete genre failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
