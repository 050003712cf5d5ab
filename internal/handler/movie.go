package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// MovieHandler serves CRUD endpoints for the movie catalogue. Movies
// reference a genre by id; the handler resolves it so a bad genre id
// fails the request instead of producing a dangling row.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Genres *repository.GenreRepo
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(movies *repository.MovieRepo, genres *repository.GenreRepo) *MovieHandler {
	if movies == nil || genres == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Genres: genres}
}

type movieReq struct {
	Title           string  `json:"title"`
	GenreID         uint64  `json:"genreId"`
	NumberInStock   int     `json:"numberInStock"`
	DailyRentalRate float64 `json:"dailyRentalRate"`
}

func (r *movieReq) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if len(r.Title) < 5 || len(r.Title) > 255 {
		return errors.New("title must be 5 to 255 characters")
	}
	if r.GenreID == 0 {
		return errors.New("genreId is required")
	}
	if r.NumberInStock < 0 || r.NumberInStock > 255 {
		return errors.New("numberInStock must be between 0 and 255")
	}
	if r.DailyRentalRate < 0 || r.DailyRentalRate > 255 {
		return errors.New("dailyRentalRate must be between 0 and 255")
	}
	return nil
}

// List handles GET /api/movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /api/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	movie, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Create handles POST /api/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	genre, err := h.Genres.GetByID(ctx, req.GenreID)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	movie := &model.Movie{
		Title:           req.Title,
		Genre:           *genre,
		NumberInStock:   req.NumberInStock,
		DailyRentalRate: req.DailyRentalRate,
	}
	if err := h.Movies.Create(ctx, movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Update handles PUT /api/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	genre, err := h.Genres.GetByID(ctx, req.GenreID)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	movie := &model.Movie{
		ID:              id,
		Title:           req.Title,
		Genre:           *genre,
		NumberInStock:   req.NumberInStock,
		DailyRentalRate: req.DailyRentalRate,
	}
	if err := h.Movies.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /api/movies/:id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
