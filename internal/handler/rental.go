package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// CheckoutService is the slice of the rental service this handler
// needs to open a rental.
type CheckoutService interface {
	Checkout(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
}

// RentalHandler serves the rental endpoints: listing, lookup and
// checkout. Reads go straight to the repository; checkout goes through
// the service so the stock bookkeeping stays in one place.
type RentalHandler struct {
	Rentals  *repository.RentalRepo
	Checkout CheckoutService
}

// NewRentalHandler constructs a RentalHandler.
func NewRentalHandler(rentals *repository.RentalRepo, checkout CheckoutService) *RentalHandler {
	if rentals == nil || checkout == nil {
		panic("nil dependency passed to NewRentalHandler")
	}
	return &RentalHandler{Rentals: rentals, Checkout: checkout}
}

type rentalReq struct {
	CustomerID uint64 `json:"customerId"`
	MovieID    uint64 `json:"movieId"`
}

// List handles GET /api/rentals, newest first.
func (h *RentalHandler) List(c echo.Context) error {
	rentals, err := h.Rentals.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rentals)
}

// Get handles GET /api/rentals/:id.
func (h *RentalHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	rental, err := h.Rentals.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rental)
}

// Create handles POST /api/rentals. It opens a rental for the given
// customer/movie pair and takes one copy out of stock.
func (h *RentalHandler) Create(c echo.Context) error {
	var req rentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customerId is required"})
	}
	if req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}

	rental, err := h.Checkout.Checkout(c.Request().Context(), req.CustomerID, req.MovieID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, rental)
	case errors.Is(err, repository.ErrCustomerNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer"})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie"})
	case errors.Is(err, repository.ErrOutOfStock):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not in stock"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
}
