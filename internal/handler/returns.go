package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// ReturnProcessor is the slice of the return service this handler
// needs.
type ReturnProcessor interface {
	ProcessReturn(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
}

// ReturnHandler serves POST /api/returns, the endpoint clerks hit when
// a customer brings a movie back.
type ReturnHandler struct {
	Returns ReturnProcessor
}

// NewReturnHandler constructs a ReturnHandler.
func NewReturnHandler(returns ReturnProcessor) *ReturnHandler {
	if returns == nil {
		panic("nil service passed to NewReturnHandler")
	}
	return &ReturnHandler{Returns: returns}
}

type returnReq struct {
	CustomerID uint64 `json:"customerId"`
	MovieID    uint64 `json:"movieId"`
}

// Process handles POST /api/returns.
//
// Status contract: 400 when either id is missing or the rental was
// already returned, 404 when no rental exists for the pair, 200 with
// the completed rental on success.
func (h *ReturnHandler) Process(c echo.Context) error {
	var req returnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customerId is required"})
	}
	if req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}

	rental, err := h.Returns.ProcessReturn(c.Request().Context(), req.CustomerID, req.MovieID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, rental)
	case errors.Is(err, repository.ErrRentalNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no rental found for this customer and movie"})
	case errors.Is(err, model.ErrAlreadyReturned):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "return already processed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "return failed"})
	}
}
