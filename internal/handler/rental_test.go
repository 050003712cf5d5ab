package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

type stubCheckout struct {
	rental *model.Rental
	err    error
}

func (s *stubCheckout) Checkout(context.Context, uint64, uint64) (*model.Rental, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rental, nil
}

func postRental(t *testing.T, svc CheckoutService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := &RentalHandler{Rentals: &repository.RentalRepo{}, Checkout: svc}
	require.NoError(t, h.Create(c))
	return rec
}

func TestRentalCheckoutEndpoint(t *testing.T) {
	t.Run("missing ids are a 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, postRental(t, &stubCheckout{}, `{"movieId":9}`).Code)
		assert.Equal(t, http.StatusBadRequest, postRental(t, &stubCheckout{}, `{"customerId":7}`).Code)
	})

	t.Run("unknown customer or movie is a 400", func(t *testing.T) {
		rec := postRental(t, &stubCheckout{err: repository.ErrCustomerNotFound}, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = postRental(t, &stubCheckout{err: repository.ErrMovieNotFound}, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out of stock is a 400", func(t *testing.T) {
		rec := postRental(t, &stubCheckout{err: repository.ErrOutOfStock}, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not in stock")
	})

	t.Run("successful checkout responds 200 with an open rental", func(t *testing.T) {
		rental := &model.Rental{
			ID:       3,
			Customer: model.RentalCustomer{ID: 7, Name: "Marta Reyes", Phone: "555-0142"},
			Movie:    model.RentalMovie{ID: 9, Title: "The Terminator", DailyRentalRate: 2},
			DateOut:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		}
		rec := postRental(t, &stubCheckout{rental: rental}, `{"customerId":7,"movieId":9}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, float64(3), got["id"])
		assert.Contains(t, got, "dateOut")
		assert.Nil(t, got["dateReturned"])
	})
}
