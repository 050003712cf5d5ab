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

type stubReturns struct {
	rental *model.Rental
	err    error

	gotCustomerID uint64
	gotMovieID    uint64
}

func (s *stubReturns) ProcessReturn(_ context.Context, customerID, movieID uint64) (*model.Rental, error) {
	s.gotCustomerID = customerID
	s.gotMovieID = movieID
	if s.err != nil {
		return nil, s.err
	}
	return s.rental, nil
}

func completedRental() *model.Rental {
	out := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	back := out.Add(7 * 24 * time.Hour)
	fee := 14.0
	return &model.Rental{
		ID:           1,
		Customer:     model.RentalCustomer{ID: 7, Name: "Marta Reyes", Phone: "555-0142"},
		Movie:        model.RentalMovie{ID: 9, Title: "The Terminator", DailyRentalRate: 2},
		DateOut:      out,
		DateReturned: &back,
		RentalFee:    &fee,
	}
}

func postReturn(t *testing.T, svc ReturnProcessor, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/returns", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, NewReturnHandler(svc).Process(c))
	return rec
}

func TestReturnEndpoint(t *testing.T) {
	t.Run("missing customerId is a 400", func(t *testing.T) {
		rec := postReturn(t, &stubReturns{}, `{"movieId":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing movieId is a 400", func(t *testing.T) {
		rec := postReturn(t, &stubReturns{}, `{"customerId":7}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no rental for the pair is a 404", func(t *testing.T) {
		svc := &stubReturns{err: repository.ErrRentalNotFound}
		rec := postReturn(t, svc, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, uint64(7), svc.gotCustomerID)
		assert.Equal(t, uint64(9), svc.gotMovieID)
	})

	t.Run("already processed return is a 400", func(t *testing.T) {
		svc := &stubReturns{err: model.ErrAlreadyReturned}
		rec := postReturn(t, svc, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected failure is a 500", func(t *testing.T) {
		svc := &stubReturns{err: context.DeadlineExceeded}
		rec := postReturn(t, svc, `{"customerId":7,"movieId":9}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("valid return responds 200 with the completed rental", func(t *testing.T) {
		svc := &stubReturns{rental: completedRental()}
		rec := postReturn(t, svc, `{"customerId":7,"movieId":9}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		for _, key := range []string{"id", "customer", "movie", "dateOut", "dateReturned", "rentalFee"} {
			assert.Contains(t, got, key)
		}
		assert.Equal(t, 14.0, got["rentalFee"])

		customer, ok := got["customer"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Marta Reyes", customer["name"])
	})
}
