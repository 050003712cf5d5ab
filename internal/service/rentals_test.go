package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

type memCustomers struct {
	customers map[uint64]*model.Customer
}

func (m *memCustomers) GetByID(_ context.Context, id uint64) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

type memMovies struct {
	movies     map[uint64]*model.Movie
	increments int
	decrements int
}

func (m *memMovies) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	mv, ok := m.movies[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	cp := *mv
	return &cp, nil
}

func (m *memMovies) DecrementStock(_ context.Context, id uint64) error {
	mv, ok := m.movies[id]
	if !ok {
		return repository.ErrMovieNotFound
	}
	if mv.NumberInStock == 0 {
		return repository.ErrOutOfStock
	}
	mv.NumberInStock--
	m.decrements++
	return nil
}

func (m *memMovies) IncrementStock(_ context.Context, id uint64) error {
	mv, ok := m.movies[id]
	if !ok {
		return repository.ErrMovieNotFound
	}
	mv.NumberInStock++
	m.increments++
	return nil
}

type memRentalCreator struct {
	created []*model.Rental
	err     error
}

func (m *memRentalCreator) Create(_ context.Context, r *model.Rental) error {
	if m.err != nil {
		return m.err
	}
	r.ID = uint64(len(m.created) + 1)
	m.created = append(m.created, r)
	return nil
}

func checkoutFixtures(stock int) (*memRentalCreator, *memCustomers, *memMovies) {
	customers := &memCustomers{customers: map[uint64]*model.Customer{
		7: {ID: 7, Name: "Marta Reyes", Phone: "555-0142", IsGold: true},
	}}
	movies := &memMovies{movies: map[uint64]*model.Movie{
		9: {ID: 9, Title: "The Terminator", NumberInStock: stock, DailyRentalRate: 2},
	}}
	return &memRentalCreator{}, customers, movies
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	dateOut := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates an open rental with snapshots", func(t *testing.T) {
		creator, customers, movies := checkoutFixtures(5)
		svc := NewRentalService(creator, customers, movies)
		svc.now = func() time.Time { return dateOut }

		rental, err := svc.Checkout(ctx, 7, 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), rental.ID)
		assert.Equal(t, "Marta Reyes", rental.Customer.Name)
		assert.True(t, rental.Customer.IsGold)
		assert.Equal(t, "The Terminator", rental.Movie.Title)
		assert.Equal(t, 2.0, rental.Movie.DailyRentalRate)
		assert.Equal(t, dateOut, rental.DateOut)
		assert.True(t, rental.Open())
		assert.Nil(t, rental.RentalFee)
		assert.Equal(t, 4, movies.movies[9].NumberInStock)
	})

	t.Run("unknown customer", func(t *testing.T) {
		creator, customers, movies := checkoutFixtures(5)
		svc := NewRentalService(creator, customers, movies)

		_, err := svc.Checkout(ctx, 42, 9)
		assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
		assert.Empty(t, creator.created)
		assert.Equal(t, 0, movies.decrements)
	})

	t.Run("unknown movie", func(t *testing.T) {
		creator, customers, movies := checkoutFixtures(5)
		svc := NewRentalService(creator, customers, movies)

		_, err := svc.Checkout(ctx, 7, 42)
		assert.ErrorIs(t, err, repository.ErrMovieNotFound)
		assert.Empty(t, creator.created)
		assert.Equal(t, 0, movies.decrements)
	})

	t.Run("out of stock", func(t *testing.T) {
		creator, customers, movies := checkoutFixtures(0)
		svc := NewRentalService(creator, customers, movies)

		_, err := svc.Checkout(ctx, 7, 9)
		assert.ErrorIs(t, err, repository.ErrOutOfStock)
		assert.Empty(t, creator.created)
	})

	t.Run("failed insert puts the copy back", func(t *testing.T) {
		creator, customers, movies := checkoutFixtures(5)
		creator.err = errors.New("insert failed")
		svc := NewRentalService(creator, customers, movies)

		_, err := svc.Checkout(ctx, 7, 9)
		require.Error(t, err)
		assert.Equal(t, 5, movies.movies[9].NumberInStock)
		assert.Equal(t, 1, movies.increments)
	})
}
