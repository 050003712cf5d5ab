package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/movie-rental-store/internal/model"
)

// CustomerStore resolves the customer being rented to.
type CustomerStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
}

// MovieStore resolves the movie being rented and takes copies out of
// stock. DecrementStock must be conditional at the storage layer so
// the last copy cannot be handed out twice.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	DecrementStock(ctx context.Context, movieID uint64) error
	IncrementStock(ctx context.Context, movieID uint64) error
}

// RentalCreator persists a new rental row.
type RentalCreator interface {
	Create(ctx context.Context, rental *model.Rental) error
}

// RentalService coordinates checkout: it snapshots the customer and
// movie into a new open rental and takes one copy out of stock.
type RentalService struct {
	rentals   RentalCreator
	customers CustomerStore
	movies    MovieStore
	now       func() time.Time
}

// NewRentalService constructs a RentalService with the real clock.
func NewRentalService(rentals RentalCreator, customers CustomerStore, movies MovieStore) *RentalService {
	if rentals == nil || customers == nil || movies == nil {
		panic("nil store passed to NewRentalService")
	}
	return &RentalService{
		rentals:   rentals,
		customers: customers,
		movies:    movies,
		now:       time.Now,
	}
}

// Checkout creates an open rental for (customerID, movieID).
//
// The stock decrement runs before the rental insert so a concurrent
// checkout of the last copy fails with repository.ErrOutOfStock
// instead of overselling. If the insert then fails, the copy is put
// back; that compensation is best effort, the same accepted
// cross-entity window the return path has.
func (s *RentalService) Checkout(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if err := s.movies.DecrementStock(ctx, movieID); err != nil {
		return nil, err
	}

	rental := &model.Rental{
		Customer: model.RentalCustomer{
			ID:     customer.ID,
			Name:   customer.Name,
			Phone:  customer.Phone,
			IsGold: customer.IsGold,
		},
		Movie: model.RentalMovie{
			ID:              movie.ID,
			Title:           movie.Title,
			DailyRentalRate: movie.DailyRentalRate,
		},
		DateOut: s.now().UTC(),
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		if restoreErr := s.movies.IncrementStock(ctx, movieID); restoreErr != nil {
			log.Printf("rentals: checkout insert failed and stock restore for movie %d failed too: %v", movieID, restoreErr)
		}
		return nil, err
	}
	return rental, nil
}
