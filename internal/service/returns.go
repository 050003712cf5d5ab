// Package service holds the rental lifecycle workflows: checkout and
// return. Handlers stay thin and delegate here; the services talk to
// storage through small interfaces so the workflows can be exercised
// in tests without a database.
package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/queue"
)

// RentalStore is the slice of the rental repository the return
// workflow needs: find the rental for a customer/movie pair and
// conditionally persist the return.
type RentalStore interface {
	FindByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	MarkReturned(ctx context.Context, id uint64, returnedAt time.Time, fee float64) error
}

// StockAdjuster restores a movie copy to stock after a return.
type StockAdjuster interface {
	IncrementStock(ctx context.Context, movieID uint64) error
}

// ReturnService coordinates the return workflow: lookup, state
// transition, conditional persistence, stock restoration and event
// publication. One call is one unit of work; no state is shared
// between calls.
type ReturnService struct {
	rentals RentalStore
	stock   StockAdjuster
	now     func() time.Time
	publish func(ctx context.Context, ev queue.ReturnProcessedEvent) error
}

// NewReturnService constructs a ReturnService with the real clock and
// broker publisher.
func NewReturnService(rentals RentalStore, stock StockAdjuster) *ReturnService {
	if rentals == nil || stock == nil {
		panic("nil store passed to NewReturnService")
	}
	return &ReturnService{
		rentals: rentals,
		stock:   stock,
		now:     time.Now,
		publish: queue.PublishReturnProcessed,
	}
}

// ProcessReturn transitions the open rental for (customerID, movieID)
// to returned and restores one copy of the movie to stock.
//
// Error contract: repository.ErrRentalNotFound when no open rental
// matches, model.ErrAlreadyReturned when another request won the race
// to process the same return. The rental update and the stock
// increment are two independent statements on two different rows; a
// crash between them leaves the rental returned with the copy not yet
// restored. That window is accepted — closing it needs a cross-entity
// transaction the storage schema does not promise — so a stock
// failure after the rental is durably returned is logged and the call
// still succeeds.
func (s *ReturnService) ProcessReturn(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	rental, err := s.rentals.FindByCustomerAndMovie(ctx, customerID, movieID)
	if err != nil {
		return nil, err
	}

	// The entity owns the transition; it rejects a rental that was
	// already returned, stamps the return time and computes the fee
	// from the snapshot's daily rate.
	if err := rental.MarkReturned(s.now().UTC()); err != nil {
		return nil, err
	}

	// Persist both return fields together, guarded by the open-rental
	// condition. Losing the CAS means a concurrent request already
	// processed this return; exactly one caller gets past this point
	// per rental, so stock is incremented exactly once.
	if err := s.rentals.MarkReturned(ctx, rental.ID, *rental.DateReturned, *rental.RentalFee); err != nil {
		return nil, err
	}

	if err := s.stock.IncrementStock(ctx, rental.Movie.ID); err != nil {
		log.Printf("returns: rental %d returned but stock restore for movie %d failed: %v", rental.ID, rental.Movie.ID, err)
	}

	if s.publish != nil {
		ev := queue.ReturnProcessedEvent{
			RentalID:     rental.ID,
			CustomerID:   rental.Customer.ID,
			CustomerName: rental.Customer.Name,
			MovieID:      rental.Movie.ID,
			MovieTitle:   rental.Movie.Title,
			DateOut:      rental.DateOut.UTC().Format(time.RFC3339),
			DateReturned: rental.DateReturned.UTC().Format(time.RFC3339),
			RentalFee:    *rental.RentalFee,
		}
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("returns: publish event for rental %d failed: %v", rental.ID, err)
		}
	}

	return rental, nil
}
