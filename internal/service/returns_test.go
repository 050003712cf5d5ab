package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/queue"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// memRentalStore mimics the repository's semantics in memory: reads
// hand out copies (each caller sees its own row image, like a DB read)
// and MarkReturned is a mutex-guarded compare-and-swap on the
// open-rental condition.
type memRentalStore struct {
	mu      sync.Mutex
	rentals map[uint64]*model.Rental
	markErr error // forced error for failure-path tests
}

func newMemRentalStore(rentals ...*model.Rental) *memRentalStore {
	m := &memRentalStore{rentals: make(map[uint64]*model.Rental)}
	for _, r := range rentals {
		cp := *r
		m.rentals[r.ID] = &cp
	}
	return m
}

func (m *memRentalStore) FindByCustomerAndMovie(_ context.Context, customerID, movieID uint64) (*model.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.Rental
	for _, r := range m.rentals {
		if r.Customer.ID != customerID || r.Movie.ID != movieID {
			continue
		}
		if best == nil || (r.Open() && !best.Open()) || (r.Open() == best.Open() && r.DateOut.After(best.DateOut)) {
			best = r
		}
	}
	if best == nil {
		return nil, repository.ErrRentalNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *memRentalStore) MarkReturned(_ context.Context, id uint64, returnedAt time.Time, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	r, ok := m.rentals[id]
	if !ok {
		return repository.ErrRentalNotFound
	}
	if r.DateReturned != nil {
		return model.ErrAlreadyReturned
	}
	t := returnedAt
	f := fee
	r.DateReturned = &t
	r.RentalFee = &f
	return nil
}

func (m *memRentalStore) get(id uint64) model.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rentals[id]
}

// memStock counts increments; failures can be forced to exercise the
// accepted rental-saved-but-stock-not-restored window.
type memStock struct {
	increments atomic.Int64
	err        error
}

func (m *memStock) IncrementStock(context.Context, uint64) error {
	if m.err != nil {
		return m.err
	}
	m.increments.Add(1)
	return nil
}

func openRental() *model.Rental {
	return &model.Rental{
		ID:       1,
		Customer: model.RentalCustomer{ID: 7, Name: "Marta Reyes", Phone: "555-0142"},
		Movie:    model.RentalMovie{ID: 9, Title: "The Terminator", DailyRentalRate: 2},
		DateOut:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(rentals RentalStore, stock StockAdjuster, now time.Time) *ReturnService {
	s := NewReturnService(rentals, stock)
	s.now = func() time.Time { return now }
	s.publish = nil
	return s
}

func TestProcessReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("seven days at rate two costs fourteen", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		stock := &memStock{}
		svc := newTestService(store, stock, rental.DateOut.Add(7*24*time.Hour))

		got, err := svc.ProcessReturn(ctx, 7, 9)
		require.NoError(t, err)
		require.NotNil(t, got.DateReturned)
		require.NotNil(t, got.RentalFee)
		assert.Equal(t, 14.0, *got.RentalFee)
		assert.Equal(t, rental.DateOut.Add(7*24*time.Hour), *got.DateReturned)
		assert.Equal(t, int64(1), stock.increments.Load())

		// The store observed the same fields the caller got back.
		persisted := store.get(1)
		require.NotNil(t, persisted.DateReturned)
		assert.Equal(t, 14.0, *persisted.RentalFee)
	})

	t.Run("same-day return is free", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		svc := newTestService(store, &memStock{}, rental.DateOut)

		got, err := svc.ProcessReturn(ctx, 7, 9)
		require.NoError(t, err)
		assert.Equal(t, 0.0, *got.RentalFee)
	})

	t.Run("no rental for the pair", func(t *testing.T) {
		store := newMemRentalStore()
		stock := &memStock{}
		svc := newTestService(store, stock, time.Now())

		_, err := svc.ProcessReturn(ctx, 7, 9)
		assert.ErrorIs(t, err, repository.ErrRentalNotFound)
		assert.Equal(t, int64(0), stock.increments.Load())
	})

	t.Run("second return is rejected and stock moves once", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		stock := &memStock{}
		svc := newTestService(store, stock, rental.DateOut.Add(24*time.Hour))

		_, err := svc.ProcessReturn(ctx, 7, 9)
		require.NoError(t, err)

		_, err = svc.ProcessReturn(ctx, 7, 9)
		assert.ErrorIs(t, err, model.ErrAlreadyReturned)
		assert.Equal(t, int64(1), stock.increments.Load())
	})

	t.Run("losing the persistence race surfaces already returned", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		store.markErr = model.ErrAlreadyReturned
		stock := &memStock{}
		svc := newTestService(store, stock, rental.DateOut.Add(24*time.Hour))

		_, err := svc.ProcessReturn(ctx, 7, 9)
		assert.ErrorIs(t, err, model.ErrAlreadyReturned)
		assert.Equal(t, int64(0), stock.increments.Load())
	})

	t.Run("stock failure after the rental is saved does not fail the return", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		stock := &memStock{err: errors.New("movie row gone")}
		svc := newTestService(store, stock, rental.DateOut.Add(24*time.Hour))

		got, err := svc.ProcessReturn(ctx, 7, 9)
		require.NoError(t, err)
		assert.NotNil(t, got.DateReturned)

		persisted := store.get(1)
		assert.NotNil(t, persisted.DateReturned)
	})

	t.Run("publishes a return event", func(t *testing.T) {
		rental := openRental()
		store := newMemRentalStore(rental)
		svc := newTestService(store, &memStock{}, rental.DateOut.Add(7*24*time.Hour))

		var published []queue.ReturnProcessedEvent
		svc.publish = func(_ context.Context, ev queue.ReturnProcessedEvent) error {
			published = append(published, ev)
			return nil
		}

		_, err := svc.ProcessReturn(ctx, 7, 9)
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, uint64(1), published[0].RentalID)
		assert.Equal(t, "The Terminator", published[0].MovieTitle)
		assert.Equal(t, 14.0, published[0].RentalFee)
	})
}

func TestProcessReturnConcurrent(t *testing.T) {
	const callers = 16

	rental := openRental()
	store := newMemRentalStore(rental)
	stock := &memStock{}
	svc := newTestService(store, stock, rental.DateOut.Add(3*24*time.Hour))

	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.ProcessReturn(context.Background(), 7, 9)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrAlreadyReturned):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one caller wins the CAS")
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, int64(1), stock.increments.Load(), "stock restored exactly once")

	persisted := store.get(1)
	require.NotNil(t, persisted.DateReturned)
	assert.Equal(t, 6.0, *persisted.RentalFee) // 3 days * 2 per day
}
