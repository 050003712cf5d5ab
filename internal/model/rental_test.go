package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalFeeFor(t *testing.T) {
	out := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	t.Run("seven days at rate two", func(t *testing.T) {
		fee := RentalFeeFor(out, out.Add(7*24*time.Hour), 2)
		assert.Equal(t, 14.0, fee)
	})

	t.Run("same-day return is free", func(t *testing.T) {
		fee := RentalFeeFor(out, out, 2)
		assert.Equal(t, 0.0, fee)
	})

	t.Run("partial days are floored", func(t *testing.T) {
		// 23h59m is still day zero, 24h exactly tips over to one day.
		assert.Equal(t, 0.0, RentalFeeFor(out, out.Add(24*time.Hour-time.Minute), 3))
		assert.Equal(t, 3.0, RentalFeeFor(out, out.Add(24*time.Hour), 3))
		assert.Equal(t, 3.0, RentalFeeFor(out, out.Add(36*time.Hour), 3))
	})

	t.Run("whole day multiples are exact", func(t *testing.T) {
		for n := 0; n <= 30; n++ {
			fee := RentalFeeFor(out, out.Add(time.Duration(n)*24*time.Hour), 2.5)
			assert.Equal(t, float64(n)*2.5, fee, "n=%d", n)
		}
	})

	t.Run("clock skew never yields a negative fee", func(t *testing.T) {
		fee := RentalFeeFor(out, out.Add(-48*time.Hour), 2)
		assert.Equal(t, 0.0, fee)
	})
}

func TestRentalMarkReturned(t *testing.T) {
	out := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newRental := func() *Rental {
		return &Rental{
			ID:       1,
			Customer: RentalCustomer{ID: 7, Name: "Marta Reyes", Phone: "555-0142"},
			Movie:    RentalMovie{ID: 9, Title: "The Terminator", DailyRentalRate: 2},
			DateOut:  out,
		}
	}

	t.Run("stamps date and fee together", func(t *testing.T) {
		r := newRental()
		require.True(t, r.Open())

		now := out.Add(7 * 24 * time.Hour)
		require.NoError(t, r.MarkReturned(now))

		require.NotNil(t, r.DateReturned)
		require.NotNil(t, r.RentalFee)
		assert.Equal(t, now, *r.DateReturned)
		assert.Equal(t, 14.0, *r.RentalFee)
		assert.False(t, r.Open())
	})

	t.Run("returned is terminal", func(t *testing.T) {
		r := newRental()
		now := out.Add(24 * time.Hour)
		require.NoError(t, r.MarkReturned(now))

		first := *r.DateReturned
		err := r.MarkReturned(now.Add(time.Hour))
		assert.ErrorIs(t, err, ErrAlreadyReturned)
		// The failed call must not touch the already stamped fields.
		assert.Equal(t, first, *r.DateReturned)
		assert.Equal(t, 2.0, *r.RentalFee)
	})
}
