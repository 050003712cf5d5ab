package model

import (
	"errors"
	"time"
)

// ErrAlreadyReturned is returned when a transition or update targets a
// rental whose return has already been processed. Handlers translate
// this into an HTTP 400 response.
var ErrAlreadyReturned = errors.New("return already processed")

// RentalCustomer is the customer snapshot embedded in a rental. The
// fields are copied from the customer at checkout time so the rental
// keeps the data it was priced and billed against even if the customer
// record changes later.
type RentalCustomer struct {
	ID     uint64 `json:"id"`     // rentals.customer_id
	Name   string `json:"name"`   // rentals.customer_name
	Phone  string `json:"phone"`  // rentals.customer_phone
	IsGold bool   `json:"isGold"` // rentals.customer_is_gold
}

// RentalMovie is the movie snapshot embedded in a rental. The daily
// rate recorded here, not the live movie row, is what the return fee
// is computed from.
type RentalMovie struct {
	ID              uint64  `json:"id"`              // rentals.movie_id
	Title           string  `json:"title"`           // rentals.movie_title
	DailyRentalRate float64 `json:"dailyRentalRate"` // rentals.movie_daily_rental_rate
}

// Rental records a single checkout of one movie copy by one customer.
// A rental is open while DateReturned is nil and becomes terminal once
// the return is processed. RentalFee is set together with DateReturned
// and never on its own.
//
// Fields:
//  ID           – primary key identifier.
//  Customer     – customer snapshot taken at checkout.
//  Movie        – movie snapshot taken at checkout.
//  DateOut      – checkout timestamp, set at creation.
//  DateReturned – return timestamp; nil while the rental is open.
//  RentalFee    – fee computed at return; nil while the rental is open.
type Rental struct {
	ID           uint64         `json:"id"`           // rentals.id
	Customer     RentalCustomer `json:"customer"`     // embedded snapshot
	Movie        RentalMovie    `json:"movie"`        // embedded snapshot
	DateOut      time.Time      `json:"dateOut"`      // rentals.date_out
	DateReturned *time.Time     `json:"dateReturned"` // rentals.date_returned (nullable)
	RentalFee    *float64       `json:"rentalFee"`    // rentals.rental_fee (nullable)
}

// Open reports whether the rental has not been returned yet.
func (r *Rental) Open() bool { return r.DateReturned == nil }

// MarkReturned transitions an open rental to returned. It stamps the
// return time and computes the fee from the movie snapshot's daily
// rate. Calling it on an already returned rental fails with
// ErrAlreadyReturned; the transition is not reentrant.
func (r *Rental) MarkReturned(now time.Time) error {
	if r.DateReturned != nil {
		return ErrAlreadyReturned
	}
	fee := RentalFeeFor(r.DateOut, now, r.Movie.DailyRentalRate)
	r.DateReturned = &now
	r.RentalFee = &fee
	return nil
}

// RentalFeeFor computes the fee for a rental window: whole elapsed
// days times the daily rate. Days are floored, so a return within 24
// hours of checkout is free — there is deliberately no one-day
// minimum. The product is kept as a raw float64; rates are small
// integers in practice so day multiples stay exact.
func RentalFeeFor(dateOut, dateReturned time.Time, dailyRate float64) float64 {
	elapsed := dateReturned.Sub(dateOut)
	if elapsed < 0 {
		elapsed = 0
	}
	days := int64(elapsed / (24 * time.Hour))
	return float64(days) * dailyRate
}
