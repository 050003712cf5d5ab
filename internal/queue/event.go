// Package queue defines message payloads exchanged over the message broker.
package queue

// ReturnProcessedEvent is published when a rental return completes.
// It contains enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type ReturnProcessedEvent struct {
	RentalID     uint64  `json:"rental_id"`
	CustomerID   uint64  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	MovieID      uint64  `json:"movie_id"`
	MovieTitle   string  `json:"movie_title"`
	DateOut      string  `json:"date_out"`
	DateReturned string  `json:"date_returned"`
	RentalFee    float64 `json:"rental_fee"`
}
