package model

import "time"

// Movie represents a title available for rent as stored in the
// `movies` table. Stock and the daily rate are both capped at 255 so
// a malicious client cannot park an absurd number in either column.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title, 5..255 characters.
//  Genre           – the genre this movie belongs to (joined from genres).
//  NumberInStock   – copies currently available, 0..255.
//  DailyRentalRate – fee charged per rented day, 0..255.
type Movie struct {
	ID              uint64    `json:"id"`              // movies.id
	Title           string    `json:"title"`           // movies.title
	Genre           Genre     `json:"genre"`           // joined genres row
	NumberInStock   int       `json:"numberInStock"`   // movies.number_in_stock
	DailyRentalRate float64   `json:"dailyRentalRate"` // movies.daily_rental_rate
	CreatedAt       time.Time `json:"-"`               // movies.created_at
	UpdatedAt       time.Time `json:"-"`               // movies.updated_at
}
