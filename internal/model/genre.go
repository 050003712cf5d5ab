package model

import "time"

// Genre is a movie category row from the `genres` table. Names are
// unique and between 5 and 50 characters.
type Genre struct {
	ID        uint64    `json:"id"`   // genres.id
	Name      string    `json:"name"` // genres.name
	CreatedAt time.Time `json:"-"`    // genres.created_at
	UpdatedAt time.Time `json:"-"`    // genres.updated_at
}
