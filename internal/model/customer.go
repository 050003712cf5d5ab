package model

import "time"

// Customer is a store member from the `customers` table. Gold members
// are flagged for future discounting; the flag defaults to false.
type Customer struct {
	ID        uint64    `json:"id"`     // customers.id
	Name      string    `json:"name"`   // customers.name
	Phone     string    `json:"phone"`  // customers.phone
	IsGold    bool      `json:"isGold"` // customers.is_gold
	CreatedAt time.Time `json:"-"`      // customers.created_at
	UpdatedAt time.Time `json:"-"`      // customers.updated_at
}
