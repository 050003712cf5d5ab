// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// without inspecting SQL error strings. Not-found sentinels map to
// HTTP 404, ErrOutOfStock and the model's ErrAlreadyReturned map to
// 400, and ErrEmailExists maps to 409.
package repository

import "errors"

// ErrGenreNotFound is returned when no genre row matches the given id.
var ErrGenreNotFound = errors.New("genre not found")

// ErrMovieNotFound is returned when no movie row matches the given id.
var ErrMovieNotFound = errors.New("movie not found")

// ErrCustomerNotFound is returned when no customer row matches the
// given id.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrRentalNotFound is returned when no rental matches a lookup, in
// particular when a return is requested for a customer/movie pair
// with no open rental.
var ErrRentalNotFound = errors.New("rental not found")

// ErrOutOfStock is returned when a checkout is attempted against a
// movie whose number_in_stock is already zero. The decrement is
// conditional at the storage layer, so concurrent checkouts cannot
// drive stock negative.
var ErrOutOfStock = errors.New("movie not in stock")

// ErrEmailExists is returned when user registration hits the unique
// index on users.email.
var ErrEmailExists = errors.New("email already exists")
