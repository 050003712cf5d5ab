package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-rental-store/internal/model"
)

// RentalRepo provides persistence for rentals. Rentals carry
// denormalized customer and movie snapshots taken at checkout, so
// every read reconstructs the full model.Rental without joins.
//
// The return-side write path is deliberately a conditional update
// (MarkReturned): the open-rental precondition is re-checked inside
// the UPDATE itself, which is what makes concurrent returns of the
// same rental safe without any in-process locking.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

const rentalColumns = `id, customer_id, customer_name, customer_phone, customer_is_gold,
	       movie_id, movie_title, movie_daily_rental_rate,
	       date_out, date_returned, rental_fee`

// scanRental maps one rentals row onto a model.Rental, converting the
// nullable return columns into pointers.
func scanRental(row interface{ Scan(dest ...any) error }) (*model.Rental, error) {
	var (
		r            model.Rental
		dateReturned sql.NullTime
		rentalFee    sql.NullFloat64
	)
	err := row.Scan(
		&r.ID, &r.Customer.ID, &r.Customer.Name, &r.Customer.Phone, &r.Customer.IsGold,
		&r.Movie.ID, &r.Movie.Title, &r.Movie.DailyRentalRate,
		&r.DateOut, &dateReturned, &rentalFee,
	)
	if err != nil {
		return nil, err
	}
	if dateReturned.Valid {
		t := dateReturned.Time
		r.DateReturned = &t
	}
	if rentalFee.Valid {
		f := rentalFee.Float64
		r.RentalFee = &f
	}
	return &r, nil
}

// Create inserts a rental with its snapshots and populates the
// generated ID. DateOut must already be set by the caller.
func (r *RentalRepo) Create(ctx context.Context, rental *model.Rental) error {
	const q = `INSERT INTO rentals
	           (customer_id, customer_name, customer_phone, customer_is_gold,
	            movie_id, movie_title, movie_daily_rental_rate, date_out)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rental.Customer.ID, rental.Customer.Name, rental.Customer.Phone, rental.Customer.IsGold,
		rental.Movie.ID, rental.Movie.Title, rental.Movie.DailyRentalRate,
		rental.DateOut,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rental.ID = uint64(id)
	return nil
}

// List returns all rentals, newest checkout first.
func (r *RentalRepo) List(ctx context.Context) ([]model.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals ORDER BY date_out DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rentals := make([]model.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}

// GetByID returns a single rental. ErrRentalNotFound is returned when
// no row matches.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id = ?`
	rental, err := scanRental(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// FindByCustomerAndMovie returns the rental the return workflow
// should act on for the given pair: the open rental when one exists,
// otherwise the most recently checked out one (so an already processed
// return surfaces as "already returned" rather than "not found").
// Checkout discipline keeps at most one open rental per pair; if that
// invariant is ever violated the open rental with the most recent
// date_out wins, deterministically. ErrRentalNotFound is returned when
// the pair has no rental at all.
func (r *RentalRepo) FindByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	const q = `SELECT ` + rentalColumns + `
	           FROM rentals
	           WHERE customer_id = ? AND movie_id = ?
	           ORDER BY (date_returned IS NULL) DESC, date_out DESC
	           LIMIT 1`
	rental, err := scanRental(r.db.QueryRowContext(ctx, q, customerID, movieID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// MarkReturned persists a return: date_returned and rental_fee are
// written together, and only if the rental is still open. The
// `date_returned IS NULL` guard makes this a compare-and-swap — when
// two requests race, exactly one UPDATE hits a row and the loser gets
// model.ErrAlreadyReturned instead of silently overwriting.
// ErrRentalNotFound is returned when the rental does not exist at all.
func (r *RentalRepo) MarkReturned(ctx context.Context, id uint64, returnedAt time.Time, fee float64) error {
	const q = `UPDATE rentals SET date_returned = ?, rental_fee = ? WHERE id = ? AND date_returned IS NULL`
	res, err := r.db.ExecContext(ctx, q, returnedAt, fee, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM rentals WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRentalNotFound
		}
		if err != nil {
			return err
		}
		return model.ErrAlreadyReturned
	}
	return nil
}
