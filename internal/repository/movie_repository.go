package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-rental-store/internal/model"
)

// MovieRepo provides CRUD operations for movies plus the atomic stock
// adjustments the rental lifecycle depends on. Stock is only ever
// changed through single-statement relative UPDATEs so concurrent
// checkouts and returns of the same title cannot lose updates.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// List returns all movies with their genre, ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT m.id, m.title, m.number_in_stock, m.daily_rental_rate,
	                  m.created_at, m.updated_at,
	                  g.id, g.name
	           FROM movies m
	           JOIN genres g ON g.id = m.genre_id
	           ORDER BY m.title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.NumberInStock, &m.DailyRentalRate,
			&m.CreatedAt, &m.UpdatedAt,
			&m.Genre.ID, &m.Genre.Name,
		); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetByID returns a single movie with its genre. ErrMovieNotFound is
// returned when no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT m.id, m.title, m.number_in_stock, m.daily_rental_rate,
	                  m.created_at, m.updated_at,
	                  g.id, g.name
	           FROM movies m
	           JOIN genres g ON g.id = m.genre_id
	           WHERE m.id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.NumberInStock, &m.DailyRentalRate,
		&m.CreatedAt, &m.UpdatedAt,
		&m.Genre.ID, &m.Genre.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a movie and populates the generated ID on the passed
// model. The caller must have resolved the genre already.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, genre_id, number_in_stock, daily_rental_rate) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre.ID, m.NumberInStock, m.DailyRentalRate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update rewrites a movie's mutable columns. ErrMovieNotFound is
// returned when the id does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies SET title = ?, genre_id = ?, number_in_stock = ?, daily_rental_rate = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre.ID, m.NumberInStock, m.DailyRentalRate, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM movies WHERE id = ?`, m.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie. ErrMovieNotFound is returned when the id
// does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// IncrementStock adds one available copy back to a movie. The
// increment happens inside the database, not as read-modify-write, so
// it is safe under concurrent returns. ErrMovieNotFound is returned
// when the movie row is missing; the increment is never silent about
// a bad target.
func (r *MovieRepo) IncrementStock(ctx context.Context, movieID uint64) error {
	const q = `UPDATE movies SET number_in_stock = number_in_stock + 1 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// DecrementStock takes one copy out of stock for a checkout. The
// UPDATE is guarded by number_in_stock > 0 so two concurrent checkouts
// cannot both take the last copy. Zero affected rows means either the
// movie is missing or it is out of stock; the follow-up SELECT tells
// the two apart.
func (r *MovieRepo) DecrementStock(ctx context.Context, movieID uint64) error {
	const q = `UPDATE movies SET number_in_stock = number_in_stock - 1 WHERE id = ? AND number_in_stock > 0`
	res, err := r.db.ExecContext(ctx, q, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var stock int
		err := r.db.QueryRowContext(ctx, `SELECT number_in_stock FROM movies WHERE id = ?`, movieID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		if err != nil {
			return err
		}
		return ErrOutOfStock
	}
	return nil
}
