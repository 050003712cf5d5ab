package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-rental-store/internal/model"
)

// GenreRepo provides CRUD operations for the genres table.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo returns a new GenreRepo bound to the given database.
func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	const q = `SELECT id, name, created_at, updated_at FROM genres ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// GetByID returns a single genre. ErrGenreNotFound is returned when no
// row matches.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	const q = `SELECT id, name, created_at, updated_at FROM genres WHERE id = ?`
	var g model.Genre
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGenreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a genre and populates the generated ID on the passed
// model.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, g.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update renames a genre. ErrGenreNotFound is returned when the id
// does not exist.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, `UPDATE genres SET name = ? WHERE id = ?`, g.Name, g.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "same name written twice": MySQL
		// reports zero affected rows for both, so re-check existence.
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM genres WHERE id = ?`, g.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}

// Delete removes a genre. ErrGenreNotFound is returned when the id
// does not exist.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGenreNotFound
	}
	return nil
}
