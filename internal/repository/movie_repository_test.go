package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieRepoIncrementStock(t *testing.T) {
	const pattern = `UPDATE movies SET number_in_stock = number_in_stock \+ 1 WHERE id = \?`

	t.Run("increments inside the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewMovieRepo(db)

		mock.ExpectExec(pattern).WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementStock(context.Background(), 9))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing movie is an error, not a silent no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewMovieRepo(db)

		mock.ExpectExec(pattern).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.IncrementStock(context.Background(), 99)
		assert.ErrorIs(t, err, ErrMovieNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovieRepoDecrementStock(t *testing.T) {
	const pattern = `UPDATE movies SET number_in_stock = number_in_stock - 1 WHERE id = \? AND number_in_stock > 0`

	t.Run("takes a copy when stock remains", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewMovieRepo(db)

		mock.ExpectExec(pattern).WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DecrementStock(context.Background(), 9))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard refuses to go below zero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewMovieRepo(db)

		mock.ExpectExec(pattern).WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT number_in_stock FROM movies WHERE id = \?`).
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"number_in_stock"}).AddRow(0))

		err = repo.DecrementStock(context.Background(), 9)
		assert.ErrorIs(t, err, ErrOutOfStock)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing movie maps to ErrMovieNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewMovieRepo(db)

		mock.ExpectExec(pattern).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT number_in_stock FROM movies WHERE id = \?`).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"number_in_stock"}))

		err = repo.DecrementStock(context.Background(), 99)
		assert.ErrorIs(t, err, ErrMovieNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
