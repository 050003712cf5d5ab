package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-rental-store/internal/model"
)

// CustomerRepo provides CRUD operations for the customers table.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// List returns all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `SELECT id, name, phone, is_gold, created_at, updated_at FROM customers ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetByID returns a single customer. ErrCustomerNotFound is returned
// when no row matches.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, name, phone, is_gold, created_at, updated_at FROM customers WHERE id = ?`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer and populates the generated ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customers (name, phone, is_gold) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.IsGold)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update rewrites a customer's mutable columns. ErrCustomerNotFound is
// returned when the id does not exist.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	const q = `UPDATE customers SET name = ?, phone = ?, is_gold = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.IsGold, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM customers WHERE id = ?`, c.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// Delete removes a customer. ErrCustomerNotFound is returned when the
// id does not exist.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
