package store

import (
	"context"

	"cashbox/internal/models"
)

type CustomerStore struct {
	db DB
}

func NewCustomerStore(db DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// CustomerName is the slim row used by navigation listings.
type CustomerName struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

func (s *CustomerStore) Create(ctx context.Context, tx Tx, name, phone string) (models.Customer, error) {
	var row models.Customer
	err := tx.GetContext(ctx, &row, `
		INSERT INTO customers (name, phone)
		VALUES ($1, $2)
		RETURNING id, name, phone, created_at
	`, name, phone)
	if err != nil {
		return models.Customer{}, err
	}
	return row, nil
}

func (s *CustomerStore) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	var row models.Customer
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, phone, created_at
		FROM customers
		WHERE id = $1
	`, id)
	if err != nil {
		return models.Customer{}, err
	}
	return row, nil
}

func (s *CustomerStore) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	var rows []models.Customer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, phone, created_at
		FROM customers
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListNames returns every customer ordered by name, for navigation.
func (s *CustomerStore) ListNames(ctx context.Context) ([]CustomerName, error) {
	var rows []CustomerName
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CustomerStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers`)
	return count, err
}
