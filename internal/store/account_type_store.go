package store

import (
	"context"

	"cashbox/internal/models"
)

type AccountTypeStore struct {
	db DB
}

func NewAccountTypeStore(db DB) *AccountTypeStore {
	return &AccountTypeStore{db: db}
}

func (s *AccountTypeStore) Create(ctx context.Context, tx Tx, code, name string) (models.AccountType, error) {
	var row models.AccountType
	err := tx.GetContext(ctx, &row, `
		INSERT INTO account_types (code, name)
		VALUES ($1, $2)
		RETURNING id, code, name
	`, code, name)
	if err != nil {
		return models.AccountType{}, err
	}
	return row, nil
}

func (s *AccountTypeStore) GetByID(ctx context.Context, id int64) (models.AccountType, error) {
	var row models.AccountType
	err := s.db.GetContext(ctx, &row, `
		SELECT id, code, name
		FROM account_types
		WHERE id = $1
	`, id)
	if err != nil {
		return models.AccountType{}, err
	}
	return row, nil
}

func (s *AccountTypeStore) List(ctx context.Context) ([]models.AccountType, error) {
	var rows []models.AccountType
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, code, name
		FROM account_types
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountTypeStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM account_types`)
	return count, err
}
