package store

import (
	"context"

	"cashbox/internal/models"
)

type CurrencyStore struct {
	db DB
}

func NewCurrencyStore(db DB) *CurrencyStore {
	return &CurrencyStore{db: db}
}

func (s *CurrencyStore) Create(ctx context.Context, tx Tx, code, name, symbol string, decimalPlaces int) (models.Currency, error) {
	var row models.Currency
	err := tx.GetContext(ctx, &row, `
		INSERT INTO currencies (code, name, symbol, decimal_places)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, name, symbol, decimal_places, is_active
	`, code, name, symbol, decimalPlaces)
	if err != nil {
		return models.Currency{}, err
	}
	return row, nil
}

func (s *CurrencyStore) GetByID(ctx context.Context, id int64) (models.Currency, error) {
	var row models.Currency
	err := s.db.GetContext(ctx, &row, `
		SELECT id, code, name, symbol, decimal_places, is_active
		FROM currencies
		WHERE id = $1
	`, id)
	if err != nil {
		return models.Currency{}, err
	}
	return row, nil
}

// GetForUpdate locks the currency row for the rest of the transaction;
// the decimal_places guard reads the transaction count under this lock.
func (s *CurrencyStore) GetForUpdate(ctx context.Context, tx Getter, id int64) (models.Currency, error) {
	var row models.Currency
	err := tx.GetContext(ctx, &row, `
		SELECT id, code, name, symbol, decimal_places, is_active
		FROM currencies
		WHERE id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		return models.Currency{}, err
	}
	return row, nil
}

func (s *CurrencyStore) List(ctx context.Context, activeOnly bool) ([]models.Currency, error) {
	query := `
		SELECT id, code, name, symbol, decimal_places, is_active
		FROM currencies
		ORDER BY code
	`
	if activeOnly {
		query = `
			SELECT id, code, name, symbol, decimal_places, is_active
			FROM currencies
			WHERE is_active = TRUE
			ORDER BY code
		`
	}
	var rows []models.Currency
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CurrencyStore) Update(ctx context.Context, tx Execer, id int64, name, symbol string, decimalPlaces int, isActive bool) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE currencies
		SET name = $1, symbol = $2, decimal_places = $3, is_active = $4
		WHERE id = $5
	`, name, symbol, decimalPlaces, isActive, id)
	return err
}

func (s *CurrencyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM currencies`)
	return count, err
}
