package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cashbox/internal/models"
)

type CashBoxStore struct {
	db DB
}

// CashBoxDetail is a cash box joined with the display fields of its
// customer, currency, and account type.
type CashBoxDetail struct {
	ID              int64     `db:"id"`
	Name            string    `db:"name"`
	CustomerID      int64     `db:"customer_id"`
	CustomerName    string    `db:"customer_name"`
	CurrencyID      int64     `db:"currency_id"`
	CurrencyCode    string    `db:"currency_code"`
	CurrencySymbol  string    `db:"currency_symbol"`
	DecimalPlaces   int       `db:"decimal_places"`
	AccountTypeID   int64     `db:"account_type_id"`
	AccountTypeCode string    `db:"account_type_code"`
	AccountTypeName string    `db:"account_type_name"`
	CreatedAt       time.Time `db:"created_at"`
}

// CashBoxSummary is a box with its balance aggregated from the
// transaction log at query time. Balances are never stored.
type CashBoxSummary struct {
	ID               int64           `db:"id"`
	Name             string          `db:"name"`
	CurrencyCode     string          `db:"currency_code"`
	CurrencySymbol   string          `db:"currency_symbol"`
	DecimalPlaces    int             `db:"decimal_places"`
	AccountTypeCode  string          `db:"account_type_code"`
	AccountTypeName  string          `db:"account_type_name"`
	Balance          decimal.Decimal `db:"balance"`
	TransactionCount int64           `db:"transaction_count"`
	CreatedAt        time.Time       `db:"created_at"`
}

func NewCashBoxStore(db DB) *CashBoxStore {
	return &CashBoxStore{db: db}
}

func (s *CashBoxStore) Create(ctx context.Context, tx Tx, customerID, currencyID, accountTypeID int64, name string) (models.CashBox, error) {
	var row models.CashBox
	err := tx.GetContext(ctx, &row, `
		INSERT INTO cashboxes (customer_id, currency_id, account_type_id, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, customer_id, currency_id, account_type_id, name, created_at
	`, customerID, currencyID, accountTypeID, name)
	if err != nil {
		return models.CashBox{}, err
	}
	return row, nil
}

func (s *CashBoxStore) GetDetail(ctx context.Context, id int64) (CashBoxDetail, error) {
	var row CashBoxDetail
	err := s.db.GetContext(ctx, &row, `
		SELECT cb.id, cb.name, cb.created_at,
		       c.id AS customer_id, c.name AS customer_name,
		       cur.id AS currency_id, cur.code AS currency_code,
		       cur.symbol AS currency_symbol, cur.decimal_places,
		       act.id AS account_type_id, act.code AS account_type_code,
		       act.name AS account_type_name
		FROM cashboxes cb
		JOIN customers c ON c.id = cb.customer_id
		JOIN currencies cur ON cur.id = cb.currency_id
		JOIN account_types act ON act.id = cb.account_type_id
		WHERE cb.id = $1
	`, id)
	if err != nil {
		return CashBoxDetail{}, err
	}
	return row, nil
}

// GetDetailTx is GetDetail against an open transaction, used by the
// create-transaction path so the box and its currency scale are read in
// the same unit of work that persists the row.
func (s *CashBoxStore) GetDetailTx(ctx context.Context, tx Getter, id int64) (CashBoxDetail, error) {
	var row CashBoxDetail
	err := tx.GetContext(ctx, &row, `
		SELECT cb.id, cb.name, cb.created_at,
		       c.id AS customer_id, c.name AS customer_name,
		       cur.id AS currency_id, cur.code AS currency_code,
		       cur.symbol AS currency_symbol, cur.decimal_places,
		       act.id AS account_type_id, act.code AS account_type_code,
		       act.name AS account_type_name
		FROM cashboxes cb
		JOIN customers c ON c.id = cb.customer_id
		JOIN currencies cur ON cur.id = cb.currency_id
		JOIN account_types act ON act.id = cb.account_type_id
		WHERE cb.id = $1
	`, id)
	if err != nil {
		return CashBoxDetail{}, err
	}
	return row, nil
}

func (s *CashBoxStore) ListByCustomer(ctx context.Context, customerID int64) ([]CashBoxSummary, error) {
	var rows []CashBoxSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT cb.id, cb.name, cb.created_at,
		       cur.code AS currency_code, cur.symbol AS currency_symbol, cur.decimal_places,
		       act.code AS account_type_code, act.name AS account_type_name,
		       COALESCE(SUM(CASE WHEN t.direction = 'DEPOSIT' THEN t.amount ELSE -t.amount END), 0) AS balance,
		       COUNT(t.id) AS transaction_count
		FROM cashboxes cb
		JOIN currencies cur ON cur.id = cb.currency_id
		JOIN account_types act ON act.id = cb.account_type_id
		LEFT JOIN transactions t ON t.cashbox_id = cb.id
		WHERE cb.customer_id = $1
		GROUP BY cb.id, cb.name, cb.created_at, cur.code, cur.symbol, cur.decimal_places, act.code, act.name
		ORDER BY cb.id
	`, customerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CashBoxStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM cashboxes`)
	return count, err
}
