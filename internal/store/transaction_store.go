package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cashbox/internal/models"
)

type TransactionStore struct {
	db DB
}

// TransactionDetail carries the joined display fields for listings,
// receipts, and the search result.
type TransactionDetail struct {
	ID              int64            `db:"id"`
	CashBoxID       int64            `db:"cashbox_id"`
	CashBoxName     string           `db:"cashbox_name"`
	CustomerID      int64            `db:"customer_id"`
	CustomerName    string           `db:"customer_name"`
	CurrencyCode    string           `db:"currency_code"`
	CurrencySymbol  string           `db:"currency_symbol"`
	DecimalPlaces   int              `db:"decimal_places"`
	AccountTypeCode string           `db:"account_type_code"`
	Direction       models.Direction `db:"direction"`
	Amount          decimal.Decimal  `db:"amount"`
	Note            string           `db:"note"`
	CreatedAt       time.Time        `db:"created_at"`
}

// CurrencyBalance is one per-currency subtotal of a customer report.
type CurrencyBalance struct {
	CurrencyCode   string          `db:"currency_code"`
	CurrencySymbol string          `db:"currency_symbol"`
	DecimalPlaces  int             `db:"decimal_places"`
	Balance        decimal.Decimal `db:"balance"`
}

type TransactionInput struct {
	CashBoxID int64
	Direction models.Direction
	Amount    decimal.Decimal
	Note      string
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type assignedRow struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// Create inserts the already-normalized row. There is no update or
// delete counterpart: transactions are append-only.
func (s *TransactionStore) Create(ctx context.Context, tx Tx, input TransactionInput) (models.Transaction, error) {
	var assigned assignedRow
	err := tx.GetContext(ctx, &assigned, `
		INSERT INTO transactions (cashbox_id, direction, amount, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, input.CashBoxID, string(input.Direction), input.Amount, input.Note)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:        assigned.ID,
		CashBoxID: input.CashBoxID,
		Direction: input.Direction,
		Amount:    input.Amount,
		Note:      input.Note,
		CreatedAt: assigned.CreatedAt,
	}, nil
}

const transactionDetailSelect = `
	SELECT t.id, t.direction, t.amount, t.note, t.created_at,
	       cb.id AS cashbox_id, cb.name AS cashbox_name,
	       c.id AS customer_id, c.name AS customer_name,
	       cur.code AS currency_code, cur.symbol AS currency_symbol, cur.decimal_places,
	       act.code AS account_type_code
	FROM transactions t
	JOIN cashboxes cb ON cb.id = t.cashbox_id
	JOIN customers c ON c.id = cb.customer_id
	JOIN currencies cur ON cur.id = cb.currency_id
	JOIN account_types act ON act.id = cb.account_type_id
`

func (s *TransactionStore) GetDetail(ctx context.Context, id int64) (TransactionDetail, error) {
	var row TransactionDetail
	err := s.db.GetContext(ctx, &row, transactionDetailSelect+`
		WHERE t.id = $1
	`, id)
	if err != nil {
		return TransactionDetail{}, err
	}
	return row, nil
}

func (s *TransactionStore) List(ctx context.Context, limit, offset int) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, transactionDetailSelect+`
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListByBox(ctx context.Context, cashboxID int64, limit, offset int) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, transactionDetailSelect+`
		WHERE t.cashbox_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, cashboxID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllByBox returns the box's full history oldest first, the order a
// printed statement reads in.
func (s *TransactionStore) ListAllByBox(ctx context.Context, cashboxID int64) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, transactionDetailSelect+`
		WHERE t.cashbox_id = $1
		ORDER BY t.created_at, t.id
	`, cashboxID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, transactionDetailSelect+`
		WHERE cb.customer_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const sumByBoxQuery = `
	SELECT COALESCE(SUM(CASE WHEN direction = 'DEPOSIT' THEN amount ELSE -amount END), 0)
	FROM transactions
	WHERE cashbox_id = $1
`

// SumByBox recomputes a box balance from its transaction log: deposits
// count positive, withdrawals negative, empty boxes sum to zero.
func (s *TransactionStore) SumByBox(ctx context.Context, cashboxID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.GetContext(ctx, &balance, sumByBoxQuery, cashboxID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balance, nil
}

// SumByBoxTx is SumByBox inside an open transaction, so the balance
// returned from a write includes the row that was just inserted.
func (s *TransactionStore) SumByBoxTx(ctx context.Context, tx Getter, cashboxID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, sumByBoxQuery, cashboxID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balance, nil
}

// SumByCustomerPerCurrency groups the customer's boxes by currency and
// sums with sign. Boxes without transactions still contribute a zero
// row for their currency.
func (s *TransactionStore) SumByCustomerPerCurrency(ctx context.Context, customerID int64) ([]CurrencyBalance, error) {
	var rows []CurrencyBalance
	err := s.db.SelectContext(ctx, &rows, `
		SELECT cur.code AS currency_code, cur.symbol AS currency_symbol, cur.decimal_places,
		       COALESCE(SUM(CASE WHEN t.direction = 'DEPOSIT' THEN t.amount ELSE -t.amount END), 0) AS balance
		FROM cashboxes cb
		JOIN currencies cur ON cur.id = cb.currency_id
		LEFT JOIN transactions t ON t.cashbox_id = cb.id
		WHERE cb.customer_id = $1
		GROUP BY cur.code, cur.symbol, cur.decimal_places
		ORDER BY cur.code
	`, customerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions`)
	return count, err
}

func (s *TransactionStore) CountByBox(ctx context.Context, cashboxID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions WHERE cashbox_id = $1`, cashboxID)
	return count, err
}

func (s *TransactionStore) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN cashboxes cb ON cb.id = t.cashbox_id
		WHERE cb.customer_id = $1
	`, customerID)
	return count, err
}

// CountByCurrency backs the decimal_places freeze: once transactions
// exist in a currency its scale cannot change.
func (s *TransactionStore) CountByCurrency(ctx context.Context, tx Getter, currencyID int64) (int64, error) {
	var count int64
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN cashboxes cb ON cb.id = t.cashbox_id
		WHERE cb.currency_id = $1
	`, currencyID)
	return count, err
}
