// Package ledger implements the bookkeeping rules: amount normalization,
// the append-only transaction log, derived balances, and customer
// reports. Handlers stay thin; every rule that matters lives here.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"cashbox/internal/db"
	"cashbox/internal/models"
	"cashbox/internal/money"
	"cashbox/internal/store"
	"cashbox/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Service struct {
	txRunner     db.TxRunner
	customers    CustomerStore
	boxes        CashBoxStore
	transactions TransactionStore
	audit        AuditStore
	hub          EventHub
}

type CustomerStore interface {
	GetByID(ctx context.Context, customerID int64) (models.Customer, error)
}

type CashBoxStore interface {
	GetDetail(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error)
	GetDetailTx(ctx context.Context, tx store.Getter, cashboxID int64) (store.CashBoxDetail, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	GetDetail(ctx context.Context, transactionID int64) (store.TransactionDetail, error)
	ListAllByBox(ctx context.Context, cashboxID int64) ([]store.TransactionDetail, error)
	SumByBox(ctx context.Context, cashboxID int64) (decimal.Decimal, error)
	SumByBoxTx(ctx context.Context, tx store.Getter, cashboxID int64) (decimal.Decimal, error)
	SumByCustomerPerCurrency(ctx context.Context, customerID int64) ([]store.CurrencyBalance, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type EventHub interface {
	BroadcastTransaction(event websocket.TransactionEvent)
}

func NewService(txRunner db.TxRunner, customers CustomerStore, boxes CashBoxStore, transactions TransactionStore, audit AuditStore, hub EventHub) *Service {
	return &Service{
		txRunner:     txRunner,
		customers:    customers,
		boxes:        boxes,
		transactions: transactions,
		audit:        audit,
		hub:          hub,
	}
}

type CreateRequest struct {
	CashBoxID int64
	Direction string
	Amount    string
	Note      string
	ActorID   string
}

type CreateResult struct {
	Transaction models.Transaction
	Box         store.CashBoxDetail
	Balance     decimal.Decimal
}

// Create records one movement. The raw amount is rounded half up to the
// box currency's scale before any check, so "12.345" in a two-place
// currency is stored as 12.35 and an amount that rounds to zero is
// rejected rather than logged as a no-op.
func (s *Service) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	direction := models.Direction(req.Direction)
	if !direction.Valid() {
		return CreateResult{}, NewValidationError("direction", "must be DEPOSIT or WITHDRAW")
	}
	var (
		box     store.CashBoxDetail
		created models.Transaction
		balance decimal.Decimal
	)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		detail, err := s.boxes.GetDetailTx(ctx, tx, req.CashBoxID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return wrapValidationError("cashbox_id", ErrCashBoxNotFound)
			}
			return err
		}
		amount, err := money.Parse(req.Amount)
		if err != nil {
			return wrapValidationError("amount", &PrecisionError{CurrencyCode: detail.CurrencyCode})
		}
		normalized := money.Quantize(amount, detail.DecimalPlaces)
		if !normalized.IsPositive() {
			return NewValidationError("amount", "must be positive after rounding")
		}
		row, err := s.transactions.Create(ctx, tx, store.TransactionInput{
			CashBoxID: detail.ID,
			Direction: direction,
			Amount:    normalized,
			Note:      strings.TrimSpace(req.Note),
		})
		if err != nil {
			return err
		}
		sum, err := s.transactions.SumByBoxTx(ctx, tx, detail.ID)
		if err != nil {
			return err
		}
		box = detail
		created = row
		balance = sum
		data, _ := json.Marshal(map[string]string{
			"cashbox_id": strconv.FormatInt(detail.ID, 10),
			"direction":  string(direction),
			"amount":     money.Format(normalized, detail.DecimalPlaces),
		})
		return s.audit.Log(ctx, tx, req.ActorID, strings.ToLower(string(direction)), "transaction", strconv.FormatInt(row.ID, 10), string(data))
	})
	if err != nil {
		return CreateResult{}, err
	}
	s.hub.BroadcastTransaction(websocket.TransactionEvent{
		TransactionID: created.ID,
		CashBoxID:     box.ID,
		CashBoxName:   box.Name,
		CustomerName:  box.CustomerName,
		Direction:     string(created.Direction),
		Amount:        money.Format(created.Amount, box.DecimalPlaces),
		CurrencyCode:  box.CurrencyCode,
		Balance:       money.Format(balance, box.DecimalPlaces),
	})
	return CreateResult{Transaction: created, Box: box, Balance: balance}, nil
}

// BoxBalance derives the balance of one box from its log. An empty box
// is a zero balance, not an error.
func (s *Service) BoxBalance(ctx context.Context, cashboxID int64) (store.CashBoxDetail, decimal.Decimal, error) {
	box, err := s.boxes.GetDetail(ctx, cashboxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.CashBoxDetail{}, decimal.Decimal{}, ErrCashBoxNotFound
		}
		return store.CashBoxDetail{}, decimal.Decimal{}, err
	}
	balance, err := s.transactions.SumByBox(ctx, cashboxID)
	if err != nil {
		return store.CashBoxDetail{}, decimal.Decimal{}, err
	}
	return box, balance, nil
}

// BoxStatement returns the box, its full history oldest first, and the
// closing balance.
func (s *Service) BoxStatement(ctx context.Context, cashboxID int64) (store.CashBoxDetail, []store.TransactionDetail, decimal.Decimal, error) {
	box, err := s.boxes.GetDetail(ctx, cashboxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.CashBoxDetail{}, nil, decimal.Decimal{}, ErrCashBoxNotFound
		}
		return store.CashBoxDetail{}, nil, decimal.Decimal{}, err
	}
	rows, err := s.transactions.ListAllByBox(ctx, cashboxID)
	if err != nil {
		return store.CashBoxDetail{}, nil, decimal.Decimal{}, err
	}
	balance, err := s.transactions.SumByBox(ctx, cashboxID)
	if err != nil {
		return store.CashBoxDetail{}, nil, decimal.Decimal{}, err
	}
	return box, rows, balance, nil
}

type Report struct {
	Customer models.Customer
	Boxes    []store.CashBoxSummary
	Totals   []store.CurrencyBalance
	// GrandTotal sums the per-currency subtotals without conversion.
	// It is a bookkeeping convention, not a value in any one currency,
	// and every rendering labels it so.
	GrandTotal       decimal.Decimal
	GrandTotalPlaces int
}

// CustomerReport assembles the per-currency position of one customer
// across all their boxes.
func (s *Service) CustomerReport(ctx context.Context, customerID int64) (Report, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrCustomerNotFound
		}
		return Report{}, err
	}
	boxes, err := s.boxes.ListByCustomer(ctx, customerID)
	if err != nil {
		return Report{}, err
	}
	totals, err := s.transactions.SumByCustomerPerCurrency(ctx, customerID)
	if err != nil {
		return Report{}, err
	}
	grand := decimal.Zero
	places := 0
	for _, total := range totals {
		grand = grand.Add(total.Balance)
		if total.DecimalPlaces > places {
			places = total.DecimalPlaces
		}
	}
	return Report{
		Customer:         customer,
		Boxes:            boxes,
		Totals:           totals,
		GrandTotal:       grand,
		GrandTotalPlaces: places,
	}, nil
}

var digitRun = regexp.MustCompile(`\d+`)

// ResolveReference looks a transaction up by any string that embeds its
// numeric id: "TX-000123", "receipt 123", or a bare "123" all resolve
// to transaction 123. The first run of digits wins.
func (s *Service) ResolveReference(ctx context.Context, reference string) (store.TransactionDetail, error) {
	digits := digitRun.FindString(reference)
	if digits == "" {
		return store.TransactionDetail{}, ErrTransactionNotFound
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// A digit run too long for int64 cannot match any stored id.
		return store.TransactionDetail{}, ErrTransactionNotFound
	}
	detail, err := s.transactions.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.TransactionDetail{}, ErrTransactionNotFound
		}
		return store.TransactionDetail{}, err
	}
	return detail, nil
}

// Transaction fetches one transaction with its display fields.
func (s *Service) Transaction(ctx context.Context, transactionID int64) (store.TransactionDetail, error) {
	detail, err := s.transactions.GetDetail(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.TransactionDetail{}, ErrTransactionNotFound
		}
		return store.TransactionDetail{}, err
	}
	return detail, nil
}
