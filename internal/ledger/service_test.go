package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"cashbox/internal/models"
	"cashbox/internal/store"
	"cashbox/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubCustomerStore struct {
	getByIDFn func(ctx context.Context, customerID int64) (models.Customer, error)
}

func (s stubCustomerStore) GetByID(ctx context.Context, customerID int64) (models.Customer, error) {
	if s.getByIDFn == nil {
		return models.Customer{}, nil
	}
	return s.getByIDFn(ctx, customerID)
}

type stubCashBoxStore struct {
	getDetailFn      func(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error)
	getDetailTxFn    func(ctx context.Context, tx store.Getter, cashboxID int64) (store.CashBoxDetail, error)
	listByCustomerFn func(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error)
}

func (s stubCashBoxStore) GetDetail(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error) {
	return s.getDetailFn(ctx, cashboxID)
}

func (s stubCashBoxStore) GetDetailTx(ctx context.Context, tx store.Getter, cashboxID int64) (store.CashBoxDetail, error) {
	return s.getDetailTxFn(ctx, tx, cashboxID)
}

func (s stubCashBoxStore) ListByCustomer(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error) {
	if s.listByCustomerFn == nil {
		return nil, nil
	}
	return s.listByCustomerFn(ctx, customerID)
}

type stubTransactionStore struct {
	createFn         func(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	getDetailFn      func(ctx context.Context, transactionID int64) (store.TransactionDetail, error)
	listAllByBoxFn   func(ctx context.Context, cashboxID int64) ([]store.TransactionDetail, error)
	sumByBoxFn       func(ctx context.Context, cashboxID int64) (decimal.Decimal, error)
	sumByBoxTxFn     func(ctx context.Context, tx store.Getter, cashboxID int64) (decimal.Decimal, error)
	sumPerCurrencyFn func(ctx context.Context, customerID int64) ([]store.CurrencyBalance, error)
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error) {
	return s.createFn(ctx, tx, input)
}

func (s stubTransactionStore) GetDetail(ctx context.Context, transactionID int64) (store.TransactionDetail, error) {
	return s.getDetailFn(ctx, transactionID)
}

func (s stubTransactionStore) ListAllByBox(ctx context.Context, cashboxID int64) ([]store.TransactionDetail, error) {
	if s.listAllByBoxFn == nil {
		return nil, nil
	}
	return s.listAllByBoxFn(ctx, cashboxID)
}

func (s stubTransactionStore) SumByBox(ctx context.Context, cashboxID int64) (decimal.Decimal, error) {
	if s.sumByBoxFn == nil {
		return decimal.Zero, nil
	}
	return s.sumByBoxFn(ctx, cashboxID)
}

func (s stubTransactionStore) SumByBoxTx(ctx context.Context, tx store.Getter, cashboxID int64) (decimal.Decimal, error) {
	if s.sumByBoxTxFn == nil {
		return decimal.Zero, nil
	}
	return s.sumByBoxTxFn(ctx, tx, cashboxID)
}

func (s stubTransactionStore) SumByCustomerPerCurrency(ctx context.Context, customerID int64) ([]store.CurrencyBalance, error) {
	if s.sumPerCurrencyFn == nil {
		return nil, nil
	}
	return s.sumPerCurrencyFn(ctx, customerID)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubHub struct {
	events []websocket.TransactionEvent
}

func (s *stubHub) BroadcastTransaction(event websocket.TransactionEvent) {
	s.events = append(s.events, event)
}

func usdBox() store.CashBoxDetail {
	return store.CashBoxDetail{
		ID:              5,
		Name:            "Main wallet",
		CustomerID:      2,
		CustomerName:    "Aram Petrosyan",
		CurrencyCode:    "USD",
		CurrencySymbol:  "$",
		DecimalPlaces:   2,
		AccountTypeCode: "CASH",
		AccountTypeName: "Cash",
	}
}

func TestCreateRoundsExcessPrecision(t *testing.T) {
	var input store.TransactionInput
	hub := &stubHub{}
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Tx, in store.TransactionInput) (models.Transaction, error) {
			input = in
			return models.Transaction{ID: 123, CashBoxID: in.CashBoxID, Direction: in.Direction, Amount: in.Amount, Note: in.Note}, nil
		},
		sumByBoxTxFn: func(context.Context, store.Getter, int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("12.35"), nil
		},
	}, stubAuditStore{}, hub)

	result, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "DEPOSIT", Amount: "12.3456", ActorID: "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !input.Amount.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("expected stored amount 12.35, got %s", input.Amount)
	}
	if result.Transaction.ID != 123 {
		t.Fatalf("unexpected transaction id: %d", result.Transaction.ID)
	}
	if len(hub.events) != 1 || hub.events[0].Amount != "12.35" || hub.events[0].Balance != "12.35" {
		t.Fatalf("unexpected broadcast: %#v", hub.events)
	}
}

func TestCreateRejectsAmountRoundingToZero(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Tx, store.TransactionInput) (models.Transaction, error) {
			t.Fatalf("unexpected insert")
			return models.Transaction{}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "DEPOSIT", Amount: "0.004", ActorID: "user-1",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
}

func TestCreateRejectsNegativeAmount(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Tx, store.TransactionInput) (models.Transaction, error) {
			t.Fatalf("unexpected insert")
			return models.Transaction{}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "WITHDRAW", Amount: "-5.00", ActorID: "user-1",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownDirection(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			t.Fatalf("unexpected store call")
			return store.CashBoxDetail{}, nil
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "TRANSFER", Amount: "10", ActorID: "user-1",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "direction" {
		t.Fatalf("expected direction validation error, got %v", err)
	}
}

func TestCreateRejectsMalformedAmount(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Tx, store.TransactionInput) (models.Transaction, error) {
			t.Fatalf("unexpected insert")
			return models.Transaction{}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "DEPOSIT", Amount: "ten", ActorID: "user-1",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
	var precisionErr *PrecisionError
	if !errors.As(err, &precisionErr) {
		t.Fatalf("expected precision error, got %v", err)
	}
	if precisionErr.Error() != "invalid amount precision for USD" {
		t.Fatalf("unexpected message: %s", precisionErr.Error())
	}
}

func TestCreateUnknownBox(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return store.CashBoxDetail{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 99, Direction: "DEPOSIT", Amount: "10", ActorID: "user-1",
	})
	if !errors.Is(err, ErrCashBoxNotFound) {
		t.Fatalf("expected ErrCashBoxNotFound, got %v", err)
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "cashbox_id" {
		t.Fatalf("expected cashbox_id validation error, got %v", err)
	}
}

func TestCreateAuditsWithinTransaction(t *testing.T) {
	var auditAction, auditEntity string
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailTxFn: func(context.Context, store.Getter, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Tx, in store.TransactionInput) (models.Transaction, error) {
			return models.Transaction{ID: 7, Amount: in.Amount, Direction: in.Direction}, nil
		},
	}, stubAuditStore{
		logFn: func(_ context.Context, _ store.Execer, _, action, entityType, entityID, _ string) error {
			auditAction = action
			auditEntity = entityType + "/" + entityID
			return nil
		},
	}, &stubHub{})

	_, err := service.Create(context.Background(), CreateRequest{
		CashBoxID: 5, Direction: "WITHDRAW", Amount: "3", ActorID: "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auditAction != "withdraw" || auditEntity != "transaction/7" {
		t.Fatalf("unexpected audit entry: %s %s", auditAction, auditEntity)
	}
}

func TestBoxBalanceEmptyBoxIsZero(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailFn: func(context.Context, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		sumByBoxFn: func(context.Context, int64) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, balance, err := service.BoxBalance(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestBoxBalanceUnknownBox(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailFn: func(context.Context, int64) (store.CashBoxDetail, error) {
			return store.CashBoxDetail{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})

	_, _, err := service.BoxBalance(context.Background(), 99)
	if err != ErrCashBoxNotFound {
		t.Fatalf("expected ErrCashBoxNotFound, got %v", err)
	}
}

func TestBoxStatementReturnsHistoryAndClosingBalance(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailFn: func(context.Context, int64) (store.CashBoxDetail, error) {
			return usdBox(), nil
		},
	}, stubTransactionStore{
		listAllByBoxFn: func(_ context.Context, cashboxID int64) ([]store.TransactionDetail, error) {
			if cashboxID != 5 {
				t.Fatalf("unexpected box id: %d", cashboxID)
			}
			return []store.TransactionDetail{
				{ID: 1, Direction: models.DirectionDeposit, Amount: decimal.RequireFromString("50.00")},
				{ID: 2, Direction: models.DirectionWithdraw, Amount: decimal.RequireFromString("20.00")},
			}, nil
		},
		sumByBoxFn: func(context.Context, int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("30.00"), nil
		},
	}, stubAuditStore{}, &stubHub{})

	box, rows, closing, err := service.BoxStatement(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if box.ID != 5 {
		t.Fatalf("unexpected box: %#v", box)
	}
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 2 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
	if !closing.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected closing balance 30.00, got %s", closing)
	}
}

func TestBoxStatementUnknownBox(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{
		getDetailFn: func(context.Context, int64) (store.CashBoxDetail, error) {
			return store.CashBoxDetail{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})

	_, _, _, err := service.BoxStatement(context.Background(), 99)
	if err != ErrCashBoxNotFound {
		t.Fatalf("expected ErrCashBoxNotFound, got %v", err)
	}
}

func TestCustomerReportSumsAcrossCurrencies(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{
		getByIDFn: func(context.Context, int64) (models.Customer, error) {
			return models.Customer{ID: 2, Name: "Aram Petrosyan"}, nil
		},
	}, stubCashBoxStore{}, stubTransactionStore{
		sumPerCurrencyFn: func(context.Context, int64) ([]store.CurrencyBalance, error) {
			return []store.CurrencyBalance{
				{CurrencyCode: "EUR", DecimalPlaces: 2, Balance: decimal.RequireFromString("10.00")},
				{CurrencyCode: "USD", DecimalPlaces: 2, Balance: decimal.RequireFromString("60.00")},
			}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	report, err := service.CustomerReport(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Totals) != 2 {
		t.Fatalf("expected 2 subtotals, got %d", len(report.Totals))
	}
	if !report.GrandTotal.Equal(decimal.RequireFromString("70.00")) {
		t.Fatalf("expected grand total 70.00, got %s", report.GrandTotal)
	}
	if report.GrandTotalPlaces != 2 {
		t.Fatalf("expected 2 places, got %d", report.GrandTotalPlaces)
	}
}

func TestCustomerReportUnknownCustomer(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{
		getByIDFn: func(context.Context, int64) (models.Customer, error) {
			return models.Customer{}, sql.ErrNoRows
		},
	}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})

	_, err := service.CustomerReport(context.Background(), 99)
	if err != ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestResolveReferenceExtractsDigitRun(t *testing.T) {
	var requested int64
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{}, stubTransactionStore{
		getDetailFn: func(_ context.Context, transactionID int64) (store.TransactionDetail, error) {
			requested = transactionID
			return store.TransactionDetail{ID: transactionID}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	for reference, want := range map[string]int64{
		"TX-000123":   123,
		"0000042":     42,
		"receipt 17b": 17,
	} {
		detail, err := service.ResolveReference(context.Background(), reference)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", reference, err)
		}
		if requested != want || detail.ID != want {
			t.Fatalf("%s: expected id %d, got %d", reference, want, requested)
		}
	}
}

func TestResolveReferenceNoDigits(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{}, stubTransactionStore{
		getDetailFn: func(context.Context, int64) (store.TransactionDetail, error) {
			t.Fatalf("unexpected store call")
			return store.TransactionDetail{}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.ResolveReference(context.Background(), "xyz")
	if err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestResolveReferenceOverflowingDigits(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{}, stubTransactionStore{
		getDetailFn: func(context.Context, int64) (store.TransactionDetail, error) {
			t.Fatalf("unexpected store call")
			return store.TransactionDetail{}, nil
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.ResolveReference(context.Background(), "99999999999999999999")
	if err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestResolveReferenceMissingTransaction(t *testing.T) {
	service := NewService(fakeTxRunner{}, stubCustomerStore{}, stubCashBoxStore{}, stubTransactionStore{
		getDetailFn: func(context.Context, int64) (store.TransactionDetail, error) {
			return store.TransactionDetail{}, sql.ErrNoRows
		},
	}, stubAuditStore{}, &stubHub{})

	_, err := service.ResolveReference(context.Background(), "123")
	if err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
