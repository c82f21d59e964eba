package handlers

import (
	"context"

	"cashbox/internal/ledger"
	"cashbox/internal/models"
	"cashbox/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type CustomerStore interface {
	Create(ctx context.Context, tx store.Tx, name, phone string) (models.Customer, error)
	GetByID(ctx context.Context, customerID int64) (models.Customer, error)
	List(ctx context.Context, limit, offset int) ([]models.Customer, error)
	ListNames(ctx context.Context) ([]store.CustomerName, error)
	Count(ctx context.Context) (int64, error)
}

type CurrencyStore interface {
	Create(ctx context.Context, tx store.Tx, code, name, symbol string, decimalPlaces int) (models.Currency, error)
	GetByID(ctx context.Context, currencyID int64) (models.Currency, error)
	GetForUpdate(ctx context.Context, tx store.Getter, currencyID int64) (models.Currency, error)
	List(ctx context.Context, activeOnly bool) ([]models.Currency, error)
	Update(ctx context.Context, tx store.Execer, currencyID int64, name, symbol string, decimalPlaces int, isActive bool) error
	Count(ctx context.Context) (int64, error)
}

type AccountTypeStore interface {
	Create(ctx context.Context, tx store.Tx, code, name string) (models.AccountType, error)
	GetByID(ctx context.Context, accountTypeID int64) (models.AccountType, error)
	List(ctx context.Context) ([]models.AccountType, error)
	Count(ctx context.Context) (int64, error)
}

type CashBoxStore interface {
	Create(ctx context.Context, tx store.Tx, customerID, currencyID, accountTypeID int64, name string) (models.CashBox, error)
	GetDetail(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error)
	Count(ctx context.Context) (int64, error)
}

type TransactionStore interface {
	List(ctx context.Context, limit, offset int) ([]store.TransactionDetail, error)
	ListByBox(ctx context.Context, cashboxID int64, limit, offset int) ([]store.TransactionDetail, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]store.TransactionDetail, error)
	Count(ctx context.Context) (int64, error)
	CountByBox(ctx context.Context, cashboxID int64) (int64, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	CountByCurrency(ctx context.Context, tx store.Getter, currencyID int64) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
	Count(ctx context.Context) (int64, error)
}

type LedgerService interface {
	Create(ctx context.Context, req ledger.CreateRequest) (ledger.CreateResult, error)
	BoxBalance(ctx context.Context, cashboxID int64) (store.CashBoxDetail, decimal.Decimal, error)
	BoxStatement(ctx context.Context, cashboxID int64) (store.CashBoxDetail, []store.TransactionDetail, decimal.Decimal, error)
	CustomerReport(ctx context.Context, customerID int64) (ledger.Report, error)
	ResolveReference(ctx context.Context, reference string) (store.TransactionDetail, error)
	Transaction(ctx context.Context, transactionID int64) (store.TransactionDetail, error)
}
