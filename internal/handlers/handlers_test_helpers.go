package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashbox/internal/auth"
	"cashbox/internal/config"
	"cashbox/internal/db"
	"cashbox/internal/ledger"
	"cashbox/internal/middleware"
	"cashbox/internal/models"
	"cashbox/internal/store"
	"cashbox/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn    func(ctx context.Context, email string) (models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (models.User, error)
	getByIDFn       func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubCustomerStore struct {
	createFn    func(ctx context.Context, tx store.Tx, name, phone string) (models.Customer, error)
	getByIDFn   func(ctx context.Context, customerID int64) (models.Customer, error)
	listFn      func(ctx context.Context, limit, offset int) ([]models.Customer, error)
	listNamesFn func(ctx context.Context) ([]store.CustomerName, error)
	countFn     func(ctx context.Context) (int64, error)
}

func (s stubCustomerStore) Create(ctx context.Context, tx store.Tx, name, phone string) (models.Customer, error) {
	if s.createFn == nil {
		return models.Customer{}, nil
	}
	return s.createFn(ctx, tx, name, phone)
}

func (s stubCustomerStore) GetByID(ctx context.Context, customerID int64) (models.Customer, error) {
	if s.getByIDFn == nil {
		return models.Customer{}, nil
	}
	return s.getByIDFn(ctx, customerID)
}

func (s stubCustomerStore) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubCustomerStore) ListNames(ctx context.Context) ([]store.CustomerName, error) {
	if s.listNamesFn == nil {
		return nil, nil
	}
	return s.listNamesFn(ctx)
}

func (s stubCustomerStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

type stubCurrencyStore struct {
	createFn       func(ctx context.Context, tx store.Tx, code, name, symbol string, decimalPlaces int) (models.Currency, error)
	getByIDFn      func(ctx context.Context, currencyID int64) (models.Currency, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, currencyID int64) (models.Currency, error)
	listFn         func(ctx context.Context, activeOnly bool) ([]models.Currency, error)
	updateFn       func(ctx context.Context, tx store.Execer, currencyID int64, name, symbol string, decimalPlaces int, isActive bool) error
	countFn        func(ctx context.Context) (int64, error)
}

func (s stubCurrencyStore) Create(ctx context.Context, tx store.Tx, code, name, symbol string, decimalPlaces int) (models.Currency, error) {
	if s.createFn == nil {
		return models.Currency{}, nil
	}
	return s.createFn(ctx, tx, code, name, symbol, decimalPlaces)
}

func (s stubCurrencyStore) GetByID(ctx context.Context, currencyID int64) (models.Currency, error) {
	if s.getByIDFn == nil {
		return models.Currency{}, nil
	}
	return s.getByIDFn(ctx, currencyID)
}

func (s stubCurrencyStore) GetForUpdate(ctx context.Context, tx store.Getter, currencyID int64) (models.Currency, error) {
	if s.getForUpdateFn == nil {
		return models.Currency{}, nil
	}
	return s.getForUpdateFn(ctx, tx, currencyID)
}

func (s stubCurrencyStore) List(ctx context.Context, activeOnly bool) ([]models.Currency, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, activeOnly)
}

func (s stubCurrencyStore) Update(ctx context.Context, tx store.Execer, currencyID int64, name, symbol string, decimalPlaces int, isActive bool) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, currencyID, name, symbol, decimalPlaces, isActive)
}

func (s stubCurrencyStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

type stubAccountTypeStore struct {
	createFn  func(ctx context.Context, tx store.Tx, code, name string) (models.AccountType, error)
	getByIDFn func(ctx context.Context, accountTypeID int64) (models.AccountType, error)
	listFn    func(ctx context.Context) ([]models.AccountType, error)
	countFn   func(ctx context.Context) (int64, error)
}

func (s stubAccountTypeStore) Create(ctx context.Context, tx store.Tx, code, name string) (models.AccountType, error) {
	if s.createFn == nil {
		return models.AccountType{}, nil
	}
	return s.createFn(ctx, tx, code, name)
}

func (s stubAccountTypeStore) GetByID(ctx context.Context, accountTypeID int64) (models.AccountType, error) {
	if s.getByIDFn == nil {
		return models.AccountType{}, nil
	}
	return s.getByIDFn(ctx, accountTypeID)
}

func (s stubAccountTypeStore) List(ctx context.Context) ([]models.AccountType, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubAccountTypeStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

type stubCashBoxStore struct {
	createFn         func(ctx context.Context, tx store.Tx, customerID, currencyID, accountTypeID int64, name string) (models.CashBox, error)
	getDetailFn      func(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error)
	listByCustomerFn func(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error)
	countFn          func(ctx context.Context) (int64, error)
}

func (s stubCashBoxStore) Create(ctx context.Context, tx store.Tx, customerID, currencyID, accountTypeID int64, name string) (models.CashBox, error) {
	if s.createFn == nil {
		return models.CashBox{}, nil
	}
	return s.createFn(ctx, tx, customerID, currencyID, accountTypeID, name)
}

func (s stubCashBoxStore) GetDetail(ctx context.Context, cashboxID int64) (store.CashBoxDetail, error) {
	if s.getDetailFn == nil {
		return store.CashBoxDetail{}, nil
	}
	return s.getDetailFn(ctx, cashboxID)
}

func (s stubCashBoxStore) ListByCustomer(ctx context.Context, customerID int64) ([]store.CashBoxSummary, error) {
	if s.listByCustomerFn == nil {
		return nil, nil
	}
	return s.listByCustomerFn(ctx, customerID)
}

func (s stubCashBoxStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

type stubTransactionStore struct {
	listFn            func(ctx context.Context, limit, offset int) ([]store.TransactionDetail, error)
	listByBoxFn       func(ctx context.Context, cashboxID int64, limit, offset int) ([]store.TransactionDetail, error)
	listByCustomerFn  func(ctx context.Context, customerID int64, limit, offset int) ([]store.TransactionDetail, error)
	countFn           func(ctx context.Context) (int64, error)
	countByBoxFn      func(ctx context.Context, cashboxID int64) (int64, error)
	countByCustomerFn func(ctx context.Context, customerID int64) (int64, error)
	countByCurrencyFn func(ctx context.Context, tx store.Getter, currencyID int64) (int64, error)
}

func (s stubTransactionStore) List(ctx context.Context, limit, offset int) ([]store.TransactionDetail, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubTransactionStore) ListByBox(ctx context.Context, cashboxID int64, limit, offset int) ([]store.TransactionDetail, error) {
	if s.listByBoxFn == nil {
		return nil, nil
	}
	return s.listByBoxFn(ctx, cashboxID, limit, offset)
}

func (s stubTransactionStore) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]store.TransactionDetail, error) {
	if s.listByCustomerFn == nil {
		return nil, nil
	}
	return s.listByCustomerFn(ctx, customerID, limit, offset)
}

func (s stubTransactionStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

func (s stubTransactionStore) CountByBox(ctx context.Context, cashboxID int64) (int64, error) {
	if s.countByBoxFn == nil {
		return 0, nil
	}
	return s.countByBoxFn(ctx, cashboxID)
}

func (s stubTransactionStore) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	if s.countByCustomerFn == nil {
		return 0, nil
	}
	return s.countByCustomerFn(ctx, customerID)
}

func (s stubTransactionStore) CountByCurrency(ctx context.Context, tx store.Getter, currencyID int64) (int64, error) {
	if s.countByCurrencyFn == nil {
		return 0, nil
	}
	return s.countByCurrencyFn(ctx, tx, currencyID)
}

type stubAuditStore struct {
	logFn   func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn  func(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
	countFn func(ctx context.Context) (int64, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubAuditStore) Count(ctx context.Context) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

type stubLedgerService struct {
	createFn           func(ctx context.Context, req ledger.CreateRequest) (ledger.CreateResult, error)
	boxBalanceFn       func(ctx context.Context, cashboxID int64) (store.CashBoxDetail, decimal.Decimal, error)
	boxStatementFn     func(ctx context.Context, cashboxID int64) (store.CashBoxDetail, []store.TransactionDetail, decimal.Decimal, error)
	customerReportFn   func(ctx context.Context, customerID int64) (ledger.Report, error)
	resolveReferenceFn func(ctx context.Context, reference string) (store.TransactionDetail, error)
	transactionFn      func(ctx context.Context, transactionID int64) (store.TransactionDetail, error)
}

func (s stubLedgerService) Create(ctx context.Context, req ledger.CreateRequest) (ledger.CreateResult, error) {
	if s.createFn == nil {
		return ledger.CreateResult{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubLedgerService) BoxBalance(ctx context.Context, cashboxID int64) (store.CashBoxDetail, decimal.Decimal, error) {
	if s.boxBalanceFn == nil {
		return store.CashBoxDetail{}, decimal.Zero, nil
	}
	return s.boxBalanceFn(ctx, cashboxID)
}

func (s stubLedgerService) BoxStatement(ctx context.Context, cashboxID int64) (store.CashBoxDetail, []store.TransactionDetail, decimal.Decimal, error) {
	if s.boxStatementFn == nil {
		return store.CashBoxDetail{}, nil, decimal.Zero, nil
	}
	return s.boxStatementFn(ctx, cashboxID)
}

func (s stubLedgerService) CustomerReport(ctx context.Context, customerID int64) (ledger.Report, error) {
	if s.customerReportFn == nil {
		return ledger.Report{}, nil
	}
	return s.customerReportFn(ctx, customerID)
}

func (s stubLedgerService) ResolveReference(ctx context.Context, reference string) (store.TransactionDetail, error) {
	if s.resolveReferenceFn == nil {
		return store.TransactionDetail{}, nil
	}
	return s.resolveReferenceFn(ctx, reference)
}

func (s stubLedgerService) Transaction(ctx context.Context, transactionID int64) (store.TransactionDetail, error) {
	if s.transactionFn == nil {
		return store.TransactionDetail{}, nil
	}
	return s.transactionFn(ctx, transactionID)
}

func newTestHandler(txRunner db.TxRunner, users UserStore, customers CustomerStore, currencies CurrencyStore, accountTypes AccountTypeStore, boxes CashBoxStore, transactions TransactionStore, audit AuditStore, service LedgerService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		DatabaseURL:    "",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(txRunner, cfg, users, customers, currencies, accountTypes, boxes, transactions, audit, service, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// withURLParam attaches a chi route parameter so a handler can be
// exercised without the full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}
