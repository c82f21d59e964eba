package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"cashbox/internal/models"
	"cashbox/internal/store"

	"github.com/lib/pq"
)

func TestCreateAccountType(t *testing.T) {
	var audited string
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{}, stubCurrencyStore{}, stubAccountTypeStore{
		createFn: func(_ context.Context, _ store.Tx, code, name string) (models.AccountType, error) {
			if code != "SAVINGS" {
				t.Fatalf("unexpected code: %q", code)
			}
			return models.AccountType{ID: 2, Code: code, Name: name}, nil
		},
	}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{
		logFn: func(_ context.Context, _ store.Execer, _, action, entityType, _, _ string) error {
			audited = action + " " + entityType
			return nil
		},
	}, stubLedgerService{})

	body := []byte(`{"code":"SAVINGS","name":"Savings"}`)
	req := authedRequest(t, http.MethodPost, "/account-types", body)
	rr := serveAuthed(handler.CreateAccountType, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if audited != "create account_type" {
		t.Fatalf("unexpected audit entry: %s", audited)
	}
}

func TestCreateAccountTypeBadCode(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{}, stubCurrencyStore{}, stubAccountTypeStore{
		createFn: func(context.Context, store.Tx, string, string) (models.AccountType, error) {
			t.Fatalf("unexpected insert")
			return models.AccountType{}, nil
		},
	}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{}, stubLedgerService{})

	req := authedRequest(t, http.MethodPost, "/account-types", []byte(`{"code":"x","name":"X"}`))
	rr := serveAuthed(handler.CreateAccountType, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateAccountTypeDuplicate(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{}, stubCurrencyStore{}, stubAccountTypeStore{
		createFn: func(context.Context, store.Tx, string, string) (models.AccountType, error) {
			return models.AccountType{}, &pq.Error{Code: "23505"}
		},
	}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{}, stubLedgerService{})

	req := authedRequest(t, http.MethodPost, "/account-types", []byte(`{"code":"CURRENT","name":"Current"}`))
	rr := serveAuthed(handler.CreateAccountType, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestListAccountTypes(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{}, stubCurrencyStore{}, stubAccountTypeStore{
		listFn: func(context.Context) ([]models.AccountType, error) {
			return []models.AccountType{{ID: 1, Code: "CURRENT"}, {ID: 2, Code: "SAVINGS"}}, nil
		},
	}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{}, stubLedgerService{})

	req := authedRequest(t, http.MethodGet, "/account-types", nil)
	rr := serveAuthed(handler.ListAccountTypes, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var accountTypes []models.AccountType
	if err := json.NewDecoder(rr.Body).Decode(&accountTypes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(accountTypes) != 2 || accountTypes[0].Code != "CURRENT" {
		t.Fatalf("unexpected account types: %+v", accountTypes)
	}
}
