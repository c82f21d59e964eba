package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"cashbox/internal/store"
)

func TestDashboardCounts(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{
		countFn: func(context.Context) (int64, error) { return 12, nil },
	}, stubCurrencyStore{
		countFn: func(context.Context) (int64, error) { return 3, nil },
	}, stubAccountTypeStore{
		countFn: func(context.Context) (int64, error) { return 2, nil },
	}, stubCashBoxStore{
		countFn: func(context.Context) (int64, error) { return 18, nil },
	}, stubTransactionStore{
		countFn: func(context.Context) (int64, error) { return 540, nil },
	}, stubAuditStore{}, stubLedgerService{})

	req := authedRequest(t, http.MethodGet, "/dashboard", nil)
	rr := serveAuthed(handler.Dashboard, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]int64
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["customers"] != 12 || resp["cashboxes"] != 18 || resp["transactions"] != 540 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if resp["currencies"] != 3 || resp["account_types"] != 2 {
		t.Fatalf("unexpected reference counts: %+v", resp)
	}
}

func TestDashboardCountFailure(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{
		countFn: func(context.Context) (int64, error) { return 0, errors.New("db down") },
	}, stubCurrencyStore{}, stubAccountTypeStore{}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{}, stubLedgerService{})

	req := authedRequest(t, http.MethodGet, "/dashboard", nil)
	rr := serveAuthed(handler.Dashboard, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestListAuditLog(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCustomerStore{}, stubCurrencyStore{}, stubAccountTypeStore{}, stubCashBoxStore{}, stubTransactionStore{}, stubAuditStore{
		listFn: func(_ context.Context, limit, offset int) ([]store.AuditEntry, error) {
			if limit != 50 || offset != 0 {
				t.Fatalf("unexpected paging: limit=%d offset=%d", limit, offset)
			}
			return []store.AuditEntry{{ID: "a1", Action: "deposit", EntityType: "transaction"}}, nil
		},
		countFn: func(context.Context) (int64, error) { return 1, nil },
	}, stubLedgerService{})

	req := authedRequest(t, http.MethodGet, "/audit", nil)
	rr := serveAuthed(handler.ListAuditLog, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Items []store.AuditEntry `json:"items"`
		Total int64              `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].Action != "deposit" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
