package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAuditStoreLogAssignsID(t *testing.T) {
	ctx := context.Background()
	execer := execFn(func(_ context.Context, query string, args ...any) (sql.Result, error) {
		if !strings.Contains(query, "INSERT INTO audit_logs") {
			t.Fatalf("unexpected query: %s", query)
		}
		if len(args) != 6 || args[1] != "actor-1" || args[2] != "transaction.create" {
			t.Fatalf("unexpected args: %#v", args)
		}
		id, ok := args[0].(string)
		if !ok || len(id) != 36 {
			t.Fatalf("expected uuid id, got %#v", args[0])
		}
		return stubResult{rows: 1}, nil
	})
	store := NewAuditStore(stubDB{})
	if err := store.Log(ctx, execer, "actor-1", "transaction.create", "transaction", "123", "{}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewAuditStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != 10 || args[1] != 5 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]AuditEntry) = []AuditEntry{{ID: "log-1"}}
			return nil
		},
	})
	rows, err := store.List(ctx, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "log-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
