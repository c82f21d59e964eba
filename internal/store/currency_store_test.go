package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"cashbox/internal/models"
)

func TestCurrencyStoreCreate(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO currencies") || !strings.Contains(query, "RETURNING id") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "USD" || args[3] != 2 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Currency) = models.Currency{ID: 1, Code: "USD", DecimalPlaces: 2, IsActive: true}
			return nil
		},
	}
	row, err := NewCurrencyStore(stubDB{}).Create(ctx, tx, "USD", "US Dollar", "$", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Code != "USD" || row.DecimalPlaces != 2 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestCurrencyStoreListActiveOnly(t *testing.T) {
	ctx := context.Background()
	store := NewCurrencyStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "WHERE is_active = TRUE") || !strings.Contains(query, "ORDER BY code") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]models.Currency) = []models.Currency{{Code: "EUR"}}
			return nil
		},
	})
	rows, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "EUR" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestCurrencyStoreListAll(t *testing.T) {
	ctx := context.Background()
	store := NewCurrencyStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, _ ...any) error {
			if strings.Contains(query, "is_active = TRUE") {
				t.Fatalf("active filter should be absent: %s", query)
			}
			return nil
		},
	})
	if _, err := store.List(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCurrencyStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	getter := getFn(func(_ context.Context, dest any, query string, args ...any) error {
		if !strings.Contains(query, "FOR UPDATE") {
			t.Fatalf("unexpected query: %s", query)
		}
		if len(args) != 1 || args[0] != int64(3) {
			t.Fatalf("unexpected args: %#v", args)
		}
		*dest.(*models.Currency) = models.Currency{ID: 3, Code: "KWD", DecimalPlaces: 3}
		return nil
	})
	row, err := NewCurrencyStore(stubDB{}).GetForUpdate(ctx, getter, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.DecimalPlaces != 3 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestCurrencyStoreUpdate(t *testing.T) {
	ctx := context.Background()
	execer := execFn(func(_ context.Context, query string, args ...any) (sql.Result, error) {
		if !strings.Contains(query, "UPDATE currencies") {
			t.Fatalf("unexpected query: %s", query)
		}
		if len(args) != 5 || args[2] != 0 || args[4] != int64(9) {
			t.Fatalf("unexpected args: %#v", args)
		}
		return stubResult{rows: 1}, nil
	})
	err := NewCurrencyStore(stubDB{}).Update(ctx, execer, 9, "Japanese Yen", "¥", 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
