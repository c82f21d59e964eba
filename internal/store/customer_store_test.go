package store

import (
	"context"
	"strings"
	"testing"

	"cashbox/internal/models"
)

func TestCustomerStoreCreate(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO customers") || !strings.Contains(query, "RETURNING id") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "Acme Trading" || args[1] != "+100200300" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Customer) = models.Customer{ID: 7, Name: "Acme Trading", Phone: "+100200300"}
			return nil
		},
	}
	row, err := NewCustomerStore(stubDB{}).Create(ctx, tx, "Acme Trading", "+100200300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != 7 || row.Name != "Acme Trading" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestCustomerStoreListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewCustomerStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC, id DESC") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != 20 || args[1] != 40 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Customer) = []models.Customer{{ID: 1}}
			return nil
		},
	})
	rows, err := store.List(ctx, 20, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestCustomerStoreListNamesOrdersByName(t *testing.T) {
	ctx := context.Background()
	store := NewCustomerStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "ORDER BY name") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]CustomerName) = []CustomerName{{ID: 2, Name: "Alpha"}}
			return nil
		},
	})
	rows, err := store.ListNames(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alpha" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestCustomerStoreCount(t *testing.T) {
	ctx := context.Background()
	store := NewCustomerStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "COUNT(*) FROM customers") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*int64) = 12
			return nil
		},
	})
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 12 {
		t.Fatalf("unexpected count: %d", count)
	}
}
