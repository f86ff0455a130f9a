package postgres_test

import (
	. "github.com/zentraxx/storefront/internal/storage/postgres"

	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/domain"
	"github.com/zentraxx/storefront/internal/testutil"
)

func TestCatalogRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCatalogRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("ListVisibleProducts hides invisible rows", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		visibleID := testutil.InsertProduct(t, ctx, pool, "Visible", decimal.RequireFromString("9.99"), 5)
		if _, err := pool.Exec(ctx,
			`INSERT INTO products (name, kind, price, stock, visible) VALUES ('Hidden', 'stocked', 1.00, 5, FALSE)`,
		); err != nil {
			t.Fatalf("insert hidden product: %v", err)
		}

		products, err := repo.ListVisibleProducts(ctx)
		if err != nil {
			t.Fatalf("list products: %v", err)
		}
		if len(products) != 1 || products[0].ID != visibleID {
			t.Fatalf("expected only the visible product, got %+v", products)
		}
	})

	t.Run("GetOrder maps missing and malformed ids", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.GetOrder(ctx, "00000000-0000-0000-0000-000000000001")
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		_, err = repo.GetOrder(ctx, "not-a-uuid")
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ListOrdersByAccount scopes to the account", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC()

		accountA := testutil.InsertAccount(t, ctx, pool, "a@example.com", decimal.Zero, false)
		accountB := testutil.InsertAccount(t, ctx, pool, "b@example.com", decimal.Zero, false)
		productID := testutil.InsertProduct(t, ctx, pool, "License key", decimal.RequireFromString("9.99"), 5)

		base := domain.Order{
			ProductID:       productID,
			Quantity:        1,
			UnitPrice:       decimal.RequireFromString("9.99"),
			Total:           decimal.RequireFromString("9.99"),
			WalletPortion:   decimal.Zero,
			ExternalPortion: decimal.RequireFromString("9.99"),
			Status:          domain.OrderStatusPending,
			CreatedAt:       now,
		}
		a := base
		a.AccountID = accountA
		aID := testutil.InsertOrder(t, ctx, pool, a)
		b := base
		b.AccountID = accountB
		testutil.InsertOrder(t, ctx, pool, b)

		orders, err := repo.ListOrdersByAccount(ctx, accountA, 10)
		if err != nil {
			t.Fatalf("list orders: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != aID {
			t.Fatalf("expected only account A orders, got %+v", orders)
		}
	})
}
