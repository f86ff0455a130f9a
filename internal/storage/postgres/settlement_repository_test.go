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

func TestSettlementRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewSettlementRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetAccountForUpdate returns account and ErrAccountNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "buyer@example.com", decimal.RequireFromString("25.00"), false)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			acc, err := repo.GetAccountForUpdate(txCtx, accountID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if acc.ID != accountID || !acc.WalletBalance.Equal(decimal.RequireFromString("25.00")) {
				t.Fatalf("unexpected account: %+v", acc)
			}

			_, err = repo.GetAccountForUpdate(txCtx, "00000000-0000-0000-0000-000000000001")
			if !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("expected ErrAccountNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		_, err = repo.GetAccountForUpdate(ctx, "not-a-uuid")
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ReserveStock guards against negative stock", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		productID := testutil.InsertProduct(t, ctx, pool, "License key", decimal.RequireFromString("9.99"), 2)
		product := domain.Product{ID: productID, Kind: domain.ProductKindStocked}

		if err := repo.ReserveStock(ctx, product, 2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		err := repo.ReserveStock(ctx, product, 1)
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		var stock int
		if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
			t.Fatalf("query stock: %v", err)
		}
		if stock != 0 {
			t.Fatalf("expected stock 0, got %d", stock)
		}
	})

	t.Run("single unit reserve and release", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		productID := testutil.InsertSingleProduct(t, ctx, pool, "Aged account", decimal.RequireFromString("50.00"), true)
		product := domain.Product{ID: productID, Kind: domain.ProductKindSingle}

		if err := repo.ReserveStock(ctx, product, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.ReserveStock(ctx, product, 1); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock on second reserve, got %v", err)
		}
		if err := repo.ReserveStock(ctx, product, 2); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}

		if err := repo.ReleaseStock(ctx, product, 1); err != nil {
			t.Fatalf("release: %v", err)
		}
		var available bool
		if err := pool.QueryRow(ctx, `SELECT available FROM products WHERE id = $1`, productID).Scan(&available); err != nil {
			t.Fatalf("query available: %v", err)
		}
		if !available {
			t.Fatalf("expected unit available after release")
		}
	})

	t.Run("DebitWallet refuses to overdraw", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "buyer@example.com", decimal.RequireFromString("10.00"), false)

		if err := repo.DebitWallet(ctx, accountID, decimal.RequireFromString("10.00")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		err := repo.DebitWallet(ctx, accountID, decimal.RequireFromString("0.01"))
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		if err := repo.CreditWallet(ctx, accountID, decimal.RequireFromString("5.00")); err != nil {
			t.Fatalf("credit: %v", err)
		}
		var balance decimal.Decimal
		if err := pool.QueryRow(ctx, `SELECT wallet_balance FROM accounts WHERE id = $1`, accountID).Scan(&balance); err != nil {
			t.Fatalf("query balance: %v", err)
		}
		if !balance.Equal(decimal.RequireFromString("5.00")) {
			t.Fatalf("expected balance 5.00, got %s", balance)
		}
	})

	t.Run("order status transitions are guarded", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC().Truncate(time.Microsecond)

		accountID := testutil.InsertAccount(t, ctx, pool, "buyer@example.com", decimal.Zero, false)
		productID := testutil.InsertProduct(t, ctx, pool, "License key", decimal.RequireFromString("9.99"), 5)
		orderID := testutil.InsertOrder(t, ctx, pool, domain.Order{
			AccountID:       accountID,
			ProductID:       productID,
			Quantity:        1,
			UnitPrice:       decimal.RequireFromString("9.99"),
			Total:           decimal.RequireFromString("9.99"),
			WalletPortion:   decimal.Zero,
			ExternalPortion: decimal.RequireFromString("9.99"),
			Status:          domain.OrderStatusPending,
			CreatedAt:       now,
		})

		if err := repo.MarkOrderCompleted(ctx, orderID, now); !errors.Is(err, domain.ErrOrderNotSubmitted) {
			t.Fatalf("expected ErrOrderNotSubmitted, got %v", err)
		}

		if err := repo.MarkOrderSubmitted(ctx, orderID, "UTR1234567890AB", "hash", "path", now); err != nil {
			t.Fatalf("mark submitted: %v", err)
		}
		if err := repo.MarkOrderSubmitted(ctx, orderID, "UTR1234567890AB", "hash", "path", now); !errors.Is(err, domain.ErrOrderNotPending) {
			t.Fatalf("expected ErrOrderNotPending on second submit, got %v", err)
		}

		if err := repo.MarkOrderCompleted(ctx, orderID, now); err != nil {
			t.Fatalf("mark completed: %v", err)
		}
		if err := repo.MarkOrderCancelled(ctx, orderID, "admin-1", "", now); !errors.Is(err, domain.ErrAlreadyCompleted) {
			t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
		}

		order, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if order.Status != domain.OrderStatusCompleted {
			t.Fatalf("expected completed, got %s", order.Status)
		}
		if order.ReferenceCode != "UTR1234567890AB" {
			t.Fatalf("expected reference persisted, got %q", order.ReferenceCode)
		}
		if order.SubmittedAt == nil || order.CompletedAt == nil {
			t.Fatalf("expected timestamps set: %+v", order)
		}
	})

	t.Run("compensation flags flip exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC()

		accountID := testutil.InsertAccount(t, ctx, pool, "buyer@example.com", decimal.Zero, false)
		productID := testutil.InsertProduct(t, ctx, pool, "License key", decimal.RequireFromString("9.99"), 5)
		orderID := testutil.InsertOrder(t, ctx, pool, domain.Order{
			AccountID:       accountID,
			ProductID:       productID,
			Quantity:        1,
			UnitPrice:       decimal.RequireFromString("9.99"),
			Total:           decimal.RequireFromString("9.99"),
			WalletPortion:   decimal.RequireFromString("9.99"),
			ExternalPortion: decimal.Zero,
			Status:          domain.OrderStatusPending,
			CreatedAt:       now,
		})

		if err := repo.MarkWalletRefunded(ctx, orderID); err != nil {
			t.Fatalf("first refund mark: %v", err)
		}
		if err := repo.MarkWalletRefunded(ctx, orderID); err == nil {
			t.Fatalf("expected error on second refund mark")
		}
		if err := repo.MarkStockReleased(ctx, orderID); err != nil {
			t.Fatalf("first release mark: %v", err)
		}
		if err := repo.MarkStockReleased(ctx, orderID); err == nil {
			t.Fatalf("expected error on second release mark")
		}
	})

	t.Run("ListExpiredPendingOrderIDs honors cutoff and status", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC()

		accountID := testutil.InsertAccount(t, ctx, pool, "buyer@example.com", decimal.Zero, false)
		productID := testutil.InsertProduct(t, ctx, pool, "License key", decimal.RequireFromString("9.99"), 5)

		base := domain.Order{
			AccountID:       accountID,
			ProductID:       productID,
			Quantity:        1,
			UnitPrice:       decimal.RequireFromString("9.99"),
			Total:           decimal.RequireFromString("9.99"),
			WalletPortion:   decimal.Zero,
			ExternalPortion: decimal.RequireFromString("9.99"),
		}

		expired := base
		expired.Status = domain.OrderStatusPending
		expired.CreatedAt = now.Add(-48 * time.Hour)
		expiredID := testutil.InsertOrder(t, ctx, pool, expired)

		fresh := base
		fresh.Status = domain.OrderStatusPending
		fresh.CreatedAt = now.Add(-time.Hour)
		testutil.InsertOrder(t, ctx, pool, fresh)

		submitted := base
		submitted.Status = domain.OrderStatusSubmitted
		submitted.CreatedAt = now.Add(-48 * time.Hour)
		testutil.InsertOrder(t, ctx, pool, submitted)

		ids, err := repo.ListExpiredPendingOrderIDs(ctx, now.Add(-24*time.Hour), 100)
		if err != nil {
			t.Fatalf("list expired: %v", err)
		}
		if len(ids) != 1 || ids[0] != expiredID {
			t.Fatalf("expected only the expired pending order, got %v", ids)
		}
	})
}
