package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/domain"
)

type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const accountColumns = `id, email, wallet_balance, is_admin, created_at`

func (r *SettlementRepository) GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	var a domain.Account
	err := r.queryRow(ctx, query, accountID).
		Scan(&a.ID, &a.Email, &a.WalletBalance, &a.IsAdmin, &a.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Account{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

const productColumns = `id, name, description, kind, price, stock, available, visible, file_path, created_at, updated_at`

func (r *SettlementRepository) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	p, err := scanProduct(r.queryRow(ctx, query, productID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

const orderColumns = `id, account_id, product_id, quantity, unit_price, total,
	wallet_portion, external_portion, status, reference_code, proof_hash, proof_path,
	wallet_refunded, stock_released, cancelled_by, cancel_reason,
	created_at, submitted_at, completed_at, cancelled_at`

func (r *SettlementRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOrder(ctx, query, orderID)
}

func (r *SettlementRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOrder(ctx, query, orderID)
}

func (r *SettlementRepository) getOrder(ctx context.Context, query, orderID string) (domain.Order, error) {
	o, err := scanOrder(r.queryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *SettlementRepository) CreateOrder(ctx context.Context, o domain.Order) error {
	const stmt = `
INSERT INTO orders (id, account_id, product_id, quantity, unit_price, total,
	wallet_portion, external_portion, status, created_at, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.exec(ctx, stmt,
		o.ID, o.AccountID, o.ProductID, o.Quantity, o.UnitPrice, o.Total,
		o.WalletPortion, o.ExternalPortion, o.Status, o.CreatedAt, o.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// ReserveStock decrements availability under the product row lock the
// caller already holds. The WHERE guard keeps stock from ever going
// negative even without the lock.
func (r *SettlementRepository) ReserveStock(ctx context.Context, product domain.Product, quantity int) error {
	if product.Kind == domain.ProductKindSingle {
		if quantity != 1 {
			return domain.ErrInvalidQuantity
		}
		const stmt = `UPDATE products SET available = FALSE, updated_at = NOW() WHERE id = $1 AND available`
		tag, err := r.exec(ctx, stmt, product.ID)
		if err != nil {
			return fmt.Errorf("reserve unit: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	}

	const stmt = `UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`
	tag, err := r.exec(ctx, stmt, product.ID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// ReleaseStock is a plain increment; idempotence is the caller's job via
// the order's stock_released flag.
func (r *SettlementRepository) ReleaseStock(ctx context.Context, product domain.Product, quantity int) error {
	if product.Kind == domain.ProductKindSingle {
		const stmt = `UPDATE products SET available = TRUE, updated_at = NOW() WHERE id = $1`
		if _, err := r.exec(ctx, stmt, product.ID); err != nil {
			return fmt.Errorf("release unit: %w", err)
		}
		return nil
	}

	const stmt = `UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.exec(ctx, stmt, product.ID, quantity); err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

func (r *SettlementRepository) DebitWallet(ctx context.Context, accountID string, amount decimal.Decimal) error {
	const stmt = `UPDATE accounts SET wallet_balance = wallet_balance - $2 WHERE id = $1 AND wallet_balance >= $2`

	tag, err := r.exec(ctx, stmt, accountID, amount)
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *SettlementRepository) CreditWallet(ctx context.Context, accountID string, amount decimal.Decimal) error {
	const stmt = `UPDATE accounts SET wallet_balance = wallet_balance + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, accountID, amount)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *SettlementRepository) MarkOrderSubmitted(ctx context.Context, orderID, referenceCode, proofHash, proofPath string, at time.Time) error {
	const stmt = `
UPDATE orders
SET status = 'submitted', reference_code = $2, proof_hash = $3, proof_path = $4, submitted_at = $5
WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, orderID, referenceCode, proofHash, proofPath, at)
	if err != nil {
		return fmt.Errorf("mark submitted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotPending
	}
	return nil
}

func (r *SettlementRepository) MarkOrderCompleted(ctx context.Context, orderID string, at time.Time) error {
	const stmt = `UPDATE orders SET status = 'completed', completed_at = $2 WHERE id = $1 AND status = 'submitted'`

	tag, err := r.exec(ctx, stmt, orderID, at)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotSubmitted
	}
	return nil
}

func (r *SettlementRepository) MarkOrderCancelled(ctx context.Context, orderID, by, reason string, at time.Time) error {
	const stmt = `
UPDATE orders
SET status = 'cancelled', cancelled_by = $2, cancel_reason = $3, cancelled_at = $4
WHERE id = $1 AND status IN ('pending', 'submitted')`

	tag, err := r.exec(ctx, stmt, orderID, by, reason, at)
	if err != nil {
		return fmt.Errorf("mark cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCompleted
	}
	return nil
}

// MarkWalletRefunded flips the flag exactly once; a second attempt finds
// no row and reports the violated invariant.
func (r *SettlementRepository) MarkWalletRefunded(ctx context.Context, orderID string) error {
	const stmt = `UPDATE orders SET wallet_refunded = TRUE WHERE id = $1 AND NOT wallet_refunded`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return fmt.Errorf("mark wallet refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet already refunded for order %s", orderID)
	}
	return nil
}

func (r *SettlementRepository) MarkStockReleased(ctx context.Context, orderID string) error {
	const stmt = `UPDATE orders SET stock_released = TRUE WHERE id = $1 AND NOT stock_released`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return fmt.Errorf("mark stock released: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stock already released for order %s", orderID)
	}
	return nil
}

// ListExpiredPendingOrderIDs feeds the expiry sweep. No locks are taken;
// each cancellation re-validates under its own transaction.
func (r *SettlementRepository) ListExpiredPendingOrderIDs(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	const query = `
SELECT id FROM orders
WHERE status = 'pending' AND created_at < $1
ORDER BY created_at
LIMIT $2`

	rows, err := r.query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired order: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired orders: %w", err)
	}
	return ids, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var kind string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &kind, &p.Price, &p.Stock,
		&p.Available, &p.Visible, &p.FilePath, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.Kind = domain.ProductKind(kind)
	return p, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.UnitPrice, &o.Total,
		&o.WalletPortion, &o.ExternalPortion, &status, &o.ReferenceCode, &o.ProofHash, &o.ProofPath,
		&o.WalletRefunded, &o.StockReleased, &o.CancelledBy, &o.CancelReason,
		&o.CreatedAt, &o.SubmittedAt, &o.CompletedAt, &o.CancelledAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *SettlementRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SettlementRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SettlementRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
