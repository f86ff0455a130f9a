package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// IsPrivileged satisfies app.Authorizer off the accounts.is_admin flag.
func (r *AdminRepository) IsPrivileged(ctx context.Context, actorID string) (bool, error) {
	const query = `SELECT is_admin FROM accounts WHERE id = $1`

	var isAdmin bool
	err := r.pool.QueryRow(ctx, query, actorID).Scan(&isAdmin)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check privilege: %w", err)
	}
	return isAdmin, nil
}

func (r *AdminRepository) SetWalletBalance(ctx context.Context, accountID string, amount decimal.Decimal) error {
	const stmt = `UPDATE accounts SET wallet_balance = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, accountID, amount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AdminRepository) CreateProduct(ctx context.Context, p domain.Product) error {
	const stmt = `
INSERT INTO products (id, name, description, kind, price, stock, available, visible, file_path, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, stmt,
		p.ID, p.Name, p.Description, p.Kind, p.Price, p.Stock,
		p.Available, p.Visible, p.FilePath, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListOrders(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	args := []any{limit}
	if status != "" {
		query = `SELECT ` + orderColumns + ` FROM orders WHERE status = $2 ORDER BY created_at DESC LIMIT $1`
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
