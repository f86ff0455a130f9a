package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zentraxx/storefront/internal/domain"
)

// SettingsRepository loads the single-row storefront configuration. A
// missing row falls back to defaults so a fresh install works untouched.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	const query = `
SELECT site_name, wallet_enabled, external_enabled, payee_name, payee_id,
	reference_min_len, reference_max_len
FROM settings WHERE id = 1`

	s := domain.DefaultSettings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.SiteName, &s.WalletEnabled, &s.ExternalEnabled, &s.PayeeName, &s.PayeeID,
		&s.ReferencePolicy.MinLen, &s.ReferencePolicy.MaxLen,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.DefaultSettings, nil
		}
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}
