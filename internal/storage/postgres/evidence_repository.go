package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zentraxx/storefront/internal/domain"
)

// EvidenceRepository is the uniqueness index over payment reference codes
// and proof content hashes. Rows exist only for non-cancelled orders; the
// cancel transition deletes them, releasing the values for reuse.
type EvidenceRepository struct {
	pool *pgxpool.Pool
}

func NewEvidenceRepository(pool *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{pool: pool}
}

func (r *EvidenceRepository) Claim(ctx context.Context, rec domain.EvidenceRecord) error {
	const stmt = `
INSERT INTO payment_evidence (order_id, reference_code, proof_hash, claimed_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, rec.OrderID, rec.ReferenceCode, rec.ProofHash, rec.ClaimedAt)
	if err != nil {
		switch uniqueConstraint(err) {
		case "uniq_evidence_reference":
			return domain.ErrDuplicateReference
		case "uniq_evidence_proof":
			return domain.ErrDuplicateProof
		}
		if isUniqueViolation(err) {
			// Re-claim by the same order (retry after a partial failure).
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("claim evidence: %w", err)
	}
	return nil
}

func (r *EvidenceRepository) Release(ctx context.Context, orderID string) error {
	const stmt = `DELETE FROM payment_evidence WHERE order_id = $1`

	if _, err := r.exec(ctx, stmt, orderID); err != nil {
		return fmt.Errorf("release evidence: %w", err)
	}
	return nil
}

func (r *EvidenceRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}
