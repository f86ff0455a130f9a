package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/blob"
	"github.com/zentraxx/storefront/internal/clock"
	"github.com/zentraxx/storefront/internal/domain"
	"github.com/zentraxx/storefront/internal/notify"
)

// SettlementRepository is the transactional store surface the engine
// needs. Every mutating method participates in the transaction carried by
// the context when invoked inside WithTx.
type SettlementRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error)
	GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)

	CreateOrder(ctx context.Context, order domain.Order) error
	ReserveStock(ctx context.Context, product domain.Product, quantity int) error
	ReleaseStock(ctx context.Context, product domain.Product, quantity int) error
	DebitWallet(ctx context.Context, accountID string, amount decimal.Decimal) error
	CreditWallet(ctx context.Context, accountID string, amount decimal.Decimal) error

	MarkOrderSubmitted(ctx context.Context, orderID, referenceCode, proofHash, proofPath string, at time.Time) error
	MarkOrderCompleted(ctx context.Context, orderID string, at time.Time) error
	MarkOrderCancelled(ctx context.Context, orderID, by, reason string, at time.Time) error
	MarkWalletRefunded(ctx context.Context, orderID string) error
	MarkStockReleased(ctx context.Context, orderID string) error
}

// EvidenceRegistry enforces reference-code and proof-hash uniqueness
// across non-cancelled orders.
type EvidenceRegistry interface {
	Claim(ctx context.Context, rec domain.EvidenceRecord) error
	Release(ctx context.Context, orderID string) error
}

// SettingsSource loads the storefront configuration snapshot passed
// through each settlement entry point.
type SettingsSource interface {
	Load(ctx context.Context) (domain.Settings, error)
}

type SettlementService struct {
	repo     SettlementRepository
	evidence EvidenceRegistry
	settings SettingsSource
	blobs    blob.Store
	sink     notify.Sink
	clock    clock.Clock
	logger   *log.Logger
}

func NewSettlementService(
	repo SettlementRepository,
	evidence EvidenceRegistry,
	settings SettingsSource,
	blobs blob.Store,
	sink notify.Sink,
	clk clock.Clock,
	logger *log.Logger,
) *SettlementService {
	if logger == nil {
		logger = log.Default()
	}
	return &SettlementService{
		repo:     repo,
		evidence: evidence,
		settings: settings,
		blobs:    blobs,
		sink:     sink,
		clock:    clk,
		logger:   logger,
	}
}

type CreateOrderInput struct {
	AccountID       string
	ProductID       string
	Quantity        int
	WalletRequested decimal.Decimal
}

// CreateOrder reserves inventory, debits the wallet portion and records
// the order, all in one transaction. The wallet portion is clamped to
// min(requested, balance, total); when it covers the full total the order
// skips straight to submitted since no manual proof is needed.
func (s *SettlementService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.Quantity <= 0 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}
	if in.WalletRequested.IsNegative() {
		return domain.Order{}, domain.ErrInvalidAmount
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	now := s.clock.Now()
	var result domain.Order

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		account, err := s.repo.GetAccountForUpdate(txCtx, in.AccountID)
		if err != nil {
			return err
		}
		product, err := s.repo.GetProductForUpdate(txCtx, in.ProductID)
		if err != nil {
			return err
		}
		if !product.Visible {
			return domain.ErrProductUnavailable
		}

		total := product.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))

		walletPortion := decimal.Zero
		if cfg.WalletEnabled {
			walletPortion = decimal.Min(in.WalletRequested, account.WalletBalance, total)
		}
		externalPortion := total.Sub(walletPortion)

		if err := s.repo.ReserveStock(txCtx, product, in.Quantity); err != nil {
			return err
		}
		if walletPortion.IsPositive() {
			if err := s.repo.DebitWallet(txCtx, account.ID, walletPortion); err != nil {
				return err
			}
		}

		order := domain.Order{
			ID:              uuid.NewString(),
			AccountID:       account.ID,
			ProductID:       product.ID,
			Quantity:        in.Quantity,
			UnitPrice:       product.Price,
			Total:           total,
			WalletPortion:   walletPortion,
			ExternalPortion: externalPortion,
			Status:          domain.OrderStatusPending,
			CreatedAt:       now,
		}
		if externalPortion.IsZero() {
			order.Status = domain.OrderStatusSubmitted
			order.SubmittedAt = &now
		}

		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.notifyEvent(ctx, "order.created", map[string]any{
		"order_id": result.ID,
		"status":   string(result.Status),
		"total":    result.Total.StringFixed(2),
	})
	return result, nil
}

type SubmitProofInput struct {
	OrderID       string
	AccountID     string
	ReferenceCode string
	Proof         []byte
}

// SubmitProof records manual payment evidence against a pending order.
// The evidence claim is taken before anything else mutates; a blob-store
// failure after a successful claim releases the claim again so the
// reference is not burned by a failed attempt.
func (s *SettlementService) SubmitProof(ctx context.Context, in SubmitProofInput) (domain.Order, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if !cfg.ExternalEnabled {
		return domain.Order{}, domain.ErrChannelDisabled
	}
	if len(in.Proof) == 0 {
		return domain.Order{}, domain.ErrProofRequired
	}

	ref := strings.ToUpper(strings.TrimSpace(in.ReferenceCode))
	if !cfg.ReferencePolicy.Valid(ref) {
		return domain.Order{}, domain.ErrInvalidReference
	}

	order, err := s.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.AccountID != in.AccountID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending || !order.ExternalPortion.IsPositive() {
		return domain.Order{}, domain.ErrOrderNotPending
	}

	now := s.clock.Now()
	hash := blob.ContentHash(in.Proof)

	if err := s.evidence.Claim(ctx, domain.EvidenceRecord{
		OrderID:       order.ID,
		ReferenceCode: ref,
		ProofHash:     hash,
		ClaimedAt:     now,
	}); err != nil {
		return domain.Order{}, err
	}

	obj, err := s.blobs.Store(ctx, in.Proof)
	if err != nil {
		s.releaseClaim(ctx, order.ID)
		s.logger.Printf("submit proof: blob store failed for order %s: %v", order.ID, err)
		return domain.Order{}, domain.ErrStorage
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := s.repo.GetOrderForUpdate(txCtx, order.ID)
		if err != nil {
			return err
		}
		if locked.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}
		return s.repo.MarkOrderSubmitted(txCtx, order.ID, ref, hash, obj.Path, now)
	})
	if err != nil {
		// Lost the race or the commit failed: undo the claim and the blob.
		s.releaseClaim(ctx, order.ID)
		if rmErr := s.blobs.Remove(ctx, obj.Path); rmErr != nil {
			s.logger.Printf("submit proof: blob cleanup failed for order %s: %v", order.ID, rmErr)
		}
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatusSubmitted
	order.ReferenceCode = ref
	order.ProofHash = hash
	order.ProofPath = obj.Path
	order.SubmittedAt = &now

	s.notifyEvent(ctx, "order.submitted", map[string]any{
		"order_id":  order.ID,
		"reference": ref,
	})
	return order, nil
}

// Complete finalizes a submitted order. Completion is irreversible and has
// no ledger or inventory effect.
func (s *SettlementService) Complete(ctx context.Context, orderID string) (domain.Order, error) {
	now := s.clock.Now()
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case domain.OrderStatusSubmitted:
		case domain.OrderStatusCompleted:
			return domain.ErrAlreadyCompleted
		default:
			return domain.ErrOrderNotSubmitted
		}
		if err := s.repo.MarkOrderCompleted(txCtx, orderID, now); err != nil {
			return err
		}
		order.Status = domain.OrderStatusCompleted
		order.CompletedAt = &now
		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.notifyEvent(ctx, "order.completed", map[string]any{"order_id": result.ID})
	return result, nil
}

// Cancel compensates and closes an order from pending or submitted.
// Calling it on an already cancelled order is a no-op; the wallet refund
// and the stock release are each guarded by their own flag so a retried
// cancel can never apply either twice.
func (s *SettlementService) Cancel(ctx context.Context, orderID, by, reason string) (domain.Order, error) {
	now := s.clock.Now()
	var result domain.Order
	cancelled := false

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		// Unlocked snapshot to learn the rows to lock; the canonical lock
		// order is account, then product, then order.
		snap, err := s.repo.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if snap.Status == domain.OrderStatusCancelled {
			result = snap
			return nil
		}
		if snap.Status == domain.OrderStatusCompleted {
			return domain.ErrAlreadyCompleted
		}

		if _, err := s.repo.GetAccountForUpdate(txCtx, snap.AccountID); err != nil {
			return err
		}
		product, err := s.repo.GetProductForUpdate(txCtx, snap.ProductID)
		if err != nil {
			return err
		}

		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusCancelled {
			result = order
			return nil
		}
		if order.Status == domain.OrderStatusCompleted {
			return domain.ErrAlreadyCompleted
		}

		if order.WalletPortion.IsPositive() && !order.WalletRefunded {
			if err := s.repo.CreditWallet(txCtx, order.AccountID, order.WalletPortion); err != nil {
				return err
			}
			if err := s.repo.MarkWalletRefunded(txCtx, order.ID); err != nil {
				return err
			}
			order.WalletRefunded = true
		}
		if !order.StockReleased {
			if err := s.repo.ReleaseStock(txCtx, product, order.Quantity); err != nil {
				return err
			}
			if err := s.repo.MarkStockReleased(txCtx, order.ID); err != nil {
				return err
			}
			order.StockReleased = true
		}

		// Cancelled orders free their evidence for reuse.
		if err := s.evidence.Release(txCtx, order.ID); err != nil {
			return err
		}
		if err := s.repo.MarkOrderCancelled(txCtx, order.ID, by, reason, now); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCancelled
		order.CancelledBy = by
		order.CancelReason = reason
		order.CancelledAt = &now
		result = order
		cancelled = true
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if cancelled {
		s.notifyEvent(ctx, "order.cancelled", map[string]any{
			"order_id": result.ID,
			"by":       by,
		})
	}
	return result, nil
}

func (s *SettlementService) releaseClaim(ctx context.Context, orderID string) {
	if err := s.evidence.Release(ctx, orderID); err != nil {
		s.logger.Printf("evidence release failed for order %s: %v", orderID, err)
	}
}

func (s *SettlementService) notifyEvent(ctx context.Context, event string, payload map[string]any) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Notify(ctx, event, payload); err != nil {
		s.logger.Printf("notify %s failed: %v", event, err)
	}
}
