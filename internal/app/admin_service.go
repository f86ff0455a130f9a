package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/clock"
	"github.com/zentraxx/storefront/internal/domain"
)

// Authorizer decides whether an actor may perform admin operations.
type Authorizer interface {
	IsPrivileged(ctx context.Context, actorID string) (bool, error)
}

type AdminRepository interface {
	SetWalletBalance(ctx context.Context, accountID string, amount decimal.Decimal) error
	CreateProduct(ctx context.Context, product domain.Product) error
	ListOrders(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error)
}

// AdminService is a thin authorization wrapper over the settlement engine
// plus a few catalog/wallet maintenance operations. The reason string on
// cancellations is kept for audit only; the state machine never reads it.
type AdminService struct {
	repo       AdminRepository
	settlement *SettlementService
	auth       Authorizer
	clock      clock.Clock
}

func NewAdminService(repo AdminRepository, settlement *SettlementService, auth Authorizer, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:       repo,
		settlement: settlement,
		auth:       auth,
		clock:      clk,
	}
}

func (s *AdminService) authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return domain.ErrUnauthorized
	}
	ok, err := s.auth.IsPrivileged(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

// CompleteOrder finalizes a submitted order after manual verification.
func (s *AdminService) CompleteOrder(ctx context.Context, actorID, orderID string) (domain.Order, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return domain.Order{}, err
	}
	return s.settlement.Complete(ctx, orderID)
}

// CancelOrder cancels a pending or submitted order with compensation.
func (s *AdminService) CancelOrder(ctx context.Context, actorID, orderID, reason string) (domain.Order, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return domain.Order{}, err
	}
	return s.settlement.Cancel(ctx, orderID, actorID, reason)
}

// SetWalletBalance overwrites an account's wallet balance. Unlike
// settlement mutations this is not paired with an order; it is the manual
// top-up/correction tool.
func (s *AdminService) SetWalletBalance(ctx context.Context, actorID, accountID string, amount decimal.Decimal) error {
	if err := s.authorize(ctx, actorID); err != nil {
		return err
	}
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	return s.repo.SetWalletBalance(ctx, accountID, amount)
}

type CreateProductInput struct {
	Name        string
	Description string
	Kind        domain.ProductKind
	Price       decimal.Decimal
	Stock       int
	Visible     bool
	FilePath    string
}

func (s *AdminService) CreateProduct(ctx context.Context, actorID string, in CreateProductInput) (domain.Product, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return domain.Product{}, err
	}
	if in.Name == "" {
		return domain.Product{}, domain.ErrProductUnavailable
	}
	if in.Price.IsNegative() {
		return domain.Product{}, domain.ErrInvalidAmount
	}
	kind := in.Kind
	if kind == "" {
		kind = domain.ProductKindStocked
	}
	if kind == domain.ProductKindStocked && in.Stock < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Kind:        kind,
		Price:       in.Price,
		Stock:       in.Stock,
		Available:   kind == domain.ProductKindSingle,
		Visible:     in.Visible,
		FilePath:    in.FilePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// ListOrders returns recent orders, optionally filtered by status.
func (s *AdminService) ListOrders(ctx context.Context, actorID string, status domain.OrderStatus) ([]domain.Order, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, status, 300)
}
