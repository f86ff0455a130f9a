package app

import (
	"context"

	"github.com/zentraxx/storefront/internal/blob"
	"github.com/zentraxx/storefront/internal/domain"
)

type CatalogRepository interface {
	ListVisibleProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrdersByAccount(ctx context.Context, accountID string, limit int) ([]domain.Order, error)
}

// CatalogService serves the storefront read side: product listing, a
// customer's order history, and deliverable download for completed orders.
type CatalogService struct {
	repo  CatalogRepository
	blobs blob.Store
}

func NewCatalogService(repo CatalogRepository, blobs blob.Store) *CatalogService {
	return &CatalogService{repo: repo, blobs: blobs}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListVisibleProducts(ctx)
}

func (s *CatalogService) ListOrders(ctx context.Context, accountID string) ([]domain.Order, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListOrdersByAccount(ctx, accountID, 200)
}

// Download returns the deliverable for a completed order owned by the
// caller. The download stays available forever; completed orders are the
// audit trail.
func (s *CatalogService) Download(ctx context.Context, accountID, orderID string) ([]byte, string, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.AccountID != accountID {
		return nil, "", domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusCompleted {
		return nil, "", domain.ErrOrderNotCompleted
	}

	product, err := s.repo.GetProduct(ctx, order.ProductID)
	if err != nil {
		return nil, "", err
	}
	if product.FilePath == "" {
		return nil, "", domain.ErrProductUnavailable
	}

	data, err := s.blobs.Fetch(ctx, product.FilePath)
	if err != nil {
		return nil, "", domain.ErrStorage
	}
	return data, product.Name, nil
}
