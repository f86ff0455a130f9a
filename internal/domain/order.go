package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether the status has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is the settlement aggregate for one purchase. It always satisfies
// WalletPortion + ExternalPortion == Total. WalletRefunded and
// StockReleased each flip false→true at most once, so a retried cancel
// cannot double-refund or double-restock.
type Order struct {
	ID              string
	AccountID       string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	WalletPortion   decimal.Decimal
	ExternalPortion decimal.Decimal
	Status          OrderStatus

	ReferenceCode string
	ProofHash     string
	ProofPath     string

	WalletRefunded bool
	StockReleased  bool

	CancelledBy  string
	CancelReason string

	CreatedAt   time.Time
	SubmittedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}
