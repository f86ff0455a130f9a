package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductKind string

const (
	// ProductKindStocked counts inventory as an integer stock level.
	ProductKindStocked ProductKind = "stocked"
	// ProductKindSingle is a one-off unit (e.g. a unique account) that is
	// either available or not.
	ProductKindSingle ProductKind = "single"
)

// Product is a sellable digital good. Stock is decremented at reservation
// time and restored by compensation; it never goes below zero.
type Product struct {
	ID          string
	Name        string
	Description string
	Kind        ProductKind
	Price       decimal.Decimal
	Stock       int
	Available   bool
	Visible     bool
	FilePath    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanReserve reports whether quantity units can currently be reserved.
func (p Product) CanReserve(quantity int) bool {
	if !p.Visible {
		return false
	}
	switch p.Kind {
	case ProductKindSingle:
		return quantity == 1 && p.Available
	default:
		return p.Stock >= quantity
	}
}
