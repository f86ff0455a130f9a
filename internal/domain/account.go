package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a customer's prepaid wallet. The balance never goes
// negative; it is only mutated together with an order row in the same
// transaction.
type Account struct {
	ID            string
	Email         string
	WalletBalance decimal.Decimal
	IsAdmin       bool
	CreatedAt     time.Time
}
