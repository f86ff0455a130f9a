package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available")
	ErrOrderNotFound      = errors.New("order not found")

	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	ErrInvalidReference   = errors.New("invalid payment reference")
	ErrProofRequired      = errors.New("payment proof required")
	ErrDuplicateReference = errors.New("payment reference already used")
	ErrDuplicateProof     = errors.New("payment proof already used")
	ErrChannelDisabled    = errors.New("external payment channel disabled")

	ErrOrderNotPending   = errors.New("order is not pending")
	ErrOrderNotSubmitted = errors.New("order is not submitted")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrAlreadyCompleted  = errors.New("order is already completed")

	ErrUnauthorized = errors.New("not authorized")
	ErrBusy         = errors.New("resource busy, retry later")
	ErrStorage      = errors.New("storage failure")

	ErrInvalidID = errors.New("invalid id")
)
