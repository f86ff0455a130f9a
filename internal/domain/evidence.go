package domain

import "time"

// EvidenceRecord binds a payment reference code and proof content hash to
// exactly one order. Uniqueness is scoped to non-cancelled orders: the
// cancel transition deletes the record, freeing the values for reuse.
type EvidenceRecord struct {
	OrderID       string
	ReferenceCode string
	ProofHash     string
	ClaimedAt     time.Time
}
