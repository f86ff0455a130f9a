package app

import (
	"context"
	"log"
	"time"

	"github.com/zentraxx/storefront/internal/clock"
)

// SweepRepository lists the orders the expiry sweep should cancel. The
// listing takes no locks; each cancellation acquires its own.
type SweepRepository interface {
	ListExpiredPendingOrderIDs(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

// DefaultSweepTTL is how long an unpaid pending order may linger before
// the sweep cancels it.
const DefaultSweepTTL = 24 * time.Hour

const sweepBatchLimit = 500

const sweepActor = "system:sweeper"

type SweepService struct {
	repo       SweepRepository
	settlement *SettlementService
	clock      clock.Clock
	logger     *log.Logger
}

func NewSweepService(repo SweepRepository, settlement *SettlementService, clk clock.Clock, logger *log.Logger) *SweepService {
	if logger == nil {
		logger = log.Default()
	}
	return &SweepService{
		repo:       repo,
		settlement: settlement,
		clock:      clk,
		logger:     logger,
	}
}

// Run cancels every pending order older than ttl, one transaction per
// order so a failure on one cannot block the batch. It returns the number
// of orders actually cancelled.
func (s *SweepService) Run(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		ttl = DefaultSweepTTL
	}
	cutoff := s.clock.Now().Add(-ttl)

	ids, err := s.repo.ListExpiredPendingOrderIDs(ctx, cutoff, sweepBatchLimit)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return cancelled, ctx.Err()
		}
		if _, err := s.settlement.Cancel(ctx, id, sweepActor, "expired unpaid order"); err != nil {
			s.logger.Printf("sweep: cancel order %s: %v", id, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}
