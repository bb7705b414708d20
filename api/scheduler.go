/*
scheduler.go - Automated withdrawal settlement

PURPOSE:
  Withdrawals are recorded as pending. Nothing in the ledger ever settles
  them; settlement is a later, independent SetStatus call. In deployments
  without a payment processor callback, the SettlementScheduler plays that
  role: it periodically marks pending withdrawals older than SettleAfter
  as completed.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each settlement goes through the same path as
    POST /api/wallet/transactions/{id}/status (mutex, journal, log)
  - Balances are not touched; the funds left available at withdraw time

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 minute)
  - SettleAfter:   Minimum age of a pending withdrawal (default: 24 hours)
  - Enabled:       Whether scheduler is active (default: false)

USAGE:
  scheduler := NewSettlementScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: SetTransactionStatus endpoint (manual settlement)
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wallet-engine/wallet"
)

// SettlementScheduler completes aged pending withdrawals.
type SettlementScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	SettleAfter   time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSettlementScheduler creates a disabled scheduler with default timings.
func NewSettlementScheduler(h *Handler) *SettlementScheduler {
	return &SettlementScheduler{
		Handler:       h,
		CheckInterval: time.Minute,
		SettleAfter:   24 * time.Hour,
	}
}

// Start begins the scheduler.
func (s *SettlementScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.Handler.log.WithField("component", "settlement")
	if !s.Enabled {
		log.Info("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	log.WithField("interval", s.CheckInterval.String()).
		WithField("settle_after", s.SettleAfter.String()).
		Info("started")
}

// Stop stops the scheduler and waits for an in-flight sweep.
func (s *SettlementScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Handler.log.WithField("component", "settlement").Info("stopped")
}

func (s *SettlementScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.SettleDue(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.SettleDue(context.Background())
		case <-s.stop:
			return
		}
	}
}

// SettleDue completes every pending withdrawal created at least SettleAfter
// ago and returns how many were settled.
func (s *SettlementScheduler) SettleDue(ctx context.Context) int {
	h := s.Handler
	cutoff := h.clock.Now().Add(-s.SettleAfter)

	h.mu.Lock()
	var due []wallet.TransactionID
	for _, tx := range h.ledger.Transactions() {
		if tx.Type == wallet.TxWithdrawal && tx.Status == wallet.StatusPending && !tx.CreatedAt.After(cutoff) {
			due = append(due, tx.ID)
		}
	}

	type result struct {
		tx  wallet.Transaction
		err error
	}
	results := make([]result, 0, len(due))
	for _, id := range due {
		tx, err := h.ledger.SetStatus(id, wallet.StatusCompleted)
		results = append(results, result{tx, err})
	}
	h.mu.Unlock()

	settled := 0
	for _, r := range results {
		h.record(ctx, wallet.ActionStatusChange, decimal.Zero, r.tx, r.err)
		if r.err == nil {
			settled++
		}
	}
	if settled > 0 {
		h.log.WithField("component", "settlement").WithField("settled", settled).Info("sweep completed")
	}
	return settled
}
