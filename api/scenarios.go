/*
scenarios.go - Opening snapshots for demos and tests

PURPOSE:
  The ledger has no persistence, so every session starts from an opening
  LedgerState. Scenarios provide those snapshots. Loading one replaces the
  session ledger and clears the journal when the journal supports it.

AVAILABLE SCENARIOS:
  demo:         Funded wallet with a short mixed history and a pending withdrawal
  empty:        Zero balances, no history
  low-balance:  Barely funded wallet, most of it locked

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "demo"}

ADDING NEW SCENARIOS:
  1. Add to 'scenarios' slice with ID, name, description
  2. Add a builder func(now time.Time) wallet.LedgerState to scenarioBuilders
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wallet-engine/wallet"
)

const (
	ScenarioDemo       = "demo"
	ScenarioEmpty      = "empty"
	ScenarioLowBalance = "low-balance"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          ScenarioDemo,
		Name:        "Demo Wallet",
		Description: "5000 balance with 250 locked, seven transactions and one pending withdrawal",
	},
	{
		ID:          ScenarioEmpty,
		Name:        "Empty Wallet",
		Description: "Fresh account with no funds and no history",
	},
	{
		ID:          ScenarioLowBalance,
		Name:        "Low Balance",
		Description: "15 balance with 10 locked; withdrawals hit the minimum and funds checks",
	},
}

var scenarioBuilders = map[string]func(now time.Time) wallet.LedgerState{
	ScenarioDemo:       demoState,
	ScenarioEmpty:      emptyState,
	ScenarioLowBalance: lowBalanceState,
}

// resetter is implemented by journals that can be cleared between scenarios.
type resetter interface {
	Reset(ctx context.Context) error
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns all available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the scenario the session ledger was loaded from.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current})
}

// LoadScenario replaces the session ledger with the requested snapshot.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.loadScenario(req.ScenarioID); err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	if rs, ok := h.journal.(resetter); ok {
		if err := rs.Reset(r.Context()); err != nil {
			h.log.WithError(err).Error("journal reset failed")
		}
	}

	h.log.WithField("scenario", req.ScenarioID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func (h *Handler) loadScenario(id string) error {
	build, ok := scenarioBuilders[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}

	ledger, err := wallet.New(build(h.clock.Now()),
		wallet.WithLimits(h.limits),
		wallet.WithClock(h.clock),
		wallet.WithIDSource(h.ids),
	)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", id, err)
	}

	h.mu.Lock()
	h.ledger = ledger
	h.currentScenario = id
	h.mu.Unlock()
	return nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func demoState(now time.Time) wallet.LedgerState {
	day := 24 * time.Hour
	tx := func(id string, typ wallet.TransactionType, amount int64, status wallet.TransactionStatus, ago time.Duration, desc string) wallet.Transaction {
		return wallet.Transaction{
			ID:          wallet.TransactionID(id),
			Type:        typ,
			Amount:      decimal.NewFromInt(amount),
			Status:      status,
			CreatedAt:   now.Add(-ago),
			Description: desc,
		}
	}

	return wallet.LedgerState{
		Balance:          decimal.NewFromInt(5000),
		AvailableBalance: decimal.NewFromInt(4750),
		LockedBalance:    decimal.NewFromInt(250),
		TotalDeposited:   decimal.NewFromInt(10000),
		TotalWithdrawn:   decimal.NewFromInt(5000),
		Metrics: wallet.Metrics{
			NetProfit: decimal.NewFromInt(2180),
			ROI:       decimal.RequireFromString("87.2"),
			WinRate:   decimal.NewFromInt(64),
			TotalBets: 25,
		},
		Transactions: []wallet.Transaction{
			tx("1", wallet.TxDeposit, 500, wallet.StatusCompleted, 0, wallet.DescriptionDeposit),
			tx("2", wallet.TxWin, 185, wallet.StatusCompleted, day, "Win: Team A vs Team B"),
			tx("3", wallet.TxBet, 100, wallet.StatusCompleted, day, "Bet: Team A vs Team B"),
			tx("4", wallet.TxDeposit, 1000, wallet.StatusCompleted, 2*day, wallet.DescriptionDeposit),
			tx("5", wallet.TxLoss, 50, wallet.StatusCompleted, 3*day, "Loss: Team C vs Team D"),
			tx("6", wallet.TxWithdrawal, 2000, wallet.StatusPending, 4*day, wallet.DescriptionWithdrawal),
			tx("7", wallet.TxWin, 320, wallet.StatusCompleted, 5*day, "Win: Team E vs Team F"),
		},
	}
}

func emptyState(time.Time) wallet.LedgerState {
	return wallet.LedgerState{}
}

func lowBalanceState(now time.Time) wallet.LedgerState {
	return wallet.LedgerState{
		Balance:          decimal.NewFromInt(15),
		AvailableBalance: decimal.NewFromInt(5),
		LockedBalance:    decimal.NewFromInt(10),
		TotalDeposited:   decimal.NewFromInt(15),
		Transactions: []wallet.Transaction{
			{
				ID:          "low-1",
				Type:        wallet.TxDeposit,
				Amount:      decimal.NewFromInt(15),
				Status:      wallet.StatusCompleted,
				CreatedAt:   now.Add(-time.Hour),
				Description: wallet.DescriptionDeposit,
			},
		},
	}
}
