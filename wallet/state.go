package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LIMITS - Per-operation amount bounds
// =============================================================================

// DefaultScale is the number of decimal places of the wallet currency.
const DefaultScale = 2

// Limits bounds single deposits and withdrawals.
// A zero MinDeposit accepts any positive amount; a zero MaxDeposit disables the cap.
// Scale is the number of decimal places an amount may carry; zero means whole
// units only.
type Limits struct {
	MinDeposit    decimal.Decimal
	MaxDeposit    decimal.Decimal
	MinWithdrawal decimal.Decimal
	Scale         int32
}

// DefaultLimits caps deposits at 100000, requires withdrawals of at least 10
// and allows cents.
func DefaultLimits() Limits {
	return Limits{
		MinDeposit:    decimal.Zero,
		MaxDeposit:    decimal.NewFromInt(100000),
		MinWithdrawal: decimal.NewFromInt(10),
		Scale:         DefaultScale,
	}
}

// =============================================================================
// LEDGER STATE - Balance fields plus the transaction log
// =============================================================================

// LedgerState is the full wallet state for one session.
//
// INVARIANTS (checked by New, preserved by every Ledger operation):
//   - Balance = AvailableBalance + LockedBalance
//   - no balance field or lifetime counter is negative
//   - every transaction has Amount > 0 and a known type and status
//
// Transactions are ordered newest first.
type LedgerState struct {
	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal
	LockedBalance    decimal.Decimal
	TotalDeposited   decimal.Decimal
	TotalWithdrawn   decimal.Decimal
	Metrics          Metrics
	Transactions     []Transaction
}

// Clone returns a deep copy; the transaction slice is not shared.
func (s LedgerState) Clone() LedgerState {
	out := s
	out.Transactions = make([]Transaction, len(s.Transactions))
	copy(out.Transactions, s.Transactions)
	return out
}

// Validate checks the invariants listed on LedgerState.
func (s LedgerState) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"balance", s.Balance},
		{"available balance", s.AvailableBalance},
		{"locked balance", s.LockedBalance},
		{"total deposited", s.TotalDeposited},
		{"total withdrawn", s.TotalWithdrawn},
	}
	for _, f := range fields {
		if err := checkMagnitude(f.name, f.value); err != nil {
			return fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s is negative (%s)", ErrInconsistentState, f.name, f.value)
		}
	}

	if !s.Balance.Equal(s.AvailableBalance.Add(s.LockedBalance)) {
		return fmt.Errorf("%w: balance %s != available %s + locked %s",
			ErrInconsistentState, s.Balance, s.AvailableBalance, s.LockedBalance)
	}

	seen := make(map[TransactionID]bool, len(s.Transactions))
	for i, tx := range s.Transactions {
		switch {
		case tx.ID == "":
			return fmt.Errorf("%w: transaction %d has no id", ErrInconsistentState, i)
		case seen[tx.ID]:
			return fmt.Errorf("%w: duplicate transaction id %s", ErrInconsistentState, tx.ID)
		case checkMagnitude("seed", tx.Amount) != nil:
			return fmt.Errorf("%w: transaction %s amount out of range", ErrInconsistentState, tx.ID)
		case !tx.Amount.IsPositive():
			return fmt.Errorf("%w: transaction %s amount %s is not positive", ErrInconsistentState, tx.ID, tx.Amount)
		case !tx.Type.Valid():
			return fmt.Errorf("%w: transaction %s has unknown type %q", ErrInconsistentState, tx.ID, tx.Type)
		case !tx.Status.Valid():
			return fmt.Errorf("%w: transaction %s has unknown status %q", ErrInconsistentState, tx.ID, tx.Status)
		}
		seen[tx.ID] = true
	}
	return nil
}
