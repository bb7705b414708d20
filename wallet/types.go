/*
Package wallet provides the ledger core of a single-session user wallet.

PURPOSE:
  Tracks a monetary balance and an ordered log of transactions (deposits,
  withdrawals, bets, wins, losses). Mutations go through the Ledger, which
  validates input and never leaves the state half-updated. Rendering,
  payment capture and persistence live outside this package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable log entry (only Status may change later)
  - TransactionType: deposit, withdrawal, bet, win, loss
  - TransactionStatus: pending, completed, failed
  - TransactionID: Opaque identifier assigned at creation

MONEY:
  All amounts are decimal.Decimal in a single currency. Floats never enter
  the ledger; use ParseAmount or AmountFromFloat at the boundary.

USAGE:
  l, _ := wallet.New(wallet.LedgerState{Balance: decimal.NewFromInt(100),
      AvailableBalance: decimal.NewFromInt(100)})
  tx, err := l.Deposit(decimal.NewFromInt(50))

SEE ALSO:
  - ledger.go: Mutation operations
  - state.go: LedgerState and limits
  - errors.go: Error taxonomy
*/
package wallet

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TransactionID string

// =============================================================================
// TRANSACTION TYPE
// =============================================================================

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxBet        TransactionType = "bet"
	TxWin        TransactionType = "win"
	TxLoss       TransactionType = "loss"
)

// TransactionTypes lists every known type in display order.
var TransactionTypes = []TransactionType{TxDeposit, TxWithdrawal, TxBet, TxWin, TxLoss}

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxBet, TxWin, TxLoss:
		return true
	}
	return false
}

// IsOutcome reports whether the type is a betting result that RecordOutcome
// may append. Deposits and withdrawals only enter the log through Deposit and
// Withdraw, which also move the balance fields.
func (t TransactionType) IsOutcome() bool {
	return t == TxBet || t == TxWin || t == TxLoss
}

// IsCredit reports whether the type increases the balance for display purposes.
// The ledger never replays the log to compute balance.
func (t TransactionType) IsCredit() bool {
	return t == TxDeposit || t == TxWin
}

// ParseTransactionType converts a wire string into a known type.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", &TypeError{Value: s}
	}
	return t, nil
}

// =============================================================================
// TRANSACTION STATUS
// =============================================================================

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether s may move to next.
// Only pending transactions settle; completed and failed are terminal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == StatusPending && (next == StatusCompleted || next == StatusFailed)
}

// ParseTransactionStatus converts a wire string into a known status.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	st := TransactionStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
	}
	return st, nil
}

// =============================================================================
// TRANSACTION - Single wallet event
// =============================================================================

// Transaction records one wallet event. Every field except Status is fixed at
// creation; Status changes only through Ledger.SetStatus.
type Transaction struct {
	ID          TransactionID
	Type        TransactionType
	Amount      decimal.Decimal // always > 0
	Status      TransactionStatus
	CreatedAt   time.Time
	Description string
}

// SignedAmount returns Amount with the display sign of its type applied.
func (tx Transaction) SignedAmount() decimal.Decimal {
	if tx.Type.IsCredit() {
		return tx.Amount
	}
	return tx.Amount.Neg()
}

// =============================================================================
// AMOUNT INPUT
// =============================================================================

// Magnitude bounds for any amount. Both are checked on the exponent and
// coefficient directly, so an absurd input is rejected before any arithmetic
// has to rescale it.
const (
	MaxAmountExponent = 18
	MaxAmountDigits   = 30
)

// ParseAmount parses a decimal string. Empty, non-numeric or out-of-range
// input is an InvalidAmount error; the sign is not checked here.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &AmountError{Op: "parse", Reason: fmt.Sprintf("not a number: %q", s)}
	}
	if err := checkMagnitude("parse", d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// checkMagnitude rejects amounts whose exponent or coefficient is outside
// the bounds above.
func checkMagnitude(op string, d decimal.Decimal) error {
	if exp := d.Exponent(); exp < -MaxAmountExponent || exp > MaxAmountExponent {
		return &AmountError{Op: op, Amount: decimal.Zero, Reason: fmt.Sprintf("exponent %d out of range", exp)}
	}
	if d.IsZero() {
		return nil
	}
	if n := d.NumDigits(); n > MaxAmountDigits {
		return &AmountError{Op: op, Amount: decimal.Zero, Reason: fmt.Sprintf("%d digits exceeds %d", n, MaxAmountDigits)}
	}
	return nil
}

// AmountFromFloat converts a float, rejecting NaN and infinities.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &AmountError{Op: "parse", Reason: fmt.Sprintf("not a finite number: %v", f)}
	}
	d := decimal.NewFromFloat(f)
	if err := checkMagnitude("parse", d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// MustAmount parses s or panics. Intended for fixtures and constants.
func MustAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("wallet: invalid amount literal %q", s))
	}
	return d
}
