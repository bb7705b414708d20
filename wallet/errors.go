/*
errors.go - Error taxonomy for the wallet ledger

PURPOSE:
  All ledger errors in one place. Every failure here is a local validation
  failure: the operation that returned it left the ledger untouched, and the
  caller can retry with corrected input.

ERROR CATEGORIES:
  1. Amount errors - non-numeric, non-positive or out-of-bounds amounts
  2. Funds errors - withdrawal larger than the available balance
  3. Log errors - unknown transaction, illegal status transition, bad type
  4. State errors - an opening snapshot that violates ledger invariants

USAGE:
  if errors.Is(err, wallet.ErrInsufficientFunds) {
      var fe *wallet.InsufficientFundsError
      errors.As(err, &fe) // fe.Shortfall
  }

SEE ALSO:
  - ledger.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package wallet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned for non-numeric, non-positive or out-of-bounds amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionNotFound is returned when an id does not match any logged transaction.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidType is returned for an unknown transaction type.
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrInconsistentState is returned by New when the opening snapshot breaks an invariant.
	ErrInconsistentState = errors.New("inconsistent ledger state")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending value
// =============================================================================

// AmountError describes why an amount was rejected.
type AmountError struct {
	Op     string // "deposit", "withdraw", "outcome", "parse"
	Amount decimal.Decimal
	Reason string
}

func (e *AmountError) Error() string {
	if e.Op == "parse" {
		return fmt.Sprintf("invalid amount: %s", e.Reason)
	}
	return fmt.Sprintf("invalid amount for %s: %s (%s)", e.Op, e.Amount.String(), e.Reason)
}

func (e *AmountError) Unwrap() error {
	return ErrInvalidAmount
}

// InsufficientFundsError provides details about a withdrawal shortage.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s, shortfall %s",
		e.Available.String(), e.Requested.String(), e.Shortfall.String())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	ID   TransactionID
	From TransactionStatus
	To   TransactionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transaction %s: cannot move from %s to %s", e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// TypeError reports an unknown transaction type.
type TypeError struct {
	Value string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid transaction type %q", e.Value)
}

func (e *TypeError) Unwrap() error {
	return ErrInvalidType
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidType)
}

// IsNotFound returns true if the error indicates a missing transaction.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}

// ErrorKind returns a stable snake_case name for err, or "" for nil.
// Unknown errors map to "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, ErrInconsistentState):
		return "inconsistent_state"
	default:
		return "internal"
	}
}
