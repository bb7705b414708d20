/*
ledger.go - Wallet ledger: balance fields plus the transaction log

PURPOSE:
  The Ledger owns one session's LedgerState and is the only thing that
  mutates it. Every operation either fully succeeds or returns an error with
  the state untouched.

BALANCE vs LOG:
  Balance fields are tracked independently; they are NOT derived by replaying
  the log. Deposit and Withdraw adjust both. RecordOutcome only appends to the
  log, because bet settlement math belongs to whoever settles the bet.

OPERATIONS:
  Deposit(d):        balance += d, available += d, totalDeposited += d,
                     prepend completed deposit
  Withdraw(w):       balance -= w, available -= w, totalWithdrawn += w,
                     prepend pending withdrawal
  RecordOutcome:     prepend completed bet/win/loss (no balance change)
  SetStatus:         pending -> completed | failed (no balance change)
  Snapshot/Metrics:  read-only copies

CONCURRENCY:
  None. A Ledger belongs to a single caller; adapters that serve concurrent
  requests must serialize access themselves (see api.Handler).

SEE ALSO:
  - state.go: LedgerState invariants and limits
  - view/projector.go: Paged views over Transactions()
*/
package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DescriptionDeposit    = "Balance top-up"
	DescriptionWithdrawal = "Withdrawal"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	state  LedgerState
	limits Limits
	clock  Clock
	ids    IDSource
}

type Option func(*Ledger)

// WithLimits overrides DefaultLimits.
func WithLimits(limits Limits) Option {
	return func(l *Ledger) { l.limits = limits }
}

// WithClock sets the CreatedAt source.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithIDSource sets the transaction id source.
func WithIDSource(ids IDSource) Option {
	return func(l *Ledger) { l.ids = ids }
}

// New creates a ledger from an opening snapshot. The snapshot is copied and
// must satisfy LedgerState.Validate.
func New(opening LedgerState, opts ...Option) (*Ledger, error) {
	if err := opening.Validate(); err != nil {
		return nil, err
	}
	l := &Ledger{
		state:  opening.Clone(),
		limits: DefaultLimits(),
		clock:  SystemClock{},
		ids:    UUIDSource{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Deposit credits amount to the wallet and logs a completed deposit.
func (l *Ledger) Deposit(amount decimal.Decimal) (Transaction, error) {
	if err := l.checkDeposit(amount); err != nil {
		return Transaction{}, err
	}

	tx := l.newTransaction(TxDeposit, amount, StatusCompleted, DescriptionDeposit)
	l.state.Balance = l.state.Balance.Add(amount)
	l.state.AvailableBalance = l.state.AvailableBalance.Add(amount)
	l.state.TotalDeposited = l.state.TotalDeposited.Add(amount)
	l.prepend(tx)
	return tx, nil
}

// Withdraw debits amount from the available balance and logs a pending
// withdrawal. Settlement happens later through SetStatus.
func (l *Ledger) Withdraw(amount decimal.Decimal) (Transaction, error) {
	if err := l.checkWithdrawal(amount); err != nil {
		return Transaction{}, err
	}

	tx := l.newTransaction(TxWithdrawal, amount, StatusPending, DescriptionWithdrawal)
	l.state.Balance = l.state.Balance.Sub(amount)
	l.state.AvailableBalance = l.state.AvailableBalance.Sub(amount)
	l.state.TotalWithdrawn = l.state.TotalWithdrawn.Add(amount)
	l.prepend(tx)
	return tx, nil
}

// RecordOutcome appends a completed bet, win or loss. It never touches
// balance fields or metrics.
func (l *Ledger) RecordOutcome(typ TransactionType, amount decimal.Decimal, description string) (Transaction, error) {
	if !typ.IsOutcome() {
		return Transaction{}, &TypeError{Value: string(typ)}
	}
	if err := l.checkPrecision("outcome", amount); err != nil {
		return Transaction{}, err
	}
	if !amount.IsPositive() {
		return Transaction{}, &AmountError{Op: "outcome", Amount: amount, Reason: "must be positive"}
	}

	tx := l.newTransaction(typ, amount, StatusCompleted, description)
	l.prepend(tx)
	return tx, nil
}

// SetStatus moves a pending transaction to completed or failed.
func (l *Ledger) SetStatus(id TransactionID, status TransactionStatus) (Transaction, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}

	tx := l.state.Transactions[i]
	if !tx.Status.CanTransitionTo(status) {
		return Transaction{}, &TransitionError{ID: id, From: tx.Status, To: status}
	}

	tx.Status = status
	l.state.Transactions[i] = tx
	return tx, nil
}

// SetMetrics replaces the externally maintained aggregates.
func (l *Ledger) SetMetrics(m Metrics) {
	l.state.Metrics = m
}

// =============================================================================
// QUERIES
// =============================================================================

// Snapshot returns a copy of the full state.
func (l *Ledger) Snapshot() LedgerState {
	return l.state.Clone()
}

// Transactions returns a copy of the log, newest first.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.state.Transactions))
	copy(out, l.state.Transactions)
	return out
}

// Transaction looks up a single transaction by id.
func (l *Ledger) Transaction(id TransactionID) (Transaction, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	return l.state.Transactions[i], nil
}

// Metrics returns the held aggregates. See metrics.go for the policy.
func (l *Ledger) Metrics() Metrics {
	return l.state.Metrics
}

func (l *Ledger) Limits() Limits {
	return l.limits
}

// =============================================================================
// INTERNALS
// =============================================================================

// checkPrecision runs before any comparison so that an amount with a huge
// exponent never reaches decimal rescaling.
func (l *Ledger) checkPrecision(op string, amount decimal.Decimal) error {
	if err := checkMagnitude(op, amount); err != nil {
		return err
	}
	if !amount.Truncate(l.limits.Scale).Equal(amount) {
		return &AmountError{Op: op, Amount: amount, Reason: fmt.Sprintf("more than %d decimal places", l.limits.Scale)}
	}
	return nil
}

func (l *Ledger) checkDeposit(amount decimal.Decimal) error {
	if err := l.checkPrecision("deposit", amount); err != nil {
		return err
	}
	switch {
	case !amount.IsPositive():
		return &AmountError{Op: "deposit", Amount: amount, Reason: "must be positive"}
	case l.limits.MinDeposit.IsPositive() && amount.LessThan(l.limits.MinDeposit):
		return &AmountError{Op: "deposit", Amount: amount, Reason: "below minimum " + l.limits.MinDeposit.String()}
	case l.limits.MaxDeposit.IsPositive() && amount.GreaterThan(l.limits.MaxDeposit):
		return &AmountError{Op: "deposit", Amount: amount, Reason: "exceeds maximum " + l.limits.MaxDeposit.String()}
	}
	return nil
}

func (l *Ledger) checkWithdrawal(amount decimal.Decimal) error {
	if err := l.checkPrecision("withdraw", amount); err != nil {
		return err
	}
	switch {
	case !amount.IsPositive():
		return &AmountError{Op: "withdraw", Amount: amount, Reason: "must be positive"}
	case amount.LessThan(l.limits.MinWithdrawal):
		return &AmountError{Op: "withdraw", Amount: amount, Reason: "below minimum " + l.limits.MinWithdrawal.String()}
	case amount.GreaterThan(l.state.AvailableBalance):
		return &InsufficientFundsError{
			Available: l.state.AvailableBalance,
			Requested: amount,
			Shortfall: amount.Sub(l.state.AvailableBalance),
		}
	}
	return nil
}

func (l *Ledger) newTransaction(typ TransactionType, amount decimal.Decimal, status TransactionStatus, description string) Transaction {
	return Transaction{
		ID:          l.ids.NextID(),
		Type:        typ,
		Amount:      amount,
		Status:      status,
		CreatedAt:   l.clock.Now(),
		Description: description,
	}
}

// prepend keeps the log newest first.
func (l *Ledger) prepend(tx Transaction) {
	txs := make([]Transaction, 0, len(l.state.Transactions)+1)
	txs = append(txs, tx)
	l.state.Transactions = append(txs, l.state.Transactions...)
}

func (l *Ledger) indexOf(id TransactionID) int {
	for i, tx := range l.state.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
