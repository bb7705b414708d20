/*
journal.go - Audit trail of ledger operations

PURPOSE:
  Records who-did-what for every ledger mutation attempt, successful or not.
  The journal is write-mostly and append-only. It is never replayed to
  rebuild the ledger; the ledger itself has no persistence.

  The Ledger does not write to the journal (its operations perform no I/O).
  The adapter that drives the ledger records an Entry after each call.

IMPLEMENTATIONS:
  - MemoryJournal (this file): for tests and journal-less runs
  - store/sqlite.Journal: SQLite-backed
*/
package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type JournalAction string

const (
	ActionDeposit      JournalAction = "deposit"
	ActionWithdrawal   JournalAction = "withdrawal"
	ActionOutcome      JournalAction = "outcome"
	ActionStatusChange JournalAction = "status_change"
)

// Entry is one audit record. TxID and Status are empty for rejected operations;
// ErrorKind is empty for successful ones.
type Entry struct {
	At        time.Time
	Action    JournalAction
	TxID      TransactionID
	TxType    TransactionType
	Amount    decimal.Decimal // requested amount
	Status    TransactionStatus
	ErrorKind string
	Detail    string
}

// Journal stores audit entries. Append-only.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// NewEntry builds an entry from the result of a ledger call.
func NewEntry(at time.Time, action JournalAction, requested decimal.Decimal, tx Transaction, err error) Entry {
	e := Entry{
		At:     at,
		Action: action,
		Amount: requested,
	}
	if err != nil {
		e.ErrorKind = ErrorKind(err)
		e.Detail = err.Error()
		return e
	}
	e.TxID = tx.ID
	e.TxType = tx.Type
	e.Status = tx.Status
	if requested.IsZero() {
		e.Amount = tx.Amount
	}
	return e
}

// =============================================================================
// MEMORY JOURNAL
// =============================================================================

type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

// Entries returns a copy of everything recorded, oldest first.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Reset discards every entry.
func (j *MemoryJournal) Reset(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
	return nil
}
