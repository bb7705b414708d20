/*
Package sqlite provides a SQLite-backed audit journal for the wallet.

PURPOSE:
  Implements wallet.Journal on top of database/sql and go-sqlite3. The
  journal records every ledger mutation attempt for later inspection. It is
  not used to rebuild the ledger.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on audit_log
  - The only DELETE is Reset(), used when a scenario reload starts a new session

KEY TABLES:
  audit_log: one row per Record() call

INDEXES:
  - idx_audit_log_at:     time-ordered reads
  - idx_audit_log_tx:     lookups by transaction id
  - idx_audit_log_action: filtering by action

WAL MODE:
  The database is opened with WAL so readers do not block the writer.

USAGE:
  j, err := sqlite.New("./data/journal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer j.Close()

  _ = j.Record(ctx, wallet.NewEntry(time.Now(), wallet.ActionDeposit, amt, tx, err))

SEE ALSO:
  - wallet/journal.go: Journal interface and in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/wallet-engine/wallet"
)

// timeLayout is fixed-width so text comparison in SQL matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Journal implements wallet.Journal using SQLite.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ wallet.Journal = (*Journal)(nil)

// New opens (or creates) the journal database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TEXT NOT NULL,
		action TEXT NOT NULL,
		tx_id TEXT,
		tx_type TEXT,
		amount TEXT NOT NULL,
		status TEXT,
		error_kind TEXT,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_at
		ON audit_log(at);
	CREATE INDEX IF NOT EXISTS idx_audit_log_tx
		ON audit_log(tx_id) WHERE tx_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_audit_log_action
		ON audit_log(action);
	`
	_, err := j.db.Exec(schema)
	return err
}

// =============================================================================
// JOURNAL (wallet.Journal interface)
// =============================================================================

// Record appends one entry.
func (j *Journal) Record(ctx context.Context, e wallet.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	query := `
		INSERT INTO audit_log (at, action, tx_id, tx_type, amount, status, error_kind, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.ExecContext(ctx, query,
		e.At.UTC().Format(timeLayout),
		string(e.Action),
		nullString(string(e.TxID)),
		nullString(string(e.TxType)),
		e.Amount.String(),
		nullString(string(e.Status)),
		nullString(e.ErrorKind),
		nullString(e.Detail),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// AuditFilter narrows Query. Zero fields match everything.
type AuditFilter struct {
	TxID         wallet.TransactionID
	Actions      []wallet.JournalAction
	From         *time.Time
	To           *time.Time
	RejectedOnly bool
	Limit        int
}

// Query returns matching entries, oldest first.
func (j *Journal) Query(ctx context.Context, f AuditFilter) ([]wallet.Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if f.TxID != "" {
		where = append(where, "tx_id = ?")
		args = append(args, string(f.TxID))
	}
	if len(f.Actions) > 0 {
		marks := make([]string, len(f.Actions))
		for i, a := range f.Actions {
			marks[i] = "?"
			args = append(args, string(a))
		}
		where = append(where, "action IN ("+strings.Join(marks, ", ")+")")
	}
	if f.From != nil {
		where = append(where, "at >= ?")
		args = append(args, f.From.UTC().Format(timeLayout))
	}
	if f.To != nil {
		where = append(where, "at <= ?")
		args = append(args, f.To.UTC().Format(timeLayout))
	}
	if f.RejectedOnly {
		where = append(where, "error_kind IS NOT NULL")
	}

	query := `SELECT at, action, tx_id, tx_type, amount, status, error_kind, detail FROM audit_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []wallet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var n int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&n)
	return n, err
}

// Reset deletes all entries. Dev/demo only.
func (j *Journal) Reset(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, "DELETE FROM audit_log")
	return err
}

func scanEntry(rows *sql.Rows) (wallet.Entry, error) {
	var (
		e         wallet.Entry
		at        string
		action    string
		txID      sql.NullString
		txType    sql.NullString
		amount    string
		status    sql.NullString
		errorKind sql.NullString
		detail    sql.NullString
	)
	if err := rows.Scan(&at, &action, &txID, &txType, &amount, &status, &errorKind, &detail); err != nil {
		return e, fmt.Errorf("failed to scan audit entry: %w", err)
	}

	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return e, fmt.Errorf("failed to parse audit time %q: %w", at, err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return e, fmt.Errorf("failed to parse audit amount %q: %w", amount, err)
	}

	e.At = t
	e.Action = wallet.JournalAction(action)
	e.TxID = wallet.TransactionID(txID.String)
	e.TxType = wallet.TransactionType(txType.String)
	e.Amount = d
	e.Status = wallet.TransactionStatus(status.String)
	e.ErrorKind = errorKind.String
	e.Detail = detail.String
	return e, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
