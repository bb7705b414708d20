package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wallet-engine/store/sqlite"
	"github.com/warp/wallet-engine/wallet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var t0 = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestJournal(t *testing.T) *sqlite.Journal {
	j, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// seed records a deposit, a rejected withdrawal, a withdrawal and its settlement.
func seed(t *testing.T, j *sqlite.Journal) {
	ctx := context.Background()
	deposit := wallet.Transaction{ID: "tx-1", Type: wallet.TxDeposit, Amount: wallet.MustAmount("500"), Status: wallet.StatusCompleted}
	withdrawal := wallet.Transaction{ID: "tx-2", Type: wallet.TxWithdrawal, Amount: wallet.MustAmount("2000"), Status: wallet.StatusPending}
	settled := withdrawal
	settled.Status = wallet.StatusCompleted
	rejected := &wallet.AmountError{Op: "withdraw", Amount: wallet.MustAmount("5"), Reason: "below minimum 10"}

	entries := []wallet.Entry{
		wallet.NewEntry(t0, wallet.ActionDeposit, deposit.Amount, deposit, nil),
		wallet.NewEntry(t0.Add(time.Minute), wallet.ActionWithdrawal, wallet.MustAmount("5"), wallet.Transaction{}, rejected),
		wallet.NewEntry(t0.Add(2*time.Minute), wallet.ActionWithdrawal, withdrawal.Amount, withdrawal, nil),
		wallet.NewEntry(t0.Add(time.Hour), wallet.ActionStatusChange, wallet.MustAmount("0"), settled, nil),
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestJournal_RecordAndQueryAll(t *testing.T) {
	j := newTestJournal(t)
	seed(t, j)

	got, err := j.Query(context.Background(), sqlite.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	first := got[0]
	assert.True(t, first.At.Equal(t0))
	assert.Equal(t, wallet.ActionDeposit, first.Action)
	assert.Equal(t, wallet.TransactionID("tx-1"), first.TxID)
	assert.Equal(t, wallet.TxDeposit, first.TxType)
	assert.Equal(t, wallet.StatusCompleted, first.Status)
	assert.True(t, first.Amount.Equal(wallet.MustAmount("500")))
	assert.Empty(t, first.ErrorKind)

	rejected := got[1]
	assert.Empty(t, rejected.TxID)
	assert.Equal(t, "invalid_amount", rejected.ErrorKind)
	assert.Contains(t, rejected.Detail, "below minimum 10")

	// status change carries the transaction amount
	assert.True(t, got[3].Amount.Equal(wallet.MustAmount("2000")))
}

func TestJournal_QueryFilters(t *testing.T) {
	j := newTestJournal(t)
	seed(t, j)
	ctx := context.Background()

	byTx, err := j.Query(ctx, sqlite.AuditFilter{TxID: "tx-2"})
	require.NoError(t, err)
	require.Len(t, byTx, 2)
	assert.Equal(t, wallet.StatusPending, byTx[0].Status)
	assert.Equal(t, wallet.StatusCompleted, byTx[1].Status)

	withdrawals, err := j.Query(ctx, sqlite.AuditFilter{Actions: []wallet.JournalAction{wallet.ActionWithdrawal}})
	require.NoError(t, err)
	assert.Len(t, withdrawals, 2)

	rejected, err := j.Query(ctx, sqlite.AuditFilter{RejectedOnly: true})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, wallet.ActionWithdrawal, rejected[0].Action)

	from := t0.Add(30 * time.Second)
	to := t0.Add(2 * time.Minute)
	window, err := j.Query(ctx, sqlite.AuditFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, window, 2)

	limited, err := j.Query(ctx, sqlite.AuditFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, wallet.ActionDeposit, limited[0].Action)
}

func TestJournal_TimeOrderAcrossFractions(t *testing.T) {
	// Sub-second timestamps must still compare correctly in SQL
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, wallet.Entry{At: t0, Action: wallet.ActionDeposit, Amount: wallet.MustAmount("1")}))
	require.NoError(t, j.Record(ctx, wallet.Entry{At: t0.Add(500 * time.Millisecond), Action: wallet.ActionDeposit, Amount: wallet.MustAmount("2")}))
	require.NoError(t, j.Record(ctx, wallet.Entry{At: t0.Add(time.Second), Action: wallet.ActionDeposit, Amount: wallet.MustAmount("3")}))

	from := t0.Add(100 * time.Millisecond)
	got, err := j.Query(ctx, sqlite.AuditFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Equal(wallet.MustAmount("2")))
}

func TestJournal_CountAndReset(t *testing.T) {
	j := newTestJournal(t)
	seed(t, j)
	ctx := context.Background()

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, j.Reset(ctx))

	n, err = j.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJournal_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := sqlite.New(path)
	require.NoError(t, err)
	seed(t, j)
	require.NoError(t, j.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestJournal_RecordHonoursContext(t *testing.T) {
	j := newTestJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := j.Record(ctx, wallet.Entry{At: t0, Action: wallet.ActionDeposit})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
