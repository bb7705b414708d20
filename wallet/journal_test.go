package wallet_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wallet-engine/wallet"
)

func TestNewEntry_Success(t *testing.T) {
	l := newTestLedger(t)
	tx, err := l.Withdraw(amt("2000"))
	require.NoError(t, err)

	e := wallet.NewEntry(t0, wallet.ActionWithdrawal, amt("2000"), tx, nil)

	assert.Equal(t, t0, e.At)
	assert.Equal(t, tx.ID, e.TxID)
	assert.Equal(t, wallet.TxWithdrawal, e.TxType)
	assert.Equal(t, wallet.StatusPending, e.Status)
	assert.True(t, e.Amount.Equal(amt("2000")))
	assert.Empty(t, e.ErrorKind)
}

func TestNewEntry_StatusChangeTakesTxAmount(t *testing.T) {
	l := newTestLedger(t)
	tx, err := l.SetStatus("6", wallet.StatusFailed)
	require.NoError(t, err)

	e := wallet.NewEntry(t0, wallet.ActionStatusChange, decimal.Zero, tx, nil)

	assert.True(t, e.Amount.Equal(amt("2000")))
	assert.Equal(t, wallet.StatusFailed, e.Status)
}

func TestNewEntry_Rejected(t *testing.T) {
	l := newTestLedger(t)
	tx, err := l.Withdraw(amt("9000"))
	require.Error(t, err)

	e := wallet.NewEntry(t0, wallet.ActionWithdrawal, amt("9000"), tx, err)

	assert.Empty(t, e.TxID)
	assert.Empty(t, e.Status)
	assert.Equal(t, "insufficient_funds", e.ErrorKind)
	assert.Contains(t, e.Detail, "shortfall 4250")
	assert.True(t, e.Amount.Equal(amt("9000")))
}

func TestMemoryJournal(t *testing.T) {
	ctx := context.Background()
	j := wallet.NewMemoryJournal()

	require.NoError(t, j.Record(ctx, wallet.Entry{Action: wallet.ActionDeposit, TxID: "a"}))
	require.NoError(t, j.Record(ctx, wallet.Entry{Action: wallet.ActionOutcome, TxID: "b"}))

	entries := j.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, wallet.TransactionID("a"), entries[0].TxID)

	// returned slice is a copy
	entries[0].TxID = "changed"
	assert.Equal(t, wallet.TransactionID("a"), j.Entries()[0].TxID)

	require.NoError(t, j.Reset(ctx))
	assert.Empty(t, j.Entries())
}
