package wallet_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wallet-engine/wallet"
)

// =============================================================================
// TRANSACTION TYPE AND STATUS
// =============================================================================

func TestTransactionType_Parse(t *testing.T) {
	for _, typ := range wallet.TransactionTypes {
		got, err := wallet.ParseTransactionType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := wallet.ParseTransactionType("Bet")
	assert.ErrorIs(t, err, wallet.ErrInvalidType)
}

func TestTransactionStatus_Transitions(t *testing.T) {
	assert.True(t, wallet.StatusPending.CanTransitionTo(wallet.StatusCompleted))
	assert.True(t, wallet.StatusPending.CanTransitionTo(wallet.StatusFailed))
	assert.False(t, wallet.StatusPending.CanTransitionTo(wallet.StatusPending))
	assert.False(t, wallet.StatusCompleted.CanTransitionTo(wallet.StatusFailed))
	assert.False(t, wallet.StatusFailed.CanTransitionTo(wallet.StatusCompleted))

	_, err := wallet.ParseTransactionStatus("settled")
	assert.ErrorIs(t, err, wallet.ErrInvalidTransition)
}

func TestTransaction_SignedAmount(t *testing.T) {
	credit := wallet.Transaction{Type: wallet.TxWin, Amount: amt("185")}
	debit := wallet.Transaction{Type: wallet.TxBet, Amount: amt("100")}

	assert.True(t, credit.SignedAmount().Equal(amt("185")))
	assert.True(t, debit.SignedAmount().Equal(amt("-100")))
}

func TestParseAmount(t *testing.T) {
	d, err := wallet.ParseAmount("2000.50")
	require.NoError(t, err)
	assert.Equal(t, "2000.5", d.String())

	for _, bad := range []string{"", "abc", "1,000"} {
		_, err := wallet.ParseAmount(bad)
		assert.ErrorIs(t, err, wallet.ErrInvalidAmount, bad)
	}
}

func TestAmountFromFloat(t *testing.T) {
	d, err := wallet.AmountFromFloat(0.1)
	require.NoError(t, err)
	assert.Equal(t, "0.1", d.String())

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := wallet.AmountFromFloat(f)
		assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
	}
}

func TestTransactionType_IsOutcome(t *testing.T) {
	assert.True(t, wallet.TxBet.IsOutcome())
	assert.True(t, wallet.TxWin.IsOutcome())
	assert.True(t, wallet.TxLoss.IsOutcome())
	assert.False(t, wallet.TxDeposit.IsOutcome())
	assert.False(t, wallet.TxWithdrawal.IsOutcome())
}

// =============================================================================
// AMOUNT MAGNITUDE
// =============================================================================

func TestParseAmount_RejectsExtremeExponents(t *testing.T) {
	// GIVEN: Short strings that expand into enormous decimals
	// WHEN: Parsing them
	// THEN: InvalidAmount without doing any rescaling work

	for _, s := range []string{"1e-19", "1e-3000000", "1e19", "1e3000000", "1234567890123456789012345678901"} {
		start := time.Now()
		_, err := wallet.ParseAmount(s)
		assert.ErrorIs(t, err, wallet.ErrInvalidAmount, s)
		assert.Less(t, time.Since(start), 100*time.Millisecond, s)
	}

	d, err := wallet.ParseAmount("0.001")
	require.NoError(t, err, "scale is a ledger limit, not a parse rule")
	assert.Equal(t, "0.001", d.String())
}

func TestAmountFromFloat_RejectsTinyValues(t *testing.T) {
	_, err := wallet.AmountFromFloat(1e-300)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	d, err := wallet.AmountFromFloat(12.5)
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))
}
