package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/wallet-engine/wallet"
)

func TestDeriveMetrics_DemoLog(t *testing.T) {
	// wins 185 + 320, loss 50, one bet of 100
	m := wallet.DeriveMetrics(openingState().Transactions)

	assert.True(t, m.NetProfit.Equal(amt("455")), "net profit: %s", m.NetProfit)
	assert.True(t, m.ROI.Equal(amt("505")), "roi: %s", m.ROI)
	assert.True(t, m.WinRate.Equal(amt("66.67")), "win rate: %s", m.WinRate)
	assert.Equal(t, 1, m.TotalBets)
}

func TestDeriveMetrics_EmptyLog(t *testing.T) {
	m := wallet.DeriveMetrics(nil)

	assert.True(t, m.NetProfit.IsZero())
	assert.True(t, m.ROI.IsZero())
	assert.True(t, m.WinRate.IsZero())
	assert.Zero(t, m.TotalBets)
}

func TestDeriveMetrics_SkipsFailed(t *testing.T) {
	txs := []wallet.Transaction{
		{ID: "a", Type: wallet.TxBet, Amount: amt("50"), Status: wallet.StatusCompleted},
		{ID: "b", Type: wallet.TxWin, Amount: amt("80"), Status: wallet.StatusFailed},
		{ID: "c", Type: wallet.TxLoss, Amount: amt("50"), Status: wallet.StatusCompleted},
		{ID: "d", Type: wallet.TxDeposit, Amount: amt("999"), Status: wallet.StatusCompleted},
	}

	m := wallet.DeriveMetrics(txs)

	assert.True(t, m.NetProfit.Equal(amt("-50")))
	assert.True(t, m.ROI.IsZero())
	assert.True(t, m.WinRate.IsZero())
	assert.Equal(t, 1, m.TotalBets)
}
