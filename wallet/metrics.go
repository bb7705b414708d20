/*
metrics.go - Betting performance figures

POLICY:
  Metrics held by the Ledger are externally maintained aggregates. They are
  seeded from the opening snapshot and replaced wholesale by SetMetrics; no
  ledger operation recomputes them, and no ledger operation reads them.

  DeriveMetrics computes the same figures from a transaction log. Callers
  that want log-consistent numbers (or want to detect drift) use it directly.

FORMULAS (DeriveMetrics):
  NetProfit = sum(win) - sum(loss)
  ROI       = sum(win) / sum(bet) * 100          (0 when there are no bets)
  WinRate   = count(win) / (count(win) + count(loss)) * 100
  TotalBets = count(bet)

  Failed transactions are ignored. Percentages are rounded to 2 places.
*/
package wallet

import "github.com/shopspring/decimal"

// Metrics summarizes betting performance.
type Metrics struct {
	NetProfit decimal.Decimal
	ROI       decimal.Decimal // percent
	WinRate   decimal.Decimal // percent
	TotalBets int
}

var hundred = decimal.NewFromInt(100)

// DeriveMetrics computes Metrics from a transaction log.
func DeriveMetrics(txs []Transaction) Metrics {
	var (
		won, lost, staked decimal.Decimal
		wins, losses, bets int64
	)
	for _, tx := range txs {
		if tx.Status == StatusFailed {
			continue
		}
		switch tx.Type {
		case TxWin:
			won = won.Add(tx.Amount)
			wins++
		case TxLoss:
			lost = lost.Add(tx.Amount)
			losses++
		case TxBet:
			staked = staked.Add(tx.Amount)
			bets++
		}
	}

	m := Metrics{
		NetProfit: won.Sub(lost),
		ROI:       decimal.Zero,
		WinRate:   decimal.Zero,
		TotalBets: int(bets),
	}
	if staked.IsPositive() {
		m.ROI = won.Div(staked).Mul(hundred).Round(2)
	}
	if settled := wins + losses; settled > 0 {
		m.WinRate = decimal.NewFromInt(wins).Div(decimal.NewFromInt(settled)).Mul(hundred).Round(2)
	}
	return m
}
