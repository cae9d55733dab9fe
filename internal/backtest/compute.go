package backtest

import (
	"math"

	"strategy-studio/internal/domain"
)

// computeMetrics fills the aggregate fields of a report from its trade list.
// Trades must be in chronological order; MaxDrawdown depends on it.
func computeMetrics(report *domain.BacktestReport) {
	trades := report.Trades
	n := len(trades)
	report.TotalTrades = n
	if n == 0 {
		return
	}

	wins := 0
	grossProfit := 0.0
	grossLoss := 0.0
	returns := make([]float64, n)
	for i, tr := range trades {
		pnl, _ := tr.PnL.Float64()
		if pnl > 0 {
			wins++
			grossProfit += pnl
		} else {
			grossLoss += -pnl
		}
		returns[i] = tr.PnLPercent
	}

	report.Wins = wins
	report.Losses = n - wins
	report.WinRate = float64(wins) / float64(n)
	report.ProfitFactor = computeProfitFactor(grossProfit, grossLoss)
	report.MaxDrawdown = computeMaxDrawdown(returns)
	report.SharpeRatio = computeSharpe(returns)
	report.TotalReturnPct = computeSum(returns)
}

// computeProfitFactor is gross profit over gross loss. A run with no losing
// trades reports the gross profit itself rather than infinity.
func computeProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		return grossProfit
	}
	return grossProfit / grossLoss
}

// computeMaxDrawdown calculates worst peak-to-trough on cumulative returns.
// Returns must be in chronological order.
func computeMaxDrawdown(returns []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, r := range returns {
		cumulative += r
		if cumulative > peak {
			peak = cumulative
		}
		drawdown := peak - cumulative
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}

// computeSharpe is the annualization-free Sharpe ratio of per-trade returns:
// mean over sample stddev.
func computeSharpe(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}

	mean := computeSum(returns) / float64(n)
	sumSq := 0.0
	for _, r := range returns {
		diff := r - mean
		sumSq += diff * diff
	}
	stddev := math.Sqrt(sumSq / float64(n-1))
	if stddev == 0 {
		return 0
	}
	return mean / stddev
}

func computeSum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}
