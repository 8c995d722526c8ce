// Package metrics derives risk and return statistics from a completed
// backtest result. Everything here is a pure function of its input.
package metrics

import (
	"math"
	"sort"

	"github.com/quantsim-lab/quantsim/internal/types"
)

const tradingDaysPerYear = 252.0

// varPercentile is the tail probability used for the historical VaR.
const varPercentile = 0.05

// Calculate computes the full metrics snapshot for a result. A result
// with no trades yields all-zero metrics.
func Calculate(result *types.BacktestResult) types.Metrics {
	m := types.Metrics{}

	trades := result.Trades
	if len(trades) == 0 {
		return m
	}

	returns := make([]float64, len(trades))
	for i, t := range trades {
		returns[i] = t.PnLPercent
	}

	m.Volatility = stddev(returns) * math.Sqrt(tradingDaysPerYear)
	m.Sortino = sortino(returns)
	m.Calmar = calmar(result.AnnualizedReturn, result.MaxDrawdown)

	m.AvgWin, m.AvgLoss, m.LargestWin, m.LargestLoss = winLossProfile(trades)
	m.LongestWinStreak, m.LongestLossStreak = streaks(trades)

	m.VaR95 = historicalVaR(returns)
	m.ExpectedShortfall = expectedShortfall(returns, m.VaR95)

	return m
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}

	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	return math.Sqrt(variance / float64(len(values)))
}

// sortino annualizes mean return over downside deviation, where only
// negative returns contribute to the risk denominator.
func sortino(returns []float64) float64 {
	mean := 0.0
	downside := 0.0

	for _, r := range returns {
		mean += r

		if r < 0 {
			downside += r * r
		}
	}

	mean /= float64(len(returns))
	downside = math.Sqrt(downside / float64(len(returns)))

	if downside == 0 {
		return 0
	}

	return mean / downside * math.Sqrt(tradingDaysPerYear)
}

// calmar divides the annualized return by the max drawdown, both in
// percent. A flat-peak run (no drawdown) reports 0.
func calmar(annualizedReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}

	return annualizedReturn / (maxDrawdown * 100)
}

func winLossProfile(trades []types.Trade) (avgWin, avgLoss, largestWin, largestLoss float64) {
	winCount := 0
	lossCount := 0

	for _, t := range trades {
		if t.IsWin() {
			winCount++
			avgWin += t.PnL

			if t.PnL > largestWin {
				largestWin = t.PnL
			}

			continue
		}

		lossCount++
		avgLoss += -t.PnL

		if t.PnL < largestLoss {
			largestLoss = t.PnL
		}
	}

	if winCount > 0 {
		avgWin /= float64(winCount)
	}

	if lossCount > 0 {
		avgLoss /= float64(lossCount)
	}

	return avgWin, avgLoss, largestWin, largestLoss
}

func streaks(trades []types.Trade) (longestWin, longestLoss int) {
	winRun := 0
	lossRun := 0

	for _, t := range trades {
		if t.IsWin() {
			winRun++
			lossRun = 0
		} else {
			lossRun++
			winRun = 0
		}

		if winRun > longestWin {
			longestWin = winRun
		}

		if lossRun > longestLoss {
			longestLoss = lossRun
		}
	}

	return longestWin, longestLoss
}

// historicalVaR is the 5th percentile of the sorted return distribution,
// taken from the observed returns rather than a fitted distribution.
func historicalVaR(returns []float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(varPercentile * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}

// expectedShortfall averages the returns at or below the VaR threshold.
func expectedShortfall(returns []float64, varThreshold float64) float64 {
	sum := 0.0
	count := 0

	for _, r := range returns {
		if r <= varThreshold {
			sum += r
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}
