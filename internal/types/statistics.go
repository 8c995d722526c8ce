package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BacktestResult owns the trade ledger, the equity curve and the summary
// scalars of one simulation run. It is never mutated after the run
// completes.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// StrategyID names the strategy configuration that produced the run.
	StrategyID string `yaml:"strategy_id"`
	// StartTime is the timestamp of the first bar replayed.
	StartTime time.Time `yaml:"start_time"`
	// EndTime is the timestamp of the last bar replayed.
	EndTime time.Time `yaml:"end_time"`
	// InitialCapital is the starting equity.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalEquity is the realized equity after the last close.
	FinalEquity float64 `yaml:"final_equity"`
	// TotalReturn is (final-initial)/initial in percent.
	TotalReturn float64 `yaml:"total_return"`
	// AnnualizedReturn compounds the total return over 365/days, in percent.
	AnnualizedReturn float64 `yaml:"annualized_return"`
	// MaxDrawdown is the largest fractional decline from an equity peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// Sharpe is approximated from the per-trade percentage-return
	// distribution, annualized with sqrt(252). It is not a true
	// time-bucketed Sharpe; downstream ranking depends on this exact form.
	Sharpe float64 `yaml:"sharpe"`
	// WinRate is winning trades over total trades.
	WinRate float64 `yaml:"win_rate"`
	// ProfitFactor is gross profit over gross loss, 0 when no losses
	// were recorded.
	ProfitFactor float64 `yaml:"profit_factor"`
	// TradeCount is the number of closed trades.
	TradeCount int `yaml:"trade_count"`
	// Trades is the chronological trade ledger.
	Trades []Trade `yaml:"trades"`
	// EquityCurve holds one point per closed trade.
	EquityCurve []EquityPoint `yaml:"equity_curve"`
	// MonthlyReturns sums trade PnL into "YYYY-MM" buckets keyed by exit time.
	MonthlyReturns map[string]float64 `yaml:"monthly_returns"`
}

// Metrics is a derived read-only snapshot computed from a BacktestResult.
// It has no independent lifecycle and is recomputed on demand.
type Metrics struct {
	// Volatility is stdev of per-trade returns, annualized, in percent.
	Volatility float64 `yaml:"volatility"`
	// Sortino annualizes using only downside deviation.
	Sortino float64 `yaml:"sortino"`
	// Calmar is annualized return over max drawdown.
	Calmar float64 `yaml:"calmar"`
	// AvgWin is the mean PnL of winning trades.
	AvgWin float64 `yaml:"avg_win"`
	// AvgLoss is the mean absolute PnL of losing trades.
	AvgLoss float64 `yaml:"avg_loss"`
	// LargestWin is the best single-trade PnL.
	LargestWin float64 `yaml:"largest_win"`
	// LargestLoss is the worst single-trade PnL.
	LargestLoss float64 `yaml:"largest_loss"`
	// LongestWinStreak is the longest run of consecutive winners.
	LongestWinStreak int `yaml:"longest_win_streak"`
	// LongestLossStreak is the longest run of consecutive losers.
	LongestLossStreak int `yaml:"longest_loss_streak"`
	// VaR95 is the 5th percentile of the sorted per-trade return
	// distribution (historical, not a normal-distribution estimate).
	VaR95 float64 `yaml:"var_95"`
	// ExpectedShortfall is the mean of returns at or below VaR95.
	ExpectedShortfall float64 `yaml:"expected_shortfall"`
}

// WriteBacktestResult writes the result to a YAML file.
func WriteBacktestResult(path string, result *BacktestResult) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}

// ReadBacktestResult reads a result previously written with
// WriteBacktestResult.
func ReadBacktestResult(path string) (*BacktestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backtest result file: %w", err)
	}

	var result BacktestResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backtest result: %w", err)
	}

	return &result, nil
}
