// Package engine defines the backtest engine boundary: configure a run,
// hand it a strategy and bars, and receive a complete result.
package engine

import (
	"context"

	"github.com/moznion/go-optional"

	"github.com/quantsim-lab/quantsim/internal/types"
)

// OnProcessDataCallback is called for each bar processed. Returning an
// error aborts the run.
type OnProcessDataCallback func(current int, total int) error

// Engine replays bar series against a strategy's rules and produces a
// trade ledger, equity curve and summary statistics.
type Engine interface {
	// Initialize configures the engine from YAML content.
	Initialize(config string) error
	// SetStrategy selects the strategy to replay by its catalog id.
	SetStrategy(id string) error
	// SetStrategyConfig injects a strategy config directly, bypassing the
	// catalog. Used by callers that synthesize configs, like the
	// parameter optimizer.
	SetStrategyConfig(cfg types.StrategyConfig) error
	// SetBars supplies the series for one symbol. Call once per symbol
	// the strategy trades.
	SetBars(symbol string, bars types.Series) error
	// Run executes the backtest. The context cancels an in-flight run.
	Run(ctx context.Context, onProcessData optional.Option[OnProcessDataCallback]) (*types.BacktestResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
