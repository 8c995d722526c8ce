// Package optimizer grid-searches a strategy's parameter space, running
// one backtest per combination and keeping the best Sharpe ratio seen.
package optimizer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	backtestengine "github.com/quantsim-lab/quantsim/internal/backtest/engine"
	enginev1 "github.com/quantsim-lab/quantsim/internal/backtest/engine/engine_v1"
	"github.com/quantsim-lab/quantsim/internal/logger"
	"github.com/quantsim-lab/quantsim/internal/metrics"
	"github.com/quantsim-lab/quantsim/internal/strategy"
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// DefaultMaxCombinations caps the grid size so a careless range does not
// turn the sweep into an unbounded run.
const DefaultMaxCombinations = 50

// ParamRange discretizes one parameter as min, min+step, ... up to max
// inclusive.
type ParamRange struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Result is the outcome of one optimization sweep.
type Result struct {
	// BestParams is the winning parameter combination.
	BestParams map[string]float64
	// BestResult is the backtest result of the winning combination.
	BestResult *types.BacktestResult
	// BestMetrics is the metrics snapshot of the winning combination.
	BestMetrics types.Metrics
	// BestSharpe is the winning Sharpe ratio.
	BestSharpe float64
	// Evaluated counts the combinations that ran to completion.
	Evaluated int
	// Warnings lists skipped combinations and grid truncation notices.
	Warnings []string
}

// Optimizer runs independent backtests per parameter combination on a
// worker pool. Combinations share nothing, so the pool joins cleanly.
type Optimizer struct {
	log             *logger.Logger
	repository      strategy.Repository
	confidence      strategy.ConfidenceProvider
	engineConfig    string
	bars            map[string]types.Series
	maxCombinations int
	workers         int
}

// NewOptimizer creates an optimizer. engineConfig is the YAML engine
// configuration handed verbatim to every per-combination engine.
func NewOptimizer(log *logger.Logger, repository strategy.Repository, confidence strategy.ConfidenceProvider, engineConfig string) *Optimizer {
	return &Optimizer{
		log:             log,
		repository:      repository,
		confidence:      confidence,
		engineConfig:    engineConfig,
		bars:            make(map[string]types.Series),
		maxCombinations: DefaultMaxCombinations,
		workers:         runtime.NumCPU(),
	}
}

// SetMaxCombinations overrides the evaluation cap.
func (o *Optimizer) SetMaxCombinations(n int) {
	if n > 0 {
		o.maxCombinations = n
	}
}

// SetWorkers overrides the worker pool size.
func (o *Optimizer) SetWorkers(n int) {
	if n > 0 {
		o.workers = n
	}
}

// SetBars supplies the series every combination replays.
func (o *Optimizer) SetBars(symbol string, bars types.Series) error {
	if err := bars.Validate(); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid series for %s", symbol)
	}

	o.bars[symbol] = bars

	return nil
}

// evaluation holds one combination's outcome, slot-indexed so the sweep
// stays deterministic regardless of worker scheduling.
type evaluation struct {
	params map[string]float64
	result *types.BacktestResult
	err    error
}

// Run sweeps the Cartesian product of the ranges for the given strategy
// and returns the combination with the highest Sharpe ratio. Individual
// combination failures are recorded as warnings, not errors.
func (o *Optimizer) Run(ctx context.Context, strategyID string, ranges map[string]ParamRange) (*Result, error) {
	base, err := o.repository.GetStrategy(strategyID)
	if err != nil {
		return nil, err
	}

	candidates, truncated, err := enumerate(ranges, o.maxCombinations)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, errors.New(errors.ErrCodeOptimizerNoCandidates, "parameter ranges produce no combinations")
	}

	evaluations := make([]evaluation, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < o.workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				evaluations[idx] = o.evaluate(ctx, base, candidates[idx])
			}
		}()
	}

feed:
	for idx := range candidates {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOptimizerCancelled, "optimization cancelled", err)
	}

	result := &Result{}

	if truncated {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("parameter grid truncated to %d combinations", o.maxCombinations))
	}

	for _, eval := range evaluations {
		if eval.err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("combination %v skipped: %v", eval.params, eval.err))

			continue
		}

		result.Evaluated++

		if result.BestResult == nil || eval.result.Sharpe > result.BestSharpe {
			result.BestParams = eval.params
			result.BestResult = eval.result
			result.BestSharpe = eval.result.Sharpe
		}
	}

	if result.BestResult == nil {
		return nil, errors.Newf(errors.ErrCodeOptimizerNoCandidates,
			"all %d combinations failed", len(candidates))
	}

	result.BestMetrics = metrics.Calculate(result.BestResult)

	o.log.Info("optimization sweep complete",
		zap.String("strategy", strategyID),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("skipped", len(result.Warnings)),
		zap.Float64("best_sharpe", result.BestSharpe),
	)

	return result, nil
}

// evaluate runs one combination on a fresh engine.
func (o *Optimizer) evaluate(ctx context.Context, base types.StrategyConfig, params map[string]float64) evaluation {
	eval := evaluation{params: params}

	cfg := base
	cfg.Params = make(map[string]float64, len(base.Params)+len(params))

	for name, value := range base.Params {
		cfg.Params[name] = value
	}

	for name, value := range params {
		cfg.Params[name] = value
	}

	engine := enginev1.NewBacktestEngineV1(o.log, o.repository, o.confidence)

	if err := engine.Initialize(o.engineConfig); err != nil {
		eval.err = err
		return eval
	}

	for symbol, bars := range o.bars {
		if err := engine.SetBars(symbol, bars); err != nil {
			eval.err = err
			return eval
		}
	}

	if err := engine.SetStrategyConfig(cfg); err != nil {
		eval.err = err
		return eval
	}

	result, err := engine.Run(ctx, optional.None[backtestengine.OnProcessDataCallback]())
	if err != nil {
		eval.err = err
		return eval
	}

	eval.result = result

	return eval
}

// enumerate expands the ranges into the Cartesian product of their
// values, in sorted parameter-name order, capped at maxCombinations.
func enumerate(ranges map[string]ParamRange, maxCombinations int) ([]map[string]float64, bool, error) {
	if len(ranges) == 0 {
		return nil, false, nil
	}

	names := make([]string, 0, len(ranges))

	for name, r := range ranges {
		if r.Step <= 0 {
			return nil, false, errors.Newf(errors.ErrCodeInvalidParamRange, "parameter %q has non-positive step %v", name, r.Step)
		}

		if r.Min > r.Max {
			return nil, false, errors.Newf(errors.ErrCodeInvalidParamRange, "parameter %q has min %v above max %v", name, r.Min, r.Max)
		}

		names = append(names, name)
	}

	sort.Strings(names)

	values := make([][]float64, len(names))

	for i, name := range names {
		r := ranges[name]
		// Floor with an epsilon so fractional steps whose quotient lands
		// just under an integer still include Max.
		steps := int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1

		vals := make([]float64, 0, steps)
		for k := 0; k < steps; k++ {
			vals = append(vals, r.Min+float64(k)*r.Step)
		}

		values[i] = vals
	}

	combinations := []map[string]float64{}
	truncated := false

	indexes := make([]int, len(names))

	for {
		if len(combinations) >= maxCombinations {
			truncated = true
			break
		}

		combo := make(map[string]float64, len(names))
		for i, name := range names {
			combo[name] = values[i][indexes[i]]
		}

		combinations = append(combinations, combo)

		// Advance the odometer, least significant name last.
		pos := len(indexes) - 1
		for pos >= 0 {
			indexes[pos]++

			if indexes[pos] < len(values[pos]) {
				break
			}

			indexes[pos] = 0
			pos--
		}

		if pos < 0 {
			break
		}
	}

	return combinations, truncated, nil
}
