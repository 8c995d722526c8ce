package optimizer

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantsim-lab/quantsim/internal/logger"
	"github.com/quantsim-lab/quantsim/internal/strategy"
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const optimizerEngineConfig = `
initial_capital: 10000
cost_model: zero
`

type OptimizerTestSuite struct {
	suite.Suite
	repo *strategy.InMemoryRepository
}

func (suite *OptimizerTestSuite) SetupTest() {
	suite.repo = strategy.NewInMemoryRepository()
	suite.Require().NoError(suite.repo.AddStrategy(types.StrategyConfig{
		ID:            "breakout-sweep",
		Kind:          types.StrategyKindBreakout,
		Params:        map[string]float64{"lookback": 2},
		TakeProfitPct: 0.01,
		StopLossPct:   0.01,
		Symbols:       []string{"AAPL"},
		Timeframe:     "1h",
	}))
}

func TestOptimizerSuite(t *testing.T) {
	suite.Run(t, new(OptimizerTestSuite))
}

// staircase compounds 1% per bar with tight highs, so every lookback in
// the sweep finds breakouts and closes profitable trades.
func staircase(n int) types.Series {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	bars := make(types.Series, n)
	for i := range bars {
		c := 10 * math.Pow(1.01, float64(i))
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c - 0.05,
			High:   c + 0.05,
			Low:    c - 0.1,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func (suite *OptimizerTestSuite) newOptimizer() *Optimizer {
	o := NewOptimizer(logger.NewNopLogger(), suite.repo, strategy.StaticConfidence(1), optimizerEngineConfig)
	suite.Require().NoError(o.SetBars("AAPL", staircase(30)))

	return o
}

func (suite *OptimizerTestSuite) TestSingleParamSweep() {
	o := suite.newOptimizer()

	result, err := o.Run(context.Background(), "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 1, Max: 3, Step: 1},
	})
	suite.Require().NoError(err)

	suite.Equal(3, result.Evaluated)
	suite.Require().NotNil(result.BestResult)
	suite.GreaterOrEqual(result.BestParams["lookback"], 1.0)
	suite.LessOrEqual(result.BestParams["lookback"], 3.0)
	suite.Equal(result.BestResult.Sharpe, result.BestSharpe)
	suite.Positive(result.BestResult.TradeCount)
}

func (suite *OptimizerTestSuite) TestBestMetricsComputed() {
	o := suite.newOptimizer()

	result, err := o.Run(context.Background(), "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 2, Max: 2, Step: 1},
	})
	suite.Require().NoError(err)

	suite.Equal(1, result.Evaluated)
	// Staircase trades are all winners.
	suite.Positive(result.BestMetrics.AvgWin)
	suite.Equal(0.0, result.BestMetrics.AvgLoss)
}

func (suite *OptimizerTestSuite) TestDeterministicSelection() {
	ranges := map[string]ParamRange{
		"lookback": {Min: 1, Max: 3, Step: 1},
	}

	first, err := suite.newOptimizer().Run(context.Background(), "breakout-sweep", ranges)
	suite.Require().NoError(err)

	second, err := suite.newOptimizer().Run(context.Background(), "breakout-sweep", ranges)
	suite.Require().NoError(err)

	suite.Equal(first.BestParams, second.BestParams)
	suite.Equal(first.BestSharpe, second.BestSharpe)
	suite.Equal(first.Evaluated, second.Evaluated)
}

func (suite *OptimizerTestSuite) TestCombinationCap() {
	o := suite.newOptimizer()
	o.SetMaxCombinations(5)

	result, err := o.Run(context.Background(), "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 1, Max: 20, Step: 1},
	})
	suite.Require().NoError(err)

	suite.LessOrEqual(result.Evaluated, 5)

	truncated := false

	for _, w := range result.Warnings {
		if strings.Contains(w, "truncated") {
			truncated = true
		}
	}

	suite.True(truncated)
}

func (suite *OptimizerTestSuite) TestFailingCombinationsAreWarnings() {
	o := suite.newOptimizer()

	// Lookback 25 needs more warmup than lookback 5 over 30 bars; both
	// still run, but a 40-bar warmup cannot.
	result, err := o.Run(context.Background(), "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 5, Max: 45, Step: 40},
	})
	suite.Require().NoError(err)

	suite.Equal(1, result.Evaluated)
	suite.Require().Len(result.Warnings, 1)
	suite.Contains(result.Warnings[0], "skipped")
	suite.InDelta(5.0, result.BestParams["lookback"], 1e-9)
}

func (suite *OptimizerTestSuite) TestAllCombinationsFail() {
	o := suite.newOptimizer()

	_, err := o.Run(context.Background(), "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 50, Max: 60, Step: 5},
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeOptimizerNoCandidates))
}

func (suite *OptimizerTestSuite) TestInvalidRanges() {
	o := suite.newOptimizer()

	testCases := []struct {
		name   string
		ranges map[string]ParamRange
		code   errors.ErrorCode
	}{
		{"zero step", map[string]ParamRange{"lookback": {Min: 1, Max: 3, Step: 0}}, errors.ErrCodeInvalidParamRange},
		{"min above max", map[string]ParamRange{"lookback": {Min: 3, Max: 1, Step: 1}}, errors.ErrCodeInvalidParamRange},
		{"empty ranges", map[string]ParamRange{}, errors.ErrCodeOptimizerNoCandidates},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := o.Run(context.Background(), "breakout-sweep", tc.ranges)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code))
		})
	}
}

func (suite *OptimizerTestSuite) TestUnknownStrategy() {
	o := suite.newOptimizer()

	_, err := o.Run(context.Background(), "missing", map[string]ParamRange{
		"lookback": {Min: 1, Max: 3, Step: 1},
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (suite *OptimizerTestSuite) TestCancellation() {
	o := suite.newOptimizer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, "breakout-sweep", map[string]ParamRange{
		"lookback": {Min: 1, Max: 3, Step: 1},
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeOptimizerCancelled))
}

func (suite *OptimizerTestSuite) TestEnumerateCartesianProduct() {
	combos, truncated, err := enumerate(map[string]ParamRange{
		"a": {Min: 1, Max: 2, Step: 1},
		"b": {Min: 10, Max: 30, Step: 10},
	}, 50)
	suite.Require().NoError(err)
	suite.False(truncated)
	suite.Require().Len(combos, 6)

	// Sorted name order makes the first combination fully minimal.
	suite.Equal(map[string]float64{"a": 1, "b": 10}, combos[0])
	suite.Equal(map[string]float64{"a": 1, "b": 20}, combos[1])
	suite.Equal(map[string]float64{"a": 2, "b": 30}, combos[5])
}

func (suite *OptimizerTestSuite) TestEnumerateFractionalStepIncludesMax() {
	// 0.3 - 0.1 divided by 0.1 lands just under 2 in floating point; the
	// grid must still reach Max.
	combos, truncated, err := enumerate(map[string]ParamRange{
		"take_profit": {Min: 0.1, Max: 0.3, Step: 0.1},
	}, 50)
	suite.Require().NoError(err)
	suite.False(truncated)
	suite.Require().Len(combos, 3)

	suite.InDelta(0.1, combos[0]["take_profit"], 1e-9)
	suite.InDelta(0.2, combos[1]["take_profit"], 1e-9)
	suite.InDelta(0.3, combos[2]["take_profit"], 1e-9)
}
