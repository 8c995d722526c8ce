package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type StrategyConfigTestSuite struct {
	suite.Suite
}

func TestStrategyConfigSuite(t *testing.T) {
	suite.Run(t, new(StrategyConfigTestSuite))
}

func (suite *StrategyConfigTestSuite) TestParseFullConfig() {
	content := `
id: sma-cross-fast
kind: sma_crossover
params:
  fast_period: 10
  slow_period: 30
take_profit_pct: 0.03
stop_loss_pct: 0.015
max_hold_bars: 48
trailing_stop_pct: 0.01
symbols:
  - AAPL
  - MSFT
timeframe: 1h
`

	config, err := ParseStrategyConfig(content)
	suite.Require().NoError(err)

	suite.Equal("sma-cross-fast", config.ID)
	suite.Equal(StrategyKindSMACrossover, config.Kind)
	suite.InDelta(10.0, config.Param("fast_period", 0), 1e-9)
	suite.InDelta(30.0, config.Param("slow_period", 0), 1e-9)
	suite.InDelta(0.03, config.TakeProfitPct, 1e-9)
	suite.True(config.MaxHoldBars.IsSome())
	suite.Equal(48, config.MaxHoldBars.Unwrap())
	suite.True(config.TrailingStopPct.IsSome())
	suite.Equal([]string{"AAPL", "MSFT"}, config.Symbols)
}

func (suite *StrategyConfigTestSuite) TestParseMinimalConfig() {
	content := `
id: rsi-dip
kind: rsi_reversion
take_profit_pct: 0.02
stop_loss_pct: 0.01
symbols: [BTCUSDT]
`

	config, err := ParseStrategyConfig(content)
	suite.Require().NoError(err)
	suite.True(config.MaxHoldBars.IsNone())
	suite.True(config.TrailingStopPct.IsNone())
}

func (suite *StrategyConfigTestSuite) TestParamDefault() {
	config := StrategyConfig{Params: map[string]float64{"period": 14}}
	suite.InDelta(14.0, config.Param("period", 20), 1e-9)
	suite.InDelta(20.0, config.Param("missing", 20), 1e-9)
}

func (suite *StrategyConfigTestSuite) TestValidateRejectsIncomplete() {
	tests := []struct {
		name    string
		content string
	}{
		{"missing id", "kind: breakout\nsymbols: [AAPL]"},
		{"missing kind", "id: x\nsymbols: [AAPL]"},
		{"no symbols", "id: x\nkind: breakout"},
		{"negative stop", "id: x\nkind: breakout\nsymbols: [AAPL]\nstop_loss_pct: -0.1"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseStrategyConfig(tc.content)
			suite.Error(err)
		})
	}
}
