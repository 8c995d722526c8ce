package types

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestWriteReadRoundTrip() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "result.yaml")

	entry := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	result := &BacktestResult{
		ID:             "run-1",
		StrategyID:     "sma-cross",
		StartTime:      entry,
		EndTime:        entry.Add(48 * time.Hour),
		InitialCapital: 10000,
		FinalEquity:    10500,
		TotalReturn:    5,
		TradeCount:     1,
		Trades: []Trade{
			{
				Symbol:     "AAPL",
				Side:       SideLong,
				EntryTime:  entry,
				ExitTime:   entry.Add(4 * time.Hour),
				EntryPrice: 100,
				ExitPrice:  105,
				Quantity:   100,
				PnL:        500,
				PnLPercent: 5,
				Holding:    4 * time.Hour,
				ExitReason: ExitReasonTakeProfit,
			},
		},
		EquityCurve: []EquityPoint{
			{Time: entry.Add(4 * time.Hour), Equity: 10500, Drawdown: 0},
		},
		MonthlyReturns: map[string]float64{"2024-03": 500},
	}

	suite.Require().NoError(WriteBacktestResult(path, result))

	got, err := ReadBacktestResult(path)
	suite.Require().NoError(err)
	suite.Equal(result.ID, got.ID)
	suite.Equal(result.TradeCount, got.TradeCount)
	suite.Len(got.Trades, 1)
	suite.Equal(ExitReasonTakeProfit, got.Trades[0].ExitReason)
	suite.InDelta(500.0, got.MonthlyReturns["2024-03"], 1e-9)
}

func (suite *StatisticsTestSuite) TestReadMissingFile() {
	_, err := ReadBacktestResult(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestTradeIsWin() {
	suite.True(Trade{PnL: 1}.IsWin())
	suite.False(Trade{PnL: 0}.IsWin())
	suite.False(Trade{PnL: -3}.IsWin())
}
