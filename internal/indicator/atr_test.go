package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantsim-lab/quantsim/internal/types"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func atrBars() types.Series {
	return types.Series{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 13, Low: 10, Close: 12},
		{Open: 12, High: 14, Low: 11, Close: 9},
	}
}

func (suite *ATRTestSuite) TestTrueRanges() {
	trs := TrueRanges(atrBars())
	suite.Require().Len(trs, 2)

	// Bar 1: max(13-10, |13-11|, |10-11|) = 3
	suite.InDelta(3.0, trs[0], 1e-9)
	// Bar 2: max(14-11, |14-12|, |11-12|) = 3
	suite.InDelta(3.0, trs[1], 1e-9)

	suite.Nil(TrueRanges(atrBars()[:1]))
}

func (suite *ATRTestSuite) TestTrueRangeUsesGaps() {
	bars := types.Series{
		{Open: 10, High: 11, Low: 9, Close: 10},
		// Gapped up: the range to the previous close dominates high-low
		{Open: 20, High: 21, Low: 19.5, Close: 20},
	}

	trs := TrueRanges(bars)
	suite.InDelta(11.0, trs[0], 1e-9)
}

func (suite *ATRTestSuite) TestATRPlainTrailingMean() {
	got, err := ATR(atrBars(), 2)
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.InDelta(3.0, got[0], 1e-9)

	last, err := ATRLast(atrBars(), 2)
	suite.Require().NoError(err)
	suite.InDelta(3.0, last, 1e-9)
}

func (suite *ATRTestSuite) TestATRInsufficientData() {
	_, err := ATR(atrBars(), 5)
	suite.Error(err)

	_, err = ATRLast(types.Series{}, 14)
	suite.Error(err)
}

func (suite *ATRTestSuite) TestATRIndicator() {
	atr := NewATR()
	suite.Equal(types.IndicatorTypeATR, atr.Name())
	suite.NoError(atr.Config(2))

	got, err := atr.Compute(atrBars())
	suite.Require().NoError(err)
	suite.InDelta(3.0, got[0], 1e-9)
}
