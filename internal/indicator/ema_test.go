package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantsim-lab/quantsim/internal/types"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestEMASeedIsSMA() {
	// seed = SMA of first 3 = 2; alpha = 0.5
	got, err := EMA([]float64{1, 2, 3, 4, 5}, 3)
	suite.Require().NoError(err)
	suite.Require().Len(got, 3)
	suite.InDelta(2.0, got[0], 1e-9)
	suite.InDelta(3.0, got[1], 1e-9)
	suite.InDelta(4.0, got[2], 1e-9)
}

func (suite *EMATestSuite) TestEMAOutputLength() {
	series := make([]float64, 60)
	for i := range series {
		series[i] = float64(i % 7)
	}

	for _, period := range []int{1, 5, 20, 60} {
		got, err := EMA(series, period)
		suite.Require().NoError(err)
		suite.Len(got, len(series)-period+1)
	}
}

func (suite *EMATestSuite) TestEMAConstantSeries() {
	got, err := EMA([]float64{3, 3, 3, 3, 3, 3}, 4)
	suite.Require().NoError(err)

	for _, v := range got {
		suite.InDelta(3.0, v, 1e-9)
	}
}

func (suite *EMATestSuite) TestEMAInvalidInputs() {
	_, err := EMA([]float64{1, 2}, 0)
	suite.Error(err)

	_, err = EMA([]float64{1, 2}, 3)
	suite.Error(err)
}

func (suite *EMATestSuite) TestEMAIndicator() {
	ema := NewEMA()
	suite.Equal(types.IndicatorTypeEMA, ema.Name())
	suite.NoError(ema.Config(3))

	bars := types.Series{
		{Close: 1}, {Close: 2}, {Close: 3}, {Close: 4}, {Close: 5},
	}

	got, err := ema.Compute(bars)
	suite.Require().NoError(err)
	suite.InDelta(2.0, got[0], 1e-9)
	suite.InDelta(4.0, got[2], 1e-9)
}
