package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestMACDKnownValues() {
	// Linear ramp: both EMAs track the ramp with a constant gap, so the
	// MACD line is constant and the histogram is zero.
	got, err := MACD([]float64{1, 2, 3, 4, 5}, 2, 3, 2)
	suite.Require().NoError(err)

	suite.Require().Len(got.MACDLine, 3)
	suite.Require().Len(got.SignalLine, 2)
	suite.Require().Len(got.Histogram, 2)

	for _, v := range got.MACDLine {
		suite.InDelta(0.5, v, 1e-9)
	}

	for _, v := range got.Histogram {
		suite.InDelta(0.0, v, 1e-9)
	}
}

func (suite *MACDTestSuite) TestMACDAlignment() {
	n := 100

	series := make([]float64, n)
	for i := range series {
		series[i] = float64(i*i%23) + 50
	}

	got, err := MACD(series, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	suite.Require().NoError(err)

	suite.Len(got.MACDLine, n-DefaultMACDSlow+1)
	suite.Len(got.SignalLine, n-DefaultMACDSlow+1-DefaultMACDSignal+1)
	suite.Len(got.Histogram, len(got.SignalLine))

	// Histogram must be the aligned difference of the two lines
	for i := range got.Histogram {
		suite.InDelta(got.MACDLine[i+DefaultMACDSignal-1]-got.SignalLine[i], got.Histogram[i], 1e-9)
	}
}

func (suite *MACDTestSuite) TestMACDInvalidInputs() {
	_, err := MACD([]float64{1, 2, 3}, 0, 26, 9)
	suite.Error(err)

	_, err = MACD([]float64{1, 2, 3}, 26, 12, 9)
	suite.Error(err)

	// Too short for the slow EMA
	_, err = MACD([]float64{1, 2, 3}, 2, 5, 2)
	suite.Error(err)
}

func (suite *MACDTestSuite) TestMACDIndicatorConfig() {
	macd := NewMACD()
	suite.Error(macd.Config(12))
	suite.Error(macd.Config(12, 26, "nine"))
	suite.Error(macd.Config(12, 26, 0))
	suite.NoError(macd.Config(5, 10, 3))
}
