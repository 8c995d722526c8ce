package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestBandOrdering() {
	rng := rand.New(rand.NewSource(11))

	series := make([]float64, 120)
	price := 50.0

	for i := range series {
		price += rng.Float64()*2 - 1
		series[i] = price
	}

	bands, err := BollingerBands(series, DefaultBollingerPeriod, DefaultBollingerK)
	suite.Require().NoError(err)
	suite.Len(bands.Middle, len(series)-DefaultBollingerPeriod+1)

	for i := range bands.Middle {
		suite.GreaterOrEqual(bands.Upper[i], bands.Middle[i])
		suite.GreaterOrEqual(bands.Middle[i], bands.Lower[i])
	}
}

func (suite *BollingerBandsTestSuite) TestPopulationStddev() {
	// Window [1,2,3,4]: mean 2.5, population variance 1.25
	bands, err := BollingerBands([]float64{1, 2, 3, 4}, 4, 2)
	suite.Require().NoError(err)
	suite.Require().Len(bands.Middle, 1)

	stddev := math.Sqrt(1.25)
	suite.InDelta(2.5, bands.Middle[0], 1e-9)
	suite.InDelta(2.5+2*stddev, bands.Upper[0], 1e-9)
	suite.InDelta(2.5-2*stddev, bands.Lower[0], 1e-9)
}

func (suite *BollingerBandsTestSuite) TestFlatSeriesCollapses() {
	bands, err := BollingerBands([]float64{7, 7, 7, 7, 7}, 3, 2)
	suite.Require().NoError(err)

	for i := range bands.Middle {
		suite.InDelta(7.0, bands.Upper[i], 1e-9)
		suite.InDelta(7.0, bands.Lower[i], 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestInvalidInputs() {
	_, err := BollingerBands([]float64{1, 2}, 3, 2)
	suite.Error(err)

	_, err = BollingerBands([]float64{1, 2, 3}, 2, -1)
	suite.Error(err)
}
