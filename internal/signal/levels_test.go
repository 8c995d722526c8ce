package signal

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantsim-lab/quantsim/internal/types"
)

type LevelsTestSuite struct {
	suite.Suite
}

func TestLevelsSuite(t *testing.T) {
	suite.Run(t, new(LevelsTestSuite))
}

// zigzag builds a series whose highs peak at the given prices with
// valleys between them.
func zigzag(peaks []float64) types.Series {
	bars := types.Series{}

	for _, p := range peaks {
		valley := p - 10

		bars = append(bars,
			types.Bar{Open: valley, High: valley + 1, Low: valley - 1, Close: valley},
			types.Bar{Open: p - 1, High: p, Low: p - 2, Close: p - 1},
		)
	}

	bars = append(bars, types.Bar{Open: 1, High: 2, Low: 0.5, Close: 1})

	return bars
}

func (suite *LevelsTestSuite) TestFindLevelsPicksSwings() {
	levels := FindLevels(zigzag([]float64{50, 60, 55}))

	suite.NotEmpty(levels.Resistance)
	suite.NotEmpty(levels.Support)
	suite.Contains(levels.Resistance, 60.0)
}

func (suite *LevelsTestSuite) TestReportsAtMostThreeMostRecent() {
	levels := FindLevels(zigzag([]float64{50, 60, 55, 70, 65, 80, 75}))
	suite.LessOrEqual(len(levels.Resistance), 3)
	suite.LessOrEqual(len(levels.Support), 3)
}

func (suite *LevelsTestSuite) TestShortSeries() {
	levels := FindLevels(types.Series{{High: 10, Low: 9}})
	suite.Empty(levels.Support)
	suite.Empty(levels.Resistance)
}

func (suite *LevelsTestSuite) TestNearestSupportResistance() {
	levels := Levels{
		Support:    []float64{90, 80, 95},
		Resistance: []float64{110, 120, 105},
	}

	support, ok := levels.NearestSupport(100)
	suite.True(ok)
	suite.InDelta(95.0, support, 1e-9)

	resistance, ok := levels.NearestResistance(100)
	suite.True(ok)
	suite.InDelta(105.0, resistance, 1e-9)

	_, ok = levels.NearestSupport(50)
	suite.False(ok)

	_, ok = levels.NearestResistance(200)
	suite.False(ok)
}
