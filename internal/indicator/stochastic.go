package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Default stochastic oscillator parameters.
const (
	DefaultStochasticK = 14
	DefaultStochasticD = 3
)

// StochasticResult holds the %K and %D series.
//
// Alignment: K[i] corresponds to input index i + kPeriod - 1;
// D[i] corresponds to K[i + dPeriod - 1].
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes the stochastic oscillator:
// %K = 100*(close-lowestLow)/(highestHigh-lowestLow) over each kPeriod
// window and %D = SMA(%K, dPeriod). A flat window (zero range) yields
// %K = 50, the documented neutral convention.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (StochasticResult, error) {
	if len(highs) != len(lows) || len(highs) != len(closes) {
		return StochasticResult{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"highs, lows and closes must have equal lengths, got %d/%d/%d", len(highs), len(lows), len(closes))
	}

	if err := checkPeriod(kPeriod, len(closes)); err != nil {
		return StochasticResult{}, err
	}

	k := make([]float64, 0, len(closes)-kPeriod+1)

	for i := kPeriod - 1; i < len(closes); i++ {
		lowest := lows[i-kPeriod+1]
		highest := highs[i-kPeriod+1]

		for j := i - kPeriod + 2; j <= i; j++ {
			if lows[j] < lowest {
				lowest = lows[j]
			}

			if highs[j] > highest {
				highest = highs[j]
			}
		}

		if highest == lowest {
			// Flat range: neutral reading
			k = append(k, 50)
			continue
		}

		k = append(k, 100*(closes[i]-lowest)/(highest-lowest))
	}

	d, err := SMA(k, dPeriod)
	if err != nil {
		return StochasticResult{}, errors.Wrap(errors.ErrCodeIndicatorCalculation,
			"series too short for %D smoothing", err)
	}

	return StochasticResult{K: k, D: d}, nil
}

// StochasticIndicator implements the Indicator interface; Compute returns
// the %K series.
type StochasticIndicator struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a new stochastic oscillator with default
// configuration.
func NewStochastic() Indicator {
	return &StochasticIndicator{
		kPeriod: DefaultStochasticK,
		dPeriod: DefaultStochasticD,
	}
}

// Name returns the name of the indicator.
func (s *StochasticIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Config configures the indicator. Expected parameters: kPeriod (int),
// dPeriod (int).
func (s *StochasticIndicator) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 2 parameters: kPeriod (int), dPeriod (int)")
	}

	kPeriod, err := configPeriod(params[0])
	if err != nil {
		return err
	}

	dPeriod, err := configPeriod(params[1])
	if err != nil {
		return err
	}

	s.kPeriod = kPeriod
	s.dPeriod = dPeriod

	return nil
}

// Compute implements the Indicator interface over the bar highs, lows and
// closes.
func (s *StochasticIndicator) Compute(bars types.Series) ([]float64, error) {
	result, err := Stochastic(bars.Highs(), bars.Lows(), bars.Closes(), s.kPeriod, s.dPeriod)
	if err != nil {
		return nil, err
	}

	return result.K, nil
}
