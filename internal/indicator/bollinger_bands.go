package indicator

import (
	"math"

	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Default Bollinger Band parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

// Bands holds the three aligned Bollinger series. All three share the SMA
// alignment: Middle[i] corresponds to input index i + period - 1.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands computes the middle SMA band and upper/lower bands at
// k population standard deviations of the same window used for the mean.
func BollingerBands(series []float64, period int, k float64) (Bands, error) {
	if k < 0 {
		return Bands{}, errors.Newf(errors.ErrCodeInvalidParameter, "band width multiplier must be non-negative, got %f", k)
	}

	middle, err := SMA(series, period)
	if err != nil {
		return Bands{}, err
	}

	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))

	for i := range middle {
		window := series[i : i+period]

		// Population standard deviation of the SMA window
		variance := 0.0
		for _, v := range window {
			d := v - middle[i]
			variance += d * d
		}

		stddev := math.Sqrt(variance / float64(period))

		upper[i] = middle[i] + k*stddev
		lower[i] = middle[i] - k*stddev
	}

	return Bands{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}, nil
}

// BollingerIndicator implements the Indicator interface; Compute returns
// the middle band.
type BollingerIndicator struct {
	period int
	k      float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default
// configuration.
func NewBollingerBands() Indicator {
	return &BollingerIndicator{
		period: DefaultBollingerPeriod,
		k:      DefaultBollingerK,
	}
}

// Name returns the name of the indicator.
func (b *BollingerIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the indicator. Expected parameters: period (int),
// k (float64, optional).
func (b *BollingerIndicator) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects period (int) and optionally k (float64)")
	}

	period, err := configPeriod(params[0])
	if err != nil {
		return err
	}

	b.period = period

	if len(params) == 2 {
		k, ok := params[1].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidParameter, "invalid type for k parameter, expected float64")
		}

		if k < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "band width multiplier must be non-negative, got %f", k)
		}

		b.k = k
	}

	return nil
}

// Compute implements the Indicator interface over the close prices.
func (b *BollingerIndicator) Compute(bars types.Series) ([]float64, error) {
	bands, err := BollingerBands(bars.Closes(), b.period, b.k)
	if err != nil {
		return nil, err
	}

	return bands.Middle, nil
}
