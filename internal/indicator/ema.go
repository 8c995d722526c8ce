package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
)

// EMA returns the exponential moving average. The first output value is
// seeded with the SMA of the first period samples; subsequent values use
// the smoothing factor alpha = 2/(period+1). Output length =
// len(series) - period + 1.
func EMA(series []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(series)); err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(series)-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += series[i]
	}

	seed /= float64(period)
	out = append(out, seed)

	alpha := 2.0 / (float64(period) + 1.0)

	prev := seed
	for i := period; i < len(series); i++ {
		ema := series[i]*alpha + prev*(1-alpha)
		out = append(out, ema)
		prev = ema
	}

	return out, nil
}

// EMAIndicator implements the Indicator interface for the exponential
// moving average.
type EMAIndicator struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMAIndicator{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMAIndicator) Config(params ...any) error {
	period, err := configPeriod(params...)
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// Compute implements the Indicator interface over the close prices.
func (e *EMAIndicator) Compute(bars types.Series) ([]float64, error) {
	return EMA(bars.Closes(), e.period)
}
