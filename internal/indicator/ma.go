package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
)

// SMA returns the arithmetic mean of each contiguous window of length
// period. Output length = len(series) - period + 1.
func SMA(series []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(series)); err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(series)-period+1)

	sum := 0.0
	for i, v := range series {
		sum += v

		if i >= period {
			sum -= series[i-period]
		}

		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}

	return out, nil
}

// MA implements the Indicator interface for the simple moving average.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config configures the MA indicator. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	period, err := configPeriod(params...)
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// Compute implements the Indicator interface over the close prices.
func (m *MA) Compute(bars types.Series) ([]float64, error) {
	return SMA(bars.Closes(), m.period)
}
