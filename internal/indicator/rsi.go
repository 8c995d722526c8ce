package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
)

// DefaultRSIPeriod is the standard RSI look-back.
const DefaultRSIPeriod = 14

// RSI returns the Relative Strength Index using a simple rolling average
// of gains and losses over period (not Wilder smoothing). A window with
// zero average loss yields 100. Output length = len(series) - period.
func RSI(series []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(series)-1); err != nil {
		return nil, err
	}

	// Per-step gains and losses
	gains := make([]float64, len(series)-1)
	losses := make([]float64, len(series)-1)

	for i := 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	out := make([]float64, 0, len(gains)-period+1)

	sumGain := 0.0
	sumLoss := 0.0

	for i := 0; i < len(gains); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]

		if i >= period {
			sumGain -= gains[i-period]
			sumLoss -= losses[i-period]
		}

		if i < period-1 {
			continue
		}

		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		if avgLoss == 0 {
			// Perfect uptrend (or flat window)
			out = append(out, 100)
			continue
		}

		rs := avgGain / avgLoss
		out = append(out, 100-(100/(1+rs)))
	}

	return out, nil
}

// RSIIndicator implements the Indicator interface for the RSI.
type RSIIndicator struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSIIndicator{
		period: DefaultRSIPeriod,
	}
}

// Name returns the name of the indicator.
func (r *RSIIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSIIndicator) Config(params ...any) error {
	period, err := configPeriod(params...)
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute implements the Indicator interface over the close prices.
func (r *RSIIndicator) Compute(bars types.Series) ([]float64, error) {
	return RSI(bars.Closes(), r.period)
}
