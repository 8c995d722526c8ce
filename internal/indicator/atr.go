package indicator

import (
	"math"

	"github.com/quantsim-lab/quantsim/internal/types"
)

// DefaultATRPeriod is the standard ATR look-back.
const DefaultATRPeriod = 14

// TrueRanges returns the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close, so output length = len(bars) - 1.
func TrueRanges(bars types.Series) []float64 {
	if len(bars) < 2 {
		return nil
	}

	out := make([]float64, len(bars)-1)

	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		tr := bars[i].High - bars[i].Low

		if v := math.Abs(bars[i].High - prevClose); v > tr {
			tr = v
		}

		if v := math.Abs(bars[i].Low - prevClose); v > tr {
			tr = v
		}

		out[i-1] = tr
	}

	return out
}

// ATR returns the rolling Average True Range: a plain trailing mean of
// period true ranges (not Wilder smoothing). Output length =
// len(bars) - period.
func ATR(bars types.Series, period int) ([]float64, error) {
	trs := TrueRanges(bars)

	if err := checkPeriod(period, len(trs)); err != nil {
		return nil, err
	}

	return SMA(trs, period)
}

// ATRLast returns the mean of the last period true ranges, the single
// value consumers use for stop and target sizing.
func ATRLast(bars types.Series, period int) (float64, error) {
	trs := TrueRanges(bars)

	if err := checkPeriod(period, len(trs)); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}

	return sum / float64(period), nil
}

// ATRIndicator implements the Indicator interface for the ATR.
type ATRIndicator struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATRIndicator{
		period: DefaultATRPeriod,
	}
}

// Name returns the name of the indicator.
func (a *ATRIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATRIndicator) Config(params ...any) error {
	period, err := configPeriod(params...)
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

// Compute implements the Indicator interface.
func (a *ATRIndicator) Compute(bars types.Series) ([]float64, error) {
	return ATR(bars, a.period)
}
