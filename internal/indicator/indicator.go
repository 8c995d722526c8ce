// Package indicator computes technical indicators from price series.
//
// All calculations are pure functions over caller-owned slices. Windowed
// indicators consume a warm-up period, so outputs align to a suffix of the
// input; the exact alignment rule is documented per indicator and must be
// preserved by callers that index into the results.
package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Indicator is a named, configurable wrapper around one of the pure
// calculation functions, used for registry-driven lookup.
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Compute returns the indicator series aligned to a suffix of bars.
	Compute(bars types.Series) ([]float64, error)
	// Config configures the indicator parameters.
	Config(params ...any) error
}

// checkPeriod validates a window length against a series length.
func checkPeriod(period, n int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	if period > n {
		return errors.NewInsufficientDataErrorf(period, n, "",
			"period %d exceeds series length %d", period, n)
	}

	return nil
}

func configPeriod(params ...any) (int, error) {
	if len(params) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		// Try to convert from float first
		periodFloat, ok := params[0].(float64)
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return period, nil
}
