package indicator

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Default MACD parameters.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the three separately indexed MACD series.
//
// Alignment: MACDLine[i] corresponds to input index i + slow - 1.
// SignalLine[i] corresponds to MACDLine[i + signal - 1], and
// Histogram[i] = MACDLine[i+signal-1] - SignalLine[i]. These offsets must
// be preserved; misalignment silently corrupts every consumer downstream.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
}

// MACD computes the Moving Average Convergence Divergence of the series.
func MACD(series []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidPeriod,
			"MACD periods must be positive, got fast=%d slow=%d signal=%d", fast, slow, signal)
	}

	if fast >= slow {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"fast period %d must be shorter than slow period %d", fast, slow)
	}

	fastEMA, err := EMA(series, fast)
	if err != nil {
		return MACDResult{}, err
	}

	slowEMA, err := EMA(series, slow)
	if err != nil {
		return MACDResult{}, err
	}

	// Trim the fast EMA head so both series start at input index slow-1.
	offset := slow - fast

	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine, err := EMA(macdLine, signal)
	if err != nil {
		return MACDResult{}, errors.Wrap(errors.ErrCodeIndicatorCalculation,
			"series too short for MACD signal line", err)
	}

	histogram := make([]float64, len(signalLine))
	for i := range signalLine {
		histogram[i] = macdLine[i+signal-1] - signalLine[i]
	}

	return MACDResult{
		MACDLine:   macdLine,
		SignalLine: signalLine,
		Histogram:  histogram,
	}, nil
}

// MACDIndicator implements the Indicator interface; Compute returns the
// histogram series.
type MACDIndicator struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACDIndicator{
		fast:   DefaultMACDFast,
		slow:   DefaultMACDSlow,
		signal: DefaultMACDSignal,
	}
}

// Name returns the name of the indicator.
func (m *MACDIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fast (int),
// slow (int), signal (int).
func (m *MACDIndicator) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 3 parameters: fast (int), slow (int), signal (int)")
	}

	periods := make([]int, 3)

	for i, p := range params {
		v, ok := p.(int)
		if !ok {
			return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int")
		}

		if v <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", v)
		}

		periods[i] = v
	}

	m.fast, m.slow, m.signal = periods[0], periods[1], periods[2]

	return nil
}

// Compute implements the Indicator interface over the close prices.
func (m *MACDIndicator) Compute(bars types.Series) ([]float64, error) {
	result, err := MACD(bars.Closes(), m.fast, m.slow, m.signal)
	if err != nil {
		return nil, err
	}

	return result.Histogram, nil
}
