package types

import (
	"math"
	"time"

	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Bar is a single OHLCV observation for a fixed time interval.
// Bars are immutable once produced.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Validate checks the OHLC relationships and that all fields are finite
// and non-negative.
func (b Bar) Validate() error {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "bar at %s has non-finite or negative value", b.Time)
		}
	}

	if b.High < math.Max(b.Open, b.Close) || b.Low > math.Min(b.Open, b.Close) {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"bar at %s violates OHLC relationships: O=%.4f H=%.4f L=%.4f C=%.4f",
			b.Time, b.Open, b.High, b.Low, b.Close)
	}

	return nil
}

// Body returns the absolute size of the bar body.
func (b Bar) Body() float64 {
	return math.Abs(b.Close - b.Open)
}

// UpperShadow returns the distance from the high to the top of the body.
func (b Bar) UpperShadow() float64 {
	return b.High - math.Max(b.Open, b.Close)
}

// LowerShadow returns the distance from the bottom of the body to the low.
func (b Bar) LowerShadow() float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

// IsBullish reports whether the bar closed above its open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// Series is a chronologically ordered sequence of bars. The core never
// mutates a series in place; callers retain ownership.
type Series []Bar

// Closes extracts the close prices.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}

	return out
}

// Highs extracts the high prices.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}

	return out
}

// Lows extracts the low prices.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}

	return out
}

// Tail returns the last n bars, or the whole series when it is shorter.
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}

	return s[len(s)-n:]
}

// Validate checks every bar and that timestamps ascend.
func (s Series) Validate() error {
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return err
		}

		if i > 0 && !s[i-1].Time.Before(b.Time) {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"series timestamps must be strictly ascending at index %d", i)
		}
	}

	return nil
}
