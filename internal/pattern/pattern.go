// Package pattern classifies candlestick and chart shapes over the most
// recent bars of a series.
package pattern

import (
	"fmt"
	"math"

	"github.com/quantsim-lab/quantsim/internal/types"
)

// Shape confidences and thresholds.
const (
	hammerConfidence    = 0.75
	dojiConfidence      = 0.60
	engulfingConfidence = 0.80
	triangleConfidence  = 0.65

	// triangleWindow is the number of trailing bars fitted for trend lines.
	triangleWindow = 10
	// flatSlope bounds the high-line slope considered flat; risingSlope is
	// the minimum low-line slope considered rising.
	flatSlope   = 0.1
	risingSlope = 0.1
)

// Detector inspects the most recent bars of a series and classifies
// single and multi-bar shapes. It holds no state; Detect never fails,
// absence of a pattern is simply omission from the result.
type Detector struct{}

// NewDetector creates a new pattern detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns all patterns present at the end of the series.
func (d *Detector) Detect(bars types.Series) []types.PatternMatch {
	matches := []types.PatternMatch{}

	if len(bars) == 0 {
		return matches
	}

	if m, ok := d.detectHammer(bars[len(bars)-1]); ok {
		matches = append(matches, m)
	}

	if m, ok := d.detectDoji(bars[len(bars)-1]); ok {
		matches = append(matches, m)
	}

	if len(bars) >= 2 {
		if m, ok := d.detectEngulfing(bars[len(bars)-2], bars[len(bars)-1]); ok {
			matches = append(matches, m)
		}
	}

	if len(bars) >= triangleWindow {
		if m, ok := d.detectAscendingTriangle(bars.Tail(triangleWindow)); ok {
			matches = append(matches, m)
		}
	}

	return matches
}

// detectHammer matches a long lower shadow with almost no upper shadow.
func (d *Detector) detectHammer(b types.Bar) (types.PatternMatch, bool) {
	body := b.Body()
	if body == 0 {
		return types.PatternMatch{}, false
	}

	if b.LowerShadow() > 2*body && b.UpperShadow() < 0.1*body {
		return types.PatternMatch{
			Name:        types.PatternHammer,
			Confidence:  hammerConfidence,
			Direction:   types.DirectionBullish,
			Description: "long lower shadow with minimal upper shadow after a decline",
		}, true
	}

	return types.PatternMatch{}, false
}

// detectDoji matches a body that is small relative to the full bar range.
func (d *Detector) detectDoji(b types.Bar) (types.PatternMatch, bool) {
	barRange := b.High - b.Low
	if barRange <= 0 {
		return types.PatternMatch{}, false
	}

	if b.Body() < 0.1*barRange {
		return types.PatternMatch{
			Name:        types.PatternDoji,
			Confidence:  dojiConfidence,
			Direction:   types.DirectionNeutral,
			Description: "open and close nearly equal, indecision",
		}, true
	}

	return types.PatternMatch{}, false
}

// detectEngulfing matches a body that fully contains and exceeds the
// previous bar's body in the opposite direction.
func (d *Detector) detectEngulfing(prev, curr types.Bar) (types.PatternMatch, bool) {
	if curr.IsBullish() && !prev.IsBullish() &&
		curr.Open < prev.Close && curr.Close > prev.Open {
		return types.PatternMatch{
			Name:        types.PatternBullishEngulfing,
			Confidence:  engulfingConfidence,
			Direction:   types.DirectionBullish,
			Description: "bullish body engulfs previous bearish body",
		}, true
	}

	if !curr.IsBullish() && prev.IsBullish() &&
		curr.Open > prev.Close && curr.Close < prev.Open {
		return types.PatternMatch{
			Name:        types.PatternBearishEngulfing,
			Confidence:  engulfingConfidence,
			Direction:   types.DirectionBearish,
			Description: "bearish body engulfs previous bullish body",
		}, true
	}

	return types.PatternMatch{}, false
}

// detectAscendingTriangle fits least-squares trend lines independently to
// the highs and lows of the window: flat highs with rising lows.
// Only the ascending variant is detected.
func (d *Detector) detectAscendingTriangle(window types.Series) (types.PatternMatch, bool) {
	highSlope := linearSlope(window.Highs())
	lowSlope := linearSlope(window.Lows())

	if math.Abs(highSlope) < flatSlope && lowSlope > risingSlope {
		return types.PatternMatch{
			Name:       types.PatternAscendingTriangle,
			Confidence: triangleConfidence,
			Direction:  types.DirectionBullish,
			Description: fmt.Sprintf("flat resistance (slope %.3f) with rising support (slope %.3f)",
				highSlope, lowSlope),
		}, true
	}

	return types.PatternMatch{}, false
}

// linearSlope returns the least-squares slope of values against their
// indices 0..n-1.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64

	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denom
}
