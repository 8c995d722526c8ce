package types

// PatternType identifies a candlestick or chart pattern.
type PatternType string

const (
	PatternHammer            PatternType = "hammer"
	PatternDoji              PatternType = "doji"
	PatternBullishEngulfing  PatternType = "bullish_engulfing"
	PatternBearishEngulfing  PatternType = "bearish_engulfing"
	PatternAscendingTriangle PatternType = "ascending_triangle"
)

// PatternMatch is one detected pattern at an evaluation point. Matches are
// produced per evaluation and not retained.
type PatternMatch struct {
	Name PatternType
	// Confidence is in [0,1].
	Confidence float64
	Direction  Direction
	// Description is a human-readable explanation of the shape.
	Description string
}
