package types

import "time"

// Decision is the trading decision attached to a signal.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// Direction is the directional bias of a pattern or scoring factor.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Signal is a scored trading decision for one instrument. It is immutable
// and returned to the caller; the core keeps no backing store.
type Signal struct {
	// Symbol is the instrument the signal applies to.
	Symbol string `yaml:"symbol"`
	// Decision is BUY, SELL or HOLD.
	Decision Decision `yaml:"decision"`
	// Strength is the decision strength in [0,100].
	Strength float64 `yaml:"strength"`
	// Confidence is the aggregate confidence in [0,1].
	Confidence float64 `yaml:"confidence"`
	// Entry is the suggested entry price (last close).
	Entry float64 `yaml:"entry"`
	// StopLoss is the suggested protective stop.
	StopLoss float64 `yaml:"stop_loss"`
	// TakeProfit is the suggested profit target.
	TakeProfit float64 `yaml:"take_profit"`
	// Timeframe tags the bar interval the signal was computed on.
	Timeframe string `yaml:"timeframe"`
	// Reasons collects one human-readable line per contributing factor.
	Reasons []string `yaml:"reasons"`
	// GeneratedAt is the signal generation timestamp.
	GeneratedAt time.Time `yaml:"generated_at"`
}
