// Package strategy implements the entry and unwind rules the backtest
// engine replays against a bar series, plus the catalog they are looked
// up from.
package strategy

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// Rule is one strategy's trading logic, evaluated bar by bar.
type Rule interface {
	// Name returns the strategy id the rule was built from.
	Name() string
	// WarmupBars is the minimum series length the rule needs before
	// CheckEntry may be consulted.
	WarmupBars() int
	// CheckEntry reports whether a position should be opened at bar i,
	// and in which direction.
	CheckEntry(bars types.Series, i int) (types.Side, bool)
	// CheckUnwind reports whether an open position should be closed at
	// bar i for rule-specific reasons, beyond the profit, loss and time
	// exits the engine applies itself.
	CheckUnwind(bars types.Series, i int, side types.Side) bool
}

// NewRule builds the Rule for the config's kind. The confidence provider
// is only consulted by kinds that gate their entries on it.
func NewRule(cfg types.StrategyConfig, confidence ConfidenceProvider) (Rule, error) {
	switch cfg.Kind {
	case types.StrategyKindSMACrossover:
		return NewSMACrossoverRule(cfg)
	case types.StrategyKindRSIReversion:
		return NewRSIReversionRule(cfg)
	case types.StrategyKindBreakout:
		return NewBreakoutRule(cfg)
	case types.StrategyKindMeanReversion:
		return NewMeanReversionRule(cfg, confidence)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy kind %q", cfg.Kind)
	}
}

// noUnwind is embedded by rules that rely solely on the engine's exits.
type noUnwind struct{}

func (noUnwind) CheckUnwind(types.Series, int, types.Side) bool {
	return false
}

// closeMean averages the period closes ending at bar end inclusive.
func closeMean(bars types.Series, end, period int) float64 {
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		sum += bars[j].Close
	}

	return sum / float64(period)
}
