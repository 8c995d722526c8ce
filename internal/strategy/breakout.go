package strategy

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const defaultBreakoutLookback = 20.0

// BreakoutRule opens long when the close clears the highest high of the
// lookback window, short when it breaks the lowest low.
type BreakoutRule struct {
	noUnwind
	name     string
	lookback int
}

// NewBreakoutRule creates the rule from the config's lookback param.
func NewBreakoutRule(cfg types.StrategyConfig) (*BreakoutRule, error) {
	lookback := int(cfg.Param("lookback", defaultBreakoutLookback))
	if lookback <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "breakout lookback must be positive, got %d", lookback)
	}

	return &BreakoutRule{name: cfg.ID, lookback: lookback}, nil
}

// Name implements Rule.
func (r *BreakoutRule) Name() string {
	return r.name
}

// WarmupBars implements Rule.
func (r *BreakoutRule) WarmupBars() int {
	return r.lookback + 1
}

// CheckEntry implements Rule. The window ends at bar i-1 so the breakout
// bar does not raise its own threshold.
func (r *BreakoutRule) CheckEntry(bars types.Series, i int) (types.Side, bool) {
	if i < r.lookback {
		return "", false
	}

	highest := bars[i-r.lookback].High
	lowest := bars[i-r.lookback].Low

	for j := i - r.lookback + 1; j < i; j++ {
		if bars[j].High > highest {
			highest = bars[j].High
		}

		if bars[j].Low < lowest {
			lowest = bars[j].Low
		}
	}

	switch {
	case bars[i].Close > highest:
		return types.SideLong, true
	case bars[i].Close < lowest:
		return types.SideShort, true
	}

	return "", false
}
