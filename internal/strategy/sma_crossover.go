package strategy

import (
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const (
	defaultFastPeriod = 10.0
	defaultSlowPeriod = 30.0
)

// SMACrossoverRule opens long when the fast moving average crosses above
// the slow one, and short on the opposite cross.
type SMACrossoverRule struct {
	noUnwind
	name string
	fast int
	slow int
}

// NewSMACrossoverRule creates the rule from the config's fast_period and
// slow_period params.
func NewSMACrossoverRule(cfg types.StrategyConfig) (*SMACrossoverRule, error) {
	fast := int(cfg.Param("fast_period", defaultFastPeriod))
	slow := int(cfg.Param("slow_period", defaultSlowPeriod))

	if fast <= 0 || slow <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "moving average periods must be positive, got fast=%d slow=%d", fast, slow)
	}

	if fast >= slow {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fast period %d must be shorter than slow period %d", fast, slow)
	}

	return &SMACrossoverRule{name: cfg.ID, fast: fast, slow: slow}, nil
}

// Name implements Rule.
func (r *SMACrossoverRule) Name() string {
	return r.name
}

// WarmupBars implements Rule. The cross needs the slow average at two
// consecutive bars.
func (r *SMACrossoverRule) WarmupBars() int {
	return r.slow + 1
}

// CheckEntry implements Rule.
func (r *SMACrossoverRule) CheckEntry(bars types.Series, i int) (types.Side, bool) {
	if i < r.slow {
		return "", false
	}

	fastNow := closeMean(bars, i, r.fast)
	slowNow := closeMean(bars, i, r.slow)
	fastPrev := closeMean(bars, i-1, r.fast)
	slowPrev := closeMean(bars, i-1, r.slow)

	if fastPrev <= slowPrev && fastNow > slowNow {
		return types.SideLong, true
	}

	if fastPrev >= slowPrev && fastNow < slowNow {
		return types.SideShort, true
	}

	return "", false
}
