package strategy

import (
	"github.com/quantsim-lab/quantsim/internal/indicator"
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const (
	defaultRSIOversold   = 30.0
	defaultRSIOverbought = 70.0
)

// RSIReversionRule fades oscillator extremes: long when the RSI reads
// oversold, short when it reads overbought.
type RSIReversionRule struct {
	noUnwind
	name       string
	period     int
	oversold   float64
	overbought float64
}

// NewRSIReversionRule creates the rule from the config's period, oversold
// and overbought params.
func NewRSIReversionRule(cfg types.StrategyConfig) (*RSIReversionRule, error) {
	period := int(cfg.Param("period", float64(indicator.DefaultRSIPeriod)))
	oversold := cfg.Param("oversold", defaultRSIOversold)
	overbought := cfg.Param("overbought", defaultRSIOverbought)

	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "RSI period must be positive, got %d", period)
	}

	if oversold >= overbought {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "oversold threshold %.1f must be below overbought %.1f", oversold, overbought)
	}

	return &RSIReversionRule{name: cfg.ID, period: period, oversold: oversold, overbought: overbought}, nil
}

// Name implements Rule.
func (r *RSIReversionRule) Name() string {
	return r.name
}

// WarmupBars implements Rule.
func (r *RSIReversionRule) WarmupBars() int {
	return r.period + 1
}

// CheckEntry implements Rule.
func (r *RSIReversionRule) CheckEntry(bars types.Series, i int) (types.Side, bool) {
	if i < r.period {
		return "", false
	}

	window := make([]float64, 0, r.period+1)
	for j := i - r.period; j <= i; j++ {
		window = append(window, bars[j].Close)
	}

	rsi, err := indicator.RSI(window, r.period)
	if err != nil {
		return "", false
	}

	switch {
	case rsi[len(rsi)-1] < r.oversold:
		return types.SideLong, true
	case rsi[len(rsi)-1] > r.overbought:
		return types.SideShort, true
	}

	return "", false
}
