package strategy

import (
	"math"

	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const (
	defaultMeanReversionPeriod = 20.0
	defaultEntryZScore         = 2.0
	defaultExitZScore          = 0.5

	// confidenceGate is the reading the provider must exceed before a
	// stretched price is actually faded.
	confidenceGate = 0.8
)

// MeanReversionRule fades prices stretched beyond an entry z-score from
// their rolling mean, and unwinds once the stretch has reverted inside
// the exit z-score. Entries are additionally gated by the injected
// confidence provider.
type MeanReversionRule struct {
	name       string
	period     int
	entryZ     float64
	exitZ      float64
	confidence ConfidenceProvider
}

// NewMeanReversionRule creates the rule from the config's period, z_entry
// and z_exit params. A nil provider defaults to always confident.
func NewMeanReversionRule(cfg types.StrategyConfig, confidence ConfidenceProvider) (*MeanReversionRule, error) {
	period := int(cfg.Param("period", defaultMeanReversionPeriod))
	entryZ := cfg.Param("z_entry", defaultEntryZScore)
	exitZ := cfg.Param("z_exit", defaultExitZScore)

	if period <= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "mean reversion period must exceed 1, got %d", period)
	}

	if entryZ <= exitZ {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "entry z-score %.2f must exceed exit z-score %.2f", entryZ, exitZ)
	}

	if confidence == nil {
		confidence = StaticConfidence(1)
	}

	return &MeanReversionRule{
		name:       cfg.ID,
		period:     period,
		entryZ:     entryZ,
		exitZ:      exitZ,
		confidence: confidence,
	}, nil
}

// Name implements Rule.
func (r *MeanReversionRule) Name() string {
	return r.name
}

// WarmupBars implements Rule.
func (r *MeanReversionRule) WarmupBars() int {
	return r.period
}

// CheckEntry implements Rule.
func (r *MeanReversionRule) CheckEntry(bars types.Series, i int) (types.Side, bool) {
	z, ok := r.zScore(bars, i)
	if !ok {
		return "", false
	}

	switch {
	case z < -r.entryZ && r.confidence.Confidence() > confidenceGate:
		return types.SideLong, true
	case z > r.entryZ && r.confidence.Confidence() > confidenceGate:
		return types.SideShort, true
	}

	return "", false
}

// CheckUnwind implements Rule.
func (r *MeanReversionRule) CheckUnwind(bars types.Series, i int, side types.Side) bool {
	z, ok := r.zScore(bars, i)
	if !ok {
		return false
	}

	if side == types.SideLong {
		return z > -r.exitZ
	}

	return z < r.exitZ
}

// zScore measures how far bar i's close sits from the rolling mean, in
// population standard deviations. A flat window yields no reading.
func (r *MeanReversionRule) zScore(bars types.Series, i int) (float64, bool) {
	if i < r.period-1 {
		return 0, false
	}

	mean := closeMean(bars, i, r.period)

	variance := 0.0
	for j := i - r.period + 1; j <= i; j++ {
		d := bars[j].Close - mean
		variance += d * d
	}

	variance /= float64(r.period)
	if variance == 0 {
		return 0, false
	}

	return (bars[i].Close - mean) / math.Sqrt(variance), true
}
