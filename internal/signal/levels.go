package signal

import (
	"sort"

	"github.com/quantsim-lab/quantsim/internal/types"
)

const (
	// maxExtremeLevels is how many of the most extreme swing points are
	// kept per side before recency filtering.
	maxExtremeLevels = 5
	// reportedLevels is how many of the kept levels are reported,
	// most recent first.
	reportedLevels = 3
)

// Levels holds the support and resistance prices found in a series,
// most recent first.
type Levels struct {
	Support    []float64
	Resistance []float64
}

type swing struct {
	index int
	price float64
}

// FindLevels scans the full series for local maxima of highs and local
// minima of lows, keeps the 5 most extreme of each, and reports the most
// recent 3 of those.
func FindLevels(bars types.Series) Levels {
	peaks := []swing{}
	valleys := []swing{}

	for i := 1; i < len(bars)-1; i++ {
		if bars[i].High > bars[i-1].High && bars[i].High > bars[i+1].High {
			peaks = append(peaks, swing{index: i, price: bars[i].High})
		}

		if bars[i].Low < bars[i-1].Low && bars[i].Low < bars[i+1].Low {
			valleys = append(valleys, swing{index: i, price: bars[i].Low})
		}
	}

	return Levels{
		Support:    selectLevels(valleys, false),
		Resistance: selectLevels(peaks, true),
	}
}

// selectLevels keeps the most extreme swings, then orders the survivors by
// recency.
func selectLevels(swings []swing, highest bool) []float64 {
	sort.SliceStable(swings, func(i, j int) bool {
		if highest {
			return swings[i].price > swings[j].price
		}

		return swings[i].price < swings[j].price
	})

	if len(swings) > maxExtremeLevels {
		swings = swings[:maxExtremeLevels]
	}

	sort.SliceStable(swings, func(i, j int) bool {
		return swings[i].index > swings[j].index
	})

	if len(swings) > reportedLevels {
		swings = swings[:reportedLevels]
	}

	out := make([]float64, len(swings))
	for i, s := range swings {
		out[i] = s.price
	}

	return out
}

// NearestSupport returns the closest reported support below price.
func (l Levels) NearestSupport(price float64) (float64, bool) {
	best := 0.0
	found := false

	for _, s := range l.Support {
		if s < price && (!found || s > best) {
			best = s
			found = true
		}
	}

	return best, found
}

// NearestResistance returns the closest reported resistance above price.
func (l Levels) NearestResistance(price float64) (float64, bool) {
	best := 0.0
	found := false

	for _, r := range l.Resistance {
		if r > price && (!found || r < best) {
			best = r
			found = true
		}
	}

	return best, found
}
