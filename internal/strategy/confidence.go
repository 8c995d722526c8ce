package strategy

import "math/rand"

// ConfidenceProvider supplies the confidence reading in [0, 1] that gates
// discretionary entries. Injecting it keeps simulations deterministic
// under test while still allowing a sampled gate in exploratory runs.
type ConfidenceProvider interface {
	Confidence() float64
}

// StaticConfidence always reports the same confidence.
type StaticConfidence float64

// Confidence implements ConfidenceProvider.
func (s StaticConfidence) Confidence() float64 {
	return float64(s)
}

// RandomConfidence draws readings from a seeded generator, so two runs
// with the same seed see the same sequence.
type RandomConfidence struct {
	rng *rand.Rand
}

// NewRandomConfidence creates a RandomConfidence from the given seed.
func NewRandomConfidence(seed int64) *RandomConfidence {
	return &RandomConfidence{rng: rand.New(rand.NewSource(seed))}
}

// Confidence implements ConfidenceProvider.
func (r *RandomConfidence) Confidence() float64 {
	return r.rng.Float64()
}
