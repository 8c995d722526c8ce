package costmodel

// ZeroModel charges nothing. Useful for isolating rule behavior from
// friction in tests and experiments.
type ZeroModel struct{}

// NewZeroModel creates a zero cost model.
func NewZeroModel() Model {
	return &ZeroModel{}
}

// Cost returns 0 for any trade.
func (m *ZeroModel) Cost(entryPrice, exitPrice, quantity float64) float64 {
	return 0.0
}
