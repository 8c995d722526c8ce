package costmodel

// PercentModel charges commission and slippage as a fraction of the
// traded notional on both legs.
type PercentModel struct {
	commissionRate float64
	slippageRate   float64
}

// NewPercentModel creates a percent cost model from per-leg rates.
func NewPercentModel(commissionRate, slippageRate float64) Model {
	return &PercentModel{
		commissionRate: commissionRate,
		slippageRate:   slippageRate,
	}
}

// Cost returns (commission + slippage) applied to the combined entry and
// exit notional.
func (m *PercentModel) Cost(entryPrice, exitPrice, quantity float64) float64 {
	return (m.commissionRate + m.slippageRate) * (entryPrice + exitPrice) * quantity
}
