package costmodel

// Model prices the friction of one round trip: commission plus slippage,
// in the account currency.
type Model interface {
	// Cost returns the total charge for a trade entered at entryPrice and
	// exited at exitPrice with the given quantity.
	Cost(entryPrice, exitPrice, quantity float64) float64
}

// Name selects a cost model in the engine configuration.
type Name string

const (
	NamePercent Name = "percent"
	NameZero    Name = "zero"
)

// AllNames lists the selectable cost models, for schema generation.
var AllNames = []any{
	NamePercent,
	NameZero,
}

// GetModel returns the named model. Unknown names fall back to the
// percent model so misconfiguration never silently removes costs.
func GetModel(name Name, commissionRate, slippageRate float64) Model {
	switch name {
	case NameZero:
		return NewZeroModel()
	case NamePercent:
		return NewPercentModel(commissionRate, slippageRate)
	default:
		return NewPercentModel(commissionRate, slippageRate)
	}
}
