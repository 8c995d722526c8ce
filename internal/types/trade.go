package types

import "time"

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ExitReason explains why the simulator closed a trade.
type ExitReason string

const (
	ExitReasonTakeProfit    ExitReason = "take_profit"
	ExitReasonStopLoss      ExitReason = "stop_loss"
	ExitReasonTimeExit      ExitReason = "time_exit"
	ExitReasonMeanReversion ExitReason = "mean_reversion"
	ExitReasonEndOfData     ExitReason = "end_of_data"
)

// Trade is a single closed round trip. Trades are created only by the
// simulator and are immutable after creation.
type Trade struct {
	Symbol     string     `csv:"symbol" yaml:"symbol"`
	Side       Side       `csv:"side" yaml:"side"`
	EntryTime  time.Time  `csv:"entry_time" yaml:"entry_time"`
	ExitTime   time.Time  `csv:"exit_time" yaml:"exit_time"`
	EntryPrice float64    `csv:"entry_price" yaml:"entry_price"`
	ExitPrice  float64    `csv:"exit_price" yaml:"exit_price"`
	Quantity   float64    `csv:"quantity" yaml:"quantity"`
	// PnL is the realized profit or loss after commission and slippage.
	PnL float64 `csv:"pnl" yaml:"pnl"`
	// PnLPercent is PnL relative to the entry notional, in percent.
	PnLPercent float64 `csv:"pnl_percent" yaml:"pnl_percent"`
	// HoldingBars counts bars between entry and exit fills.
	HoldingBars int           `csv:"holding_bars" yaml:"holding_bars"`
	Holding     time.Duration `csv:"holding" yaml:"holding"`
	ExitReason  ExitReason    `csv:"exit_reason" yaml:"exit_reason"`
}

// IsWin reports whether the trade realized a positive PnL.
func (t Trade) IsWin() bool {
	return t.PnL > 0
}

// EquityPoint is one point on the realized equity curve, appended per
// closed trade.
type EquityPoint struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Equity float64   `csv:"equity" yaml:"equity"`
	// Drawdown is the fractional decline from the running equity peak.
	Drawdown float64 `csv:"drawdown" yaml:"drawdown"`
}
