package engine

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quantsim-lab/quantsim/internal/backtest/engine"
	"github.com/quantsim-lab/quantsim/internal/backtest/engine/engine_v1/costmodel"
	"github.com/quantsim-lab/quantsim/internal/logger"
	"github.com/quantsim-lab/quantsim/internal/strategy"
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const (
	tradingDaysPerYear = 252.0
	daysPerYear        = 365.0
)

// BacktestEngineV1 replays one strategy over the loaded bar series, one
// symbol at a time, and merges the resulting trades into a single ledger.
type BacktestEngineV1 struct {
	config         BacktestEngineV1Config
	log            *logger.Logger
	repository     strategy.Repository
	confidence     strategy.ConfidenceProvider
	strategyConfig *types.StrategyConfig
	bars           map[string]types.Series
	costs          costmodel.Model
	initialized    bool
}

// NewBacktestEngineV1 creates an engine resolving strategy ids against
// the given catalog. The confidence provider gates discretionary
// entries; pass strategy.StaticConfidence(1) for fully deterministic
// runs.
func NewBacktestEngineV1(log *logger.Logger, repository strategy.Repository, confidence strategy.ConfidenceProvider) engine.Engine {
	return &BacktestEngineV1{
		config:         DefaultConfig(),
		log:            log,
		repository:     repository,
		confidence:     confidence,
		strategyConfig: nil,
		bars:           make(map[string]types.Series),
		costs:          costmodel.NewZeroModel(),
		initialized:    false,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed
	b.costs = costmodel.GetModel(parsed.CostModel, parsed.CommissionRate, parsed.SlippageRate)
	b.initialized = true

	b.log.Info("backtest engine initialized",
		zap.Float64("initial_capital", parsed.InitialCapital),
		zap.String("cost_model", string(parsed.CostModel)),
	)

	return nil
}

// SetStrategy implements engine.Engine.
func (b *BacktestEngineV1) SetStrategy(id string) error {
	if b.repository == nil {
		return errors.New(errors.ErrCodeBacktestNoStrategy, "engine has no strategy catalog")
	}

	cfg, err := b.repository.GetStrategy(id)
	if err != nil {
		return err
	}

	b.strategyConfig = &cfg

	return nil
}

// SetStrategyConfig implements engine.Engine.
func (b *BacktestEngineV1) SetStrategyConfig(cfg types.StrategyConfig) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy config", err)
	}

	b.strategyConfig = &cfg

	return nil
}

// SetBars implements engine.Engine.
func (b *BacktestEngineV1) SetBars(symbol string, bars types.Series) error {
	if err := bars.Validate(); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid series for %s", symbol)
	}

	b.bars[symbol] = bars

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, onProcessData optional.Option[engine.OnProcessDataCallback]) (*types.BacktestResult, error) {
	if !b.initialized {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "engine is not initialized")
	}

	if b.strategyConfig == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy selected")
	}

	rule, err := strategy.NewRule(*b.strategyConfig, b.confidence)
	if err != nil {
		return nil, err
	}

	// Resolve the series each requested symbol will replay up front, so
	// data problems surface before any trade is simulated.
	symbols := []string{}
	series := map[string]types.Series{}
	total := 0

	for _, symbol := range b.strategyConfig.Symbols {
		bars, ok := b.bars[symbol]
		if !ok {
			b.log.Warn("no bars loaded for symbol, skipping", zap.String("symbol", symbol))
			continue
		}

		filtered := b.filterWindow(bars)

		// Two bars beyond warmup: the earliest decision bar still needs a
		// next-open entry fill and a bar after that to exit on.
		need := rule.WarmupBars() + 2
		if len(filtered) < need {
			return nil, errors.NewInsufficientDataErrorf(need, len(filtered), symbol,
				"series for %s has %d bars, rule needs %d", symbol, len(filtered), need)
		}

		symbols = append(symbols, symbol)
		series[symbol] = filtered
		total += len(filtered)
	}

	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoBars, "no bars loaded for any requested symbol")
	}

	processed := 0
	progress := func() error {
		processed++

		if onProcessData.IsSome() {
			return onProcessData.Unwrap()(processed, total)
		}

		return nil
	}

	trades := []types.Trade{}

	for _, symbol := range symbols {
		symbolTrades, err := b.runSymbol(ctx, rule, symbol, series[symbol], progress)
		if err != nil {
			return nil, err
		}

		trades = append(trades, symbolTrades...)
	}

	// Merge the independent per-symbol ledgers chronologically by entry.
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].EntryTime.Equal(trades[j].EntryTime) {
			return trades[i].Symbol < trades[j].Symbol
		}

		return trades[i].EntryTime.Before(trades[j].EntryTime)
	})

	result := b.buildResult(trades, series, symbols)

	b.log.Info("backtest run complete",
		zap.String("run_id", result.ID),
		zap.String("strategy", result.StrategyID),
		zap.Int("trades", result.TradeCount),
		zap.Float64("total_return", result.TotalReturn),
	)

	return result, nil
}

// position is one open holding during a symbol replay.
type position struct {
	side       types.Side
	entryIndex int
	entryPrice float64
	quantity   float64
	// bestPrice tracks the most favorable close since entry, for the
	// trailing stop.
	bestPrice float64
}

// runSymbol replays one symbol through the two-state machine. Entry and
// exit decisions made on bar i fill at bar i+1's open, never at bar i's
// own close, which keeps fills free of look-ahead. A position still open
// on the final bar is liquidated at that bar's close.
func (b *BacktestEngineV1) runSymbol(ctx context.Context, rule strategy.Rule, symbol string, bars types.Series, progress func() error) ([]types.Trade, error) {
	trades := []types.Trade{}

	var pos *position

	pendingEntry := false
	pendingSide := types.SideLong
	pendingExit := false
	pendingReason := types.ExitReasonTakeProfit

	last := len(bars) - 1

	for i := 0; i <= last; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := progress(); err != nil {
			return nil, err
		}

		bar := bars[i]

		// Fills scheduled on the previous bar execute at this bar's open.
		switch {
		case pendingEntry:
			pos = &position{
				side:       pendingSide,
				entryIndex: i,
				entryPrice: bar.Open,
				quantity:   b.config.InitialCapital / bar.Open,
				bestPrice:  bar.Open,
			}
			pendingEntry = false
		case pendingExit && pos != nil:
			trades = append(trades, b.closeTrade(symbol, pos, bars, i, bar.Open, pendingReason))
			pos = nil
			pendingExit = false
		}

		if i == last {
			if pos != nil {
				trades = append(trades, b.closeTrade(symbol, pos, bars, i, bar.Close, types.ExitReasonEndOfData))
				pos = nil
			}

			break
		}

		if pos != nil {
			if pos.side == types.SideLong && bar.Close > pos.bestPrice {
				pos.bestPrice = bar.Close
			}

			if pos.side == types.SideShort && bar.Close < pos.bestPrice {
				pos.bestPrice = bar.Close
			}

			if reason, exit := b.checkExit(rule, pos, bars, i); exit {
				pendingExit = true
				pendingReason = reason
			}

			continue
		}

		if side, ok := rule.CheckEntry(bars, i); ok {
			pendingEntry = true
			pendingSide = side
		}
	}

	return trades, nil
}

// checkExit evaluates the exits against bar i's close, most specific
// first: profit target, protective stop, trailing stop, holding limit,
// then the rule's own unwind condition.
func (b *BacktestEngineV1) checkExit(rule strategy.Rule, pos *position, bars types.Series, i int) (types.ExitReason, bool) {
	cfg := b.strategyConfig
	closePrice := bars[i].Close
	long := pos.side == types.SideLong

	if cfg.TakeProfitPct > 0 {
		if long && closePrice >= pos.entryPrice*(1+cfg.TakeProfitPct) {
			return types.ExitReasonTakeProfit, true
		}

		if !long && closePrice <= pos.entryPrice*(1-cfg.TakeProfitPct) {
			return types.ExitReasonTakeProfit, true
		}
	}

	if cfg.StopLossPct > 0 {
		if long && closePrice <= pos.entryPrice*(1-cfg.StopLossPct) {
			return types.ExitReasonStopLoss, true
		}

		if !long && closePrice >= pos.entryPrice*(1+cfg.StopLossPct) {
			return types.ExitReasonStopLoss, true
		}
	}

	if cfg.TrailingStopPct.IsSome() {
		trail := cfg.TrailingStopPct.Unwrap()

		if long && closePrice <= pos.bestPrice*(1-trail) {
			return types.ExitReasonStopLoss, true
		}

		if !long && closePrice >= pos.bestPrice*(1+trail) {
			return types.ExitReasonStopLoss, true
		}
	}

	if cfg.MaxHoldBars.IsSome() && i-pos.entryIndex >= cfg.MaxHoldBars.Unwrap() {
		return types.ExitReasonTimeExit, true
	}

	if rule.CheckUnwind(bars, i, pos.side) {
		return types.ExitReasonMeanReversion, true
	}

	return "", false
}

// closeTrade realizes the position at exitPrice on bar exitIndex,
// charging the configured cost model.
func (b *BacktestEngineV1) closeTrade(symbol string, pos *position, bars types.Series, exitIndex int, exitPrice float64, reason types.ExitReason) types.Trade {
	pnl := (exitPrice - pos.entryPrice) * pos.quantity
	if pos.side == types.SideShort {
		pnl = -pnl
	}

	pnl -= b.costs.Cost(pos.entryPrice, exitPrice, pos.quantity)

	notional := pos.entryPrice * pos.quantity

	pnlPercent := 0.0
	if notional > 0 {
		pnlPercent = pnl / notional * 100
	}

	entryTime := bars[pos.entryIndex].Time
	exitTime := bars[exitIndex].Time

	return types.Trade{
		Symbol:      symbol,
		Side:        pos.side,
		EntryTime:   entryTime,
		ExitTime:    exitTime,
		EntryPrice:  pos.entryPrice,
		ExitPrice:   exitPrice,
		Quantity:    pos.quantity,
		PnL:         pnl,
		PnLPercent:  pnlPercent,
		HoldingBars: exitIndex - pos.entryIndex,
		Holding:     exitTime.Sub(entryTime),
		ExitReason:  reason,
	}
}

// filterWindow restricts a series to the configured backtest period.
func (b *BacktestEngineV1) filterWindow(bars types.Series) types.Series {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return bars
	}

	out := types.Series{}

	for _, bar := range bars {
		if b.config.StartTime.IsSome() && bar.Time.Before(b.config.StartTime.Unwrap()) {
			continue
		}

		if b.config.EndTime.IsSome() && bar.Time.After(b.config.EndTime.Unwrap()) {
			continue
		}

		out = append(out, bar)
	}

	return out
}

// buildResult derives the equity curve and summary scalars from the
// merged ledger. Equity is accumulated in decimals so the ledger sum
// reconciles exactly with finalEquity - initialCapital.
func (b *BacktestEngineV1) buildResult(trades []types.Trade, series map[string]types.Series, symbols []string) *types.BacktestResult {
	initial := b.config.InitialCapital

	equity := decimal.NewFromFloat(initial)
	peak := equity

	maxDrawdown := 0.0
	curve := make([]types.EquityPoint, 0, len(trades))
	monthly := map[string]float64{}

	wins := 0
	grossProfit := 0.0
	grossLoss := 0.0

	for _, t := range trades {
		equity = equity.Add(decimal.NewFromFloat(t.PnL))

		drawdown := 0.0

		if equity.GreaterThan(peak) {
			peak = equity
		} else if peak.IsPositive() {
			drawdown, _ = peak.Sub(equity).Div(peak).Float64()
		}

		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}

		eq, _ := equity.Float64()
		curve = append(curve, types.EquityPoint{Time: t.ExitTime, Equity: eq, Drawdown: drawdown})

		monthly[t.ExitTime.Format("2006-01")] += t.PnL

		if t.IsWin() {
			wins++
			grossProfit += t.PnL
		} else {
			grossLoss += -t.PnL
		}
	}

	final, _ := equity.Float64()

	start := series[symbols[0]][0].Time
	end := series[symbols[0]][len(series[symbols[0]])-1].Time

	for _, symbol := range symbols {
		s := series[symbol]

		if s[0].Time.Before(start) {
			start = s[0].Time
		}

		if s[len(s)-1].Time.After(end) {
			end = s[len(s)-1].Time
		}
	}

	days := end.Sub(start).Hours() / 24
	if days < 1 {
		days = 1
	}

	totalReturn := (final - initial) / initial * 100

	annualized := -100.0
	if ratio := final / initial; ratio > 0 {
		annualized = (math.Pow(ratio, daysPerYear/days) - 1) * 100
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades))
	}

	// No recorded losses reports 0 rather than infinity.
	profitFactor := 0.0
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}

	return &types.BacktestResult{
		ID:               uuid.New().String(),
		StrategyID:       b.strategyConfig.ID,
		StartTime:        start,
		EndTime:          end,
		InitialCapital:   initial,
		FinalEquity:      final,
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualized,
		MaxDrawdown:      maxDrawdown,
		Sharpe:           tradeSharpe(trades),
		WinRate:          winRate,
		ProfitFactor:     profitFactor,
		TradeCount:       len(trades),
		Trades:           trades,
		EquityCurve:      curve,
		MonthlyReturns:   monthly,
	}
}

// tradeSharpe approximates a Sharpe ratio from the per-trade percentage
// returns, annualized with sqrt(252). Zero spread reports 0.
func tradeSharpe(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	mean := 0.0
	for _, t := range trades {
		mean += t.PnLPercent
	}

	mean /= float64(len(trades))

	variance := 0.0
	for _, t := range trades {
		d := t.PnLPercent - mean
		variance += d * d
	}

	variance /= float64(len(trades))
	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
