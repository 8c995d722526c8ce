// Package signal combines indicator readings and detected patterns into a
// scored trading decision with entry, stop and target levels.
package signal

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/quantsim-lab/quantsim/internal/indicator"
	"github.com/quantsim-lab/quantsim/internal/logger"
	"github.com/quantsim-lab/quantsim/internal/pattern"
	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

const (
	// warmupBars is the minimum series length: the slow moving average
	// dominates every other look-back used here.
	warmupBars = 50

	fastSMAPeriod = 20
	slowSMAPeriod = 50

	rsiOversold   = 30.0
	rsiOverbought = 70.0

	buyThreshold  = 0.65
	sellThreshold = 0.35

	patternWeight = 3.0

	stopATRMultiple   = 2.0
	targetATRMultiple = 3.0
)

// Generator produces one Signal per evaluation from a bar series.
// It is deterministic given the same inputs; no randomness is consulted.
type Generator struct {
	log      *logger.Logger
	detector *pattern.Detector
	registry indicator.IndicatorRegistry
}

// NewGenerator creates a signal generator backed by the given indicator
// registry.
func NewGenerator(log *logger.Logger, registry indicator.IndicatorRegistry) *Generator {
	return &Generator{
		log:      log,
		detector: pattern.NewDetector(),
		registry: registry,
	}
}

// Generate evaluates the series and returns exactly one signal.
func (g *Generator) Generate(symbol string, bars types.Series, timeframe string) (types.Signal, error) {
	if len(bars) < warmupBars {
		return types.Signal{}, errors.NewInsufficientDataErrorf(warmupBars, len(bars), symbol,
			"signal generation needs %d bars, have %d", warmupBars, len(bars))
	}

	closes := bars.Closes()
	price := closes[len(closes)-1]

	rsiInd, err := g.registry.GetIndicator(types.IndicatorTypeRSI)
	if err != nil {
		return types.Signal{}, err
	}

	rsiSeries, err := rsiInd.Compute(bars)
	if err != nil {
		return types.Signal{}, err
	}

	rsi := rsiSeries[len(rsiSeries)-1]

	macd, err := indicator.MACD(closes, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	if err != nil {
		return types.Signal{}, err
	}

	sma20, err := indicator.SMA(closes, fastSMAPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	sma50, err := indicator.SMA(closes, slowSMAPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	patterns := g.detector.Detect(bars)
	levels := FindLevels(bars)

	var bullish, bearish float64

	reasons := []string{}

	// Oscillator extremes
	switch {
	case rsi < rsiOversold:
		bullish += 2
		reasons = append(reasons, fmt.Sprintf("RSI oversold at %.1f", rsi))
	case rsi > rsiOverbought:
		bearish += 2
		reasons = append(reasons, fmt.Sprintf("RSI overbought at %.1f", rsi))
	}

	// MACD line relative to its signal line; the tails of both series are
	// aligned to the final bar.
	macdLine := macd.MACDLine[len(macd.MACDLine)-1]
	signalLine := macd.SignalLine[len(macd.SignalLine)-1]

	if macdLine > signalLine {
		bullish++
		reasons = append(reasons, fmt.Sprintf("MACD line %.4f above signal %.4f", macdLine, signalLine))
	} else {
		bearish++
		reasons = append(reasons, fmt.Sprintf("MACD line %.4f below signal %.4f", macdLine, signalLine))
	}

	// Moving average stack
	fast := sma20[len(sma20)-1]
	slow := sma50[len(sma50)-1]

	switch {
	case price > fast && fast > slow:
		bullish += 2
		reasons = append(reasons, fmt.Sprintf("price %.2f above SMA20 %.2f above SMA50 %.2f", price, fast, slow))
	case price < fast && fast < slow:
		bearish += 2
		reasons = append(reasons, fmt.Sprintf("price %.2f below SMA20 %.2f below SMA50 %.2f", price, fast, slow))
	}

	// Pattern contributions
	for _, p := range patterns {
		switch p.Direction {
		case types.DirectionBullish:
			bullish += p.Confidence * patternWeight
			reasons = append(reasons, fmt.Sprintf("bullish pattern %s (confidence %.2f)", p.Name, p.Confidence))
		case types.DirectionBearish:
			bearish += p.Confidence * patternWeight
			reasons = append(reasons, fmt.Sprintf("bearish pattern %s (confidence %.2f)", p.Name, p.Confidence))
		case types.DirectionNeutral:
			reasons = append(reasons, fmt.Sprintf("neutral pattern %s noted", p.Name))
		}
	}

	total := bullish + bearish

	bullishFraction := 0.0
	if total > 0 {
		bullishFraction = bullish / total
	}

	decision := types.DecisionHold
	strength := bullishFraction * 100

	switch {
	case bullishFraction > buyThreshold:
		decision = types.DecisionBuy
	case bullishFraction < sellThreshold:
		decision = types.DecisionSell
		strength = (1 - bullishFraction) * 100
	}

	confidence := math.Min(total/10, 1)

	atrInd, err := g.registry.GetIndicator(types.IndicatorTypeATR)
	if err != nil {
		return types.Signal{}, err
	}

	atrSeries, err := atrInd.Compute(bars)
	if err != nil {
		return types.Signal{}, err
	}

	atr := atrSeries[len(atrSeries)-1]
	stop, target := g.protectiveLevels(decision, price, atr, levels)

	sig := types.Signal{
		Symbol:      symbol,
		Decision:    decision,
		Strength:    strength,
		Confidence:  confidence,
		Entry:       price,
		StopLoss:    stop,
		TakeProfit:  target,
		Timeframe:   timeframe,
		Reasons:     reasons,
		GeneratedAt: bars[len(bars)-1].Time,
	}

	g.log.Debug("signal generated",
		zap.String("symbol", symbol),
		zap.String("decision", string(decision)),
		zap.Float64("strength", strength),
		zap.Float64("confidence", confidence),
	)

	return sig, nil
}

// protectiveLevels sizes the stop and target from the ATR, clamped to the
// nearest support and resistance when present. HOLD uses the long-side
// geometry so callers still get sane reference levels.
func (g *Generator) protectiveLevels(decision types.Decision, entry, atr float64, levels Levels) (stop, target float64) {
	if decision == types.DecisionSell {
		stop = entry + stopATRMultiple*atr
		if resistance, ok := levels.NearestResistance(entry); ok {
			stop = math.Min(stop, resistance)
		} else {
			stop = math.Min(stop, entry*1.05)
		}

		target = entry - targetATRMultiple*atr
		if support, ok := levels.NearestSupport(entry); ok {
			target = math.Max(target, support)
		} else {
			target = math.Max(target, entry*0.90)
		}

		return stop, target
	}

	stop = entry - stopATRMultiple*atr
	if support, ok := levels.NearestSupport(entry); ok {
		stop = math.Max(stop, support)
	} else {
		stop = math.Max(stop, entry*0.95)
	}

	target = entry + targetATRMultiple*atr
	if resistance, ok := levels.NearestResistance(entry); ok {
		target = math.Min(target, resistance)
	} else {
		target = math.Min(target, entry*1.10)
	}

	return stop, target
}
