package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v2"

	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// StrategyKind selects the entry rule family of a strategy.
type StrategyKind string

const (
	StrategyKindSMACrossover  StrategyKind = "sma_crossover"
	StrategyKindRSIReversion  StrategyKind = "rsi_reversion"
	StrategyKindBreakout      StrategyKind = "breakout"
	StrategyKindMeanReversion StrategyKind = "mean_reversion"
)

// StrategyConfig describes one strategy: its entry rule parameters and
// exit predicate parameters. Supplied by a strategy catalog collaborator
// and read-only to the core.
type StrategyConfig struct {
	// ID uniquely identifies the strategy in the catalog.
	ID string `yaml:"id" json:"id" validate:"required"`
	// Kind selects the entry rule implementation.
	Kind StrategyKind `yaml:"kind" json:"kind" validate:"required"`
	// Params holds entry rule parameters keyed by name (periods, thresholds).
	Params map[string]float64 `yaml:"params" json:"params"`
	// TakeProfitPct closes the position when the favorable move exceeds
	// this fraction of the entry price (0.02 = 2%).
	TakeProfitPct float64 `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gte=0"`
	// StopLossPct closes the position when the adverse move exceeds this
	// fraction of the entry price.
	StopLossPct float64 `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gte=0"`
	// MaxHoldBars closes the position after this many bars when set.
	MaxHoldBars optional.Option[int] `yaml:"-" json:"max_hold_bars,omitempty"`
	// TrailingStopPct trails the stop behind the best price seen when set.
	TrailingStopPct optional.Option[float64] `yaml:"-" json:"trailing_stop_pct,omitempty"`
	// Symbols lists the instruments the strategy trades.
	Symbols []string `yaml:"symbols" json:"symbols" validate:"min=1"`
	// Timeframe tags the bar interval the strategy expects.
	Timeframe string `yaml:"timeframe" json:"timeframe"`
}

// UnmarshalYAML implements custom unmarshaling so optional fields map to
// optional.Option values.
func (c *StrategyConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		ID              string             `yaml:"id"`
		Kind            StrategyKind       `yaml:"kind"`
		Params          map[string]float64 `yaml:"params"`
		TakeProfitPct   float64            `yaml:"take_profit_pct"`
		StopLossPct     float64            `yaml:"stop_loss_pct"`
		MaxHoldBars     *int               `yaml:"max_hold_bars"`
		TrailingStopPct *float64           `yaml:"trailing_stop_pct"`
		Symbols         []string           `yaml:"symbols"`
		Timeframe       string             `yaml:"timeframe"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.ID = config.ID
	c.Kind = config.Kind
	c.Params = config.Params
	c.TakeProfitPct = config.TakeProfitPct
	c.StopLossPct = config.StopLossPct
	c.Symbols = config.Symbols
	c.Timeframe = config.Timeframe

	if config.MaxHoldBars != nil {
		c.MaxHoldBars = optional.Some(*config.MaxHoldBars)
	} else {
		c.MaxHoldBars = optional.None[int]()
	}

	if config.TrailingStopPct != nil {
		c.TrailingStopPct = optional.Some(*config.TrailingStopPct)
	} else {
		c.TrailingStopPct = optional.None[float64]()
	}

	return nil
}

// ParseStrategyConfig parses and validates a YAML strategy configuration.
func ParseStrategyConfig(content string) (StrategyConfig, error) {
	var config StrategyConfig
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return StrategyConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse strategy config", err)
	}

	if err := config.Validate(); err != nil {
		return StrategyConfig{}, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags.
func (c *StrategyConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid strategy config %q", c.ID)
	}

	return nil
}

// Param returns the named entry rule parameter or the given default.
func (c *StrategyConfig) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}

	return def
}
