package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v2"

	"github.com/quantsim-lab/quantsim/internal/backtest/engine/engine_v1/costmodel"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

// BacktestEngineV1Config carries the run parameters of one backtest.
type BacktestEngineV1Config struct {
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest,minimum=0" validate:"required,gt=0"`
	CommissionRate float64                    `yaml:"commission_rate" json:"commission_rate" jsonschema:"title=Commission Rate,description=Per-leg commission as a fraction of notional,minimum=0" validate:"gte=0,lt=1"`
	SlippageRate   float64                    `yaml:"slippage_rate" json:"slippage_rate" jsonschema:"title=Slippage Rate,description=Per-leg slippage as a fraction of notional,minimum=0" validate:"gte=0,lt=1"`
	CostModel      costmodel.Name             `yaml:"cost_model" json:"cost_model" jsonschema:"title=Cost Model,description=How commission and slippage are charged"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
// so absent times map to optional.None.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital float64        `yaml:"initial_capital"`
		CommissionRate float64        `yaml:"commission_rate"`
		SlippageRate   float64        `yaml:"slippage_rate"`
		CostModel      costmodel.Name `yaml:"cost_model"`
		StartTime      *time.Time     `yaml:"start_time"`
		EndTime        *time.Time     `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.CommissionRate = config.CommissionRate
	c.SlippageRate = config.SlippageRate
	c.CostModel = config.CostModel

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// ParseConfig parses and validates YAML engine configuration content.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// Validate checks the config against its declared constraints.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid engine config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "start_time must be before end_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config.
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "costmodel.Name") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: costmodel.AllNames,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config.
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns a config with zero friction and no date filter.
// InitialCapital must still be supplied by the caller.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		CommissionRate: 0,
		SlippageRate:   0,
		CostModel:      costmodel.NameZero,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}

// TestConfig returns a ready-to-run config used across the test suites.
func TestConfig(initialCapital float64) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: initialCapital,
		CommissionRate: 0,
		SlippageRate:   0,
		CostModel:      costmodel.NameZero,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}
