package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	backtestengine "github.com/quantsim-lab/quantsim/internal/backtest/engine"
	enginev1 "github.com/quantsim-lab/quantsim/internal/backtest/engine/engine_v1"
	"github.com/quantsim-lab/quantsim/internal/datasource"
	"github.com/quantsim-lab/quantsim/internal/logger"
	"github.com/quantsim-lab/quantsim/internal/metrics"
	"github.com/quantsim-lab/quantsim/internal/optimizer"
	"github.com/quantsim-lab/quantsim/internal/strategy"
	"github.com/quantsim-lab/quantsim/internal/types"
)

// catalogFile is the YAML layout of the --strategies file.
type catalogFile struct {
	Strategies []types.StrategyConfig `yaml:"strategies"`
}

func loadCatalog(path string) (*strategy.InMemoryRepository, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategies file: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse strategies file: %w", err)
	}

	repo := strategy.NewInMemoryRepository()

	for _, cfg := range catalog.Strategies {
		if err := repo.AddStrategy(cfg); err != nil {
			return nil, fmt.Errorf("failed to register strategy %q: %w", cfg.ID, err)
		}
	}

	return repo, nil
}

// parseRanges turns repeated --range name=min:max:step flags into the
// optimizer's parameter grid.
func parseRanges(specs []string) (map[string]optimizer.ParamRange, error) {
	ranges := make(map[string]optimizer.ParamRange, len(specs))

	for _, spec := range specs {
		name, bounds, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid range %q, expected name=min:max:step", spec)
		}

		parts := strings.Split(bounds, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid range %q, expected name=min:max:step", spec)
		}

		values := make([]float64, 3)

		for i, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q in range %q: %w", part, spec, err)
			}

			values[i] = v
		}

		ranges[name] = optimizer.ParamRange{Min: values[0], Max: values[1], Step: values[2]}
	}

	return ranges, nil
}

func engineConfig(cmd *cli.Command) (string, error) {
	if path := cmd.String("engine-config"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read engine config: %w", err)
		}

		return string(content), nil
	}

	return fmt.Sprintf("initial_capital: %v\ncost_model: zero\n", cmd.Float64("initial-capital")), nil
}

func confidenceProvider(cmd *cli.Command) strategy.ConfidenceProvider {
	if seed := cmd.Int("confidence-seed"); seed != 0 {
		return strategy.NewRandomConfidence(int64(seed))
	}

	return strategy.StaticConfidence(1)
}

func loadBars(ds datasource.DataSource, symbols []string) (map[string]types.Series, error) {
	bars := make(map[string]types.Series, len(symbols))

	for _, symbol := range symbols {
		series, err := ds.ReadSeries(symbol, optional.None[time.Time](), optional.None[time.Time]())
		if err != nil {
			return nil, err
		}

		bars[symbol] = series
	}

	return bars, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	lg, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	repo, err := loadCatalog(cmd.String("strategies"))
	if err != nil {
		return err
	}

	strategyID := cmd.String("strategy")

	cfg, err := repo.GetStrategy(strategyID)
	if err != nil {
		return err
	}

	ds, err := datasource.NewDataSource("", lg)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := ds.Initialize(cmd.String("data")); err != nil {
		return err
	}

	bars, err := loadBars(ds, cfg.Symbols)
	if err != nil {
		return err
	}

	engineCfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}

	confidence := confidenceProvider(cmd)

	if cmd.Bool("optimize") {
		return runOptimize(ctx, cmd, lg, repo, confidence, engineCfg, strategyID, bars)
	}

	return runBacktest(ctx, cmd, lg, repo, confidence, engineCfg, strategyID, bars)
}

func runBacktest(ctx context.Context, cmd *cli.Command, lg *logger.Logger, repo strategy.Repository, confidence strategy.ConfidenceProvider, engineCfg, strategyID string, bars map[string]types.Series) error {
	e := enginev1.NewBacktestEngineV1(lg, repo, confidence)

	if err := e.Initialize(engineCfg); err != nil {
		return err
	}

	if err := e.SetStrategy(strategyID); err != nil {
		return err
	}

	for symbol, series := range bars {
		if err := e.SetBars(symbol, series); err != nil {
			return err
		}
	}

	var bar *progressbar.ProgressBar

	progress := backtestengine.OnProcessDataCallback(func(current, total int) error {
		if bar == nil {
			bar = progressbar.Default(int64(total))
			bar.Describe(fmt.Sprintf("Backtesting %s", strategyID))
		}

		return bar.Set(current)
	})

	result, err := e.Run(ctx, optional.Some(progress))
	if err != nil {
		return err
	}

	printResult(result, metrics.Calculate(result))

	if output := cmd.String("output"); output != "" {
		if err := types.WriteBacktestResult(output, result); err != nil {
			return err
		}

		fmt.Printf("Result written to %s\n", output)
	}

	return nil
}

func runOptimize(ctx context.Context, cmd *cli.Command, lg *logger.Logger, repo strategy.Repository, confidence strategy.ConfidenceProvider, engineCfg, strategyID string, bars map[string]types.Series) error {
	ranges, err := parseRanges(cmd.StringSlice("range"))
	if err != nil {
		return err
	}

	o := optimizer.NewOptimizer(lg, repo, confidence, engineCfg)
	o.SetMaxCombinations(int(cmd.Int("max-combinations")))

	for symbol, series := range bars {
		if err := o.SetBars(symbol, series); err != nil {
			return err
		}
	}

	sweep, err := o.Run(ctx, strategyID, ranges)
	if err != nil {
		return err
	}

	fmt.Printf("Evaluated %d combinations\n", sweep.Evaluated)

	for _, warning := range sweep.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}

	fmt.Println("Best parameters:")

	params, err := yaml.Marshal(sweep.BestParams)
	if err != nil {
		return err
	}

	fmt.Print(string(params))
	printResult(sweep.BestResult, sweep.BestMetrics)

	if output := cmd.String("output"); output != "" {
		if err := types.WriteBacktestResult(output, sweep.BestResult); err != nil {
			return err
		}

		fmt.Printf("Best result written to %s\n", output)
	}

	return nil
}

func printResult(result *types.BacktestResult, m types.Metrics) {
	fmt.Printf("Run %s (%s)\n", result.ID, result.StrategyID)
	fmt.Printf("  Period:             %s - %s\n", result.StartTime.Format("2006-01-02"), result.EndTime.Format("2006-01-02"))
	fmt.Printf("  Trades:             %d\n", result.TradeCount)
	fmt.Printf("  Total return:       %.2f%%\n", result.TotalReturn)
	fmt.Printf("  Annualized return:  %.2f%%\n", result.AnnualizedReturn)
	fmt.Printf("  Max drawdown:       %.2f%%\n", result.MaxDrawdown*100)
	fmt.Printf("  Sharpe:             %.3f\n", result.Sharpe)
	fmt.Printf("  Sortino:            %.3f\n", m.Sortino)
	fmt.Printf("  Calmar:             %.3f\n", m.Calmar)
	fmt.Printf("  Win rate:           %.1f%%\n", result.WinRate*100)
	fmt.Printf("  Profit factor:      %.2f\n", result.ProfitFactor)
	fmt.Printf("  VaR 95:             %.2f%%\n", m.VaR95)
	fmt.Printf("  Expected shortfall: %.2f%%\n", m.ExpectedShortfall)
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay a strategy over historical bars and report performance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the market data CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategies",
				Usage:    "Path to the YAML strategy catalog",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Strategy id to run from the catalog",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "engine-config",
				Usage: "Path to the YAML engine configuration",
			},
			&cli.Float64Flag{
				Name:  "initial-capital",
				Usage: "Starting capital when no engine config is given",
				Value: 10000,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result as YAML to this path",
			},
			&cli.BoolFlag{
				Name:  "optimize",
				Usage: "Grid-search parameters instead of a single run",
			},
			&cli.StringSliceFlag{
				Name:  "range",
				Usage: "Parameter range for --optimize as name=min:max:step (repeatable)",
			},
			&cli.IntFlag{
				Name:  "max-combinations",
				Usage: "Cap on optimizer grid size",
				Value: optimizer.DefaultMaxCombinations,
			},
			&cli.IntFlag{
				Name:  "confidence-seed",
				Usage: "Seed for the sampled entry-confidence gate, 0 keeps entries deterministic",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("backtest failed: %v", err)
	}
}
