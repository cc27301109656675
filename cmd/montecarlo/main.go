// Command montecarlo measures how the pair-selection heuristics converge on a
// synthetic ground truth and prints one summary row per configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/elorank/internal/config"
	"github.com/okian/elorank/internal/simulation"
	"github.com/okian/elorank/pkg/logger"
	"github.com/okian/elorank/pkg/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}
	// Logs go to stderr; stdout carries the summary table.
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Flags override the loaded configuration.
	var (
		items       = flag.Int("items", cfg.SimItems, "Number of items in the synthetic ground truth")
		comparisons = flag.Int("comparisons", cfg.SimComparisons, "Comparisons per simulation")
		simulations = flag.Int("simulations", cfg.SimSimulations, "Simulations per configuration")
		top         = flag.Int("top", cfg.SimTop, "Score only the first N ground-truth items (-1 for all)")
		workers     = flag.Int("workers", cfg.SimWorkers, "Simulations run in parallel")
		seed        = flag.Int64("seed", cfg.Seed, "Base seed (0 seeds from the clock)")
		metricsFile = flag.String("metrics", cfg.MetricsFile, "Write a Prometheus textfile here on completion")
	)
	flag.Parse()

	cfg.SimItems = *items
	cfg.SimComparisons = *comparisons
	cfg.SimSimulations = *simulations
	cfg.SimTop = *top
	cfg.SimWorkers = *workers
	cfg.Seed = *seed
	cfg.MetricsFile = *metricsFile

	if err := run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("monte carlo failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// groundTruth names n synthetic items, best first.
func groundTruth(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i)
	}
	return out
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eval := simulation.New(
		simulation.WithTop(cfg.SimTop),
		simulation.WithWorkers(cfg.SimWorkers),
		simulation.WithSeed(seed),
		simulation.WithLogger(log.Named("simulation")),
	)

	log.Info(ctx, "running monte carlo comparison",
		logger.Int("items", cfg.SimItems),
		logger.Int("comparisons", cfg.SimComparisons),
		logger.Int("simulations", cfg.SimSimulations),
		logger.Int("top", cfg.SimTop),
		logger.Int64("seed", seed))

	reports, err := eval.Compare(ctx, groundTruth(cfg.SimItems), cfg.SimComparisons, cfg.SimSimulations)
	if err != nil {
		return err
	}
	if err := render(out, reports); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		path := cfg.Path(cfg.MetricsFile)
		if err := metrics.WriteTextfile(path); err != nil {
			return err
		}
		log.Info(ctx, "metrics written", logger.String("path", path))
	}
	return nil
}

// render prints one row per configuration; t is Welch's t against the
// uniform baseline, which is always the first report.
func render(out io.Writer, reports []simulation.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "config\tavg mean\tavg sd\tmax mean\tmax sd\tt vs uniform")
	for _, r := range reports {
		t := simulation.WelchT(r.Average, reports[0].Average)
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.2f\n",
			r.Params.Label(), r.Average.Mean, r.Average.StdDev, r.Max.Mean, r.Max.StdDev, t)
	}
	return tw.Flush()
}
