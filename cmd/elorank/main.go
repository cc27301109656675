// Command elorank runs an interactive ranking session: it shows two items,
// asks which one is better and keeps the Elo ratings on disk.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/elorank/internal/adapters/console"
	app "github.com/okian/elorank/internal/app"
	"github.com/okian/elorank/internal/config"
	"github.com/okian/elorank/pkg/logger"
)

func main() {
	// A missing .env is fine; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Logs go to stderr so the prompt owns stdout.
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// The prompt may be blocked on stdin; a second signal terminates.
		<-ctx.Done()
		stop()
	}()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}

// run starts the service over the given terminal streams and blocks until
// the session ends.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(cfg,
		app.WithLogger(log),
		app.WithOutcomeSource(console.NewJudge(in, out)),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return err
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			log.Error(ctx, "failed to stop service", logger.Error(err))
		}
	}()

	if err := svc.Run(ctx); err != nil {
		log.Error(ctx, "session ended with error", logger.Error(err))
		return err
	}
	return nil
}
