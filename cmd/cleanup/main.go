// Command cleanup removes expired menu source files from the storage
// directory and, when the archive is enabled, archived entries older than
// the configured retention. It is intended to be invoked by an external cron
// job; the server also purges source files on its own schedule.
//
// Flags:
//
//	--all  remove every source file regardless of age
//
// Exit codes: 0 = success, 1 = error, 2 = bad flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mensa-backend/internal/adapter/postgres/menuentry"
	"github.com/heartmarshall/mensa-backend/internal/app"
	"github.com/heartmarshall/mensa-backend/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run performs one cleanup and returns the process exit code. Deferred
// cleanup runs before the caller exits.
func run(args []string) int {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	all := fs.Bool("all", false, "remove every source file regardless of age")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := cleanup(ctx, cfg, *all, logger); err != nil {
		logger.Error("cleanup failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func cleanup(ctx context.Context, cfg *config.Config, all bool, logger *slog.Logger) error {
	cache, err := app.NewSourceCache(cfg.Source, logger)
	if err != nil {
		return fmt.Errorf("open source cache: %w", err)
	}

	var removed int
	if all {
		removed = cache.PurgeAll()
	} else {
		removed = cache.PurgeExpired(cfg.Source.MaxAge)
	}
	logger.Info("source files purged",
		slog.Int("removed", removed),
		slog.Bool("all", all),
		slog.Duration("max_age", cfg.Source.MaxAge),
	)

	if !cfg.Database.Enabled() {
		return nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	threshold := time.Now().Add(-cfg.Database.Retention)

	deleted, err := menuentry.New(pool).DeleteBefore(ctx, threshold)
	if err != nil {
		return fmt.Errorf("archive cleanup before %s: %w", threshold.Format(time.DateOnly), err)
	}

	logger.Info("archive cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
	return nil
}
