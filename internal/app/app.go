package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mensa-backend/internal/adapter/postgres/menuentry"
	"github.com/heartmarshall/mensa-backend/internal/adapter/source"
	"github.com/heartmarshall/mensa-backend/internal/config"
	"github.com/heartmarshall/mensa-backend/internal/service/menu"
	"github.com/heartmarshall/mensa-backend/internal/transport/middleware"
	"github.com/heartmarshall/mensa-backend/internal/transport/rest"
	"golang.org/x/sync/errgroup"
)

// Run is the application entry point. It loads configuration, wires the menu
// service and serves HTTP until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("archive", cfg.Database.Enabled()),
	)

	cache, err := NewSourceCache(cfg.Source, logger)
	if err != nil {
		return err
	}

	health := rest.NewHealthHandler(BuildVersion())
	health.Register("storage", rest.PingFunc(func(context.Context) error { return cache.Ping() }))

	var archive menu.Archive
	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		archive = menuentry.New(pool)
		health.Register("database", pool)
	}

	svc := menu.NewService(logger, cache, archive, menu.Config{
		DateLayout: cfg.Source.DatePattern,
		MaxAge:     cfg.Source.MaxAge,
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newRouter(cfg, logger, svc, cache, health, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if cfg.Source.PurgeInterval > 0 {
		g.Go(func() error {
			runPurgeLoop(gctx, svc, cfg.Source.PurgeInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// NewSourceCache creates the source cache and adopts files already present
// in the storage directory.
func NewSourceCache(cfg config.SourceConfig, logger *slog.Logger) (*source.Cache, error) {
	cache, err := source.NewCache(source.Config{
		BaseURL:      cfg.BaseURL,
		StorageDir:   cfg.StorageDir,
		FetchTimeout: cfg.FetchTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	n, err := cache.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan storage dir: %w", err)
	}
	logger.Info("source cache ready",
		slog.String("storage_dir", cfg.StorageDir),
		slog.Int("adopted", n),
	)
	return cache, nil
}

type expiredPurger interface {
	PurgeExpired(ctx context.Context) int
}

// runPurgeLoop purges expired source files every interval until ctx is done.
func runPurgeLoop(ctx context.Context, p expiredPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PurgeExpired(ctx)
		}
	}
}
