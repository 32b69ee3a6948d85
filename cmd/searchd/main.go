package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saiisback/search-engine/internal/cache/memory"
	"github.com/saiisback/search-engine/internal/config"
	"github.com/saiisback/search-engine/internal/gateway"
	"github.com/saiisback/search-engine/internal/metrics"
	"github.com/saiisback/search-engine/internal/ratelimit"
	"github.com/saiisback/search-engine/internal/repository"
	"github.com/saiisback/search-engine/internal/repository/postgres"
	"github.com/saiisback/search-engine/internal/scrape"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "searchd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	cache := memory.New(cfg.Cache.TTL)
	defer cache.Stop()

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
	defer limiter.Stop()

	scraper := scrape.New(scrape.Config{
		Timeout:   cfg.Scrape.Timeout,
		UserAgent: cfg.Scrape.UserAgent,
	}, logger)

	// The archive is optional: without DATABASE_URL the gateway serves
	// everything from live scrapes and memory.
	var archive repository.Archive
	if cfg.Database.URL != "" {
		db, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		archive = postgres.NewArchiveRepo(db)
		logger.Info("archive enabled")
	} else {
		logger.Info("no DATABASE_URL, archive disabled")
	}

	srv := gateway.New(gateway.Config{Addr: cfg.Server.Addr}, gateway.Deps{
		Logger:  logger,
		Metrics: m,
		Cache:   cache,
		Limiter: limiter,
		Scraper: scraper,
		Archive: archive,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	logger.Info("searchd started", zap.String("addr", cfg.Server.Addr))
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("searchd stopped")
	return nil
}
