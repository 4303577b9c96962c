package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/mbelyaev/betfeed/internal/merge"
	"github.com/mbelyaev/betfeed/internal/normalize"
	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/health"
	"github.com/mbelyaev/betfeed/internal/pkg/logging"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/storage"
	"github.com/mbelyaev/betfeed/internal/scrape"

	// Register all source adapters via init().
	_ "github.com/mbelyaev/betfeed/internal/normalize/all"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	runOnce    bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scraper failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "path to config file")
	flag.BoolVar(&f.runOnce, "run-once", false, "run one scrape cycle and exit")
	flag.Parse()
	return f
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "scraper")
	slog.Info("Config loaded", "path", f.configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := storage.NewPostgresStorage(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init postgres storage: %w", err)
	}
	defer pg.Close()

	var cache *storage.RedisCache
	if cfg.Redis.Addr != "" {
		cache, err = storage.NewRedisCache(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to init redis cache: %w", err)
		}
		defer cache.Close()
	}

	httpClient := scrape.NewHTTPClient(cfg.Scraper.Timeout)
	fetchers := []scrape.Fetcher{
		scrape.NewCrabSportsFetcher(cfg.Scraper, httpClient),
		scrape.NewPinnacleFetcher(cfg.Scraper, httpClient),
	}
	normalizer := normalize.New(normalize.DefaultAliases())

	if cfg.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(cfg.Health.Port), "scraper", cfg.Health.ReadHeaderTimeout)
	}

	runCycle := func() {
		cycleID := uuid.NewString()
		start := time.Now()
		log := slog.With("cycle_id", cycleID)
		log.Info("Scrape cycle started", "sports", cfg.Scraper.Sports)

		raw := scrape.FetchAll(ctx, fetchers, cfg.Scraper.Sports)
		if len(raw) == 0 {
			log.Error("No provider returned data, skipping cycle")
			return
		}

		games := normalizer.Normalize(raw)
		res := merge.Merge(games)
		log.Info("Cycle normalized and merged",
			"source_games", res.SourceGames,
			"canonical_games", len(res.Games),
			"merged_groups", res.MergedGroups,
			"unkeyed", res.Unkeyed)

		if err := pg.UpsertGames(ctx, res.Games); err != nil {
			log.Error("Failed to persist batch", "error", err)
			return
		}
		if cache != nil {
			if err := cache.StoreGames(ctx, res.Games); err != nil {
				log.Warn("Failed to refresh cache", "error", err)
			}
		}

		elapsed := time.Since(start)
		metrics.CycleDuration.Observe(elapsed.Seconds())
		log.Info("Scrape cycle finished", "duration", elapsed)
	}

	runCycle()
	if f.runOnce {
		return nil
	}

	interval := cfg.Scraper.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down scraper")
			return nil
		case <-ticker.C:
			runCycle()
		}
	}
}
