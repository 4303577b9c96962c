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

	"github.com/mbelyaev/betfeed/internal/calc"
	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/logging"
	"github.com/mbelyaev/betfeed/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("EV calculator failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		interval   time.Duration
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	flag.DurationVar(&interval, "interval", 0, "rescan interval; 0 runs once and exits")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "ev-calculator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := storage.NewPostgresStorage(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init postgres storage: %w", err)
	}
	defer pg.Close()

	calculator := calc.New(pg, cfg.Calculator)

	var notifier *calc.TelegramNotifier
	if cfg.Calculator.TelegramBotToken != "" {
		notifier, err = calc.NewTelegramNotifier(cfg.Calculator.TelegramBotToken, cfg.Calculator.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to init telegram notifier: %w", err)
		}
	}

	scan := func() error {
		bets, err := calculator.FindValueBets(ctx)
		if err != nil {
			return err
		}
		for _, bet := range bets {
			slog.Info("Value bet",
				"game", bet.Game.Description(),
				"market", bet.Market.MarketType,
				"side", bet.Odds.Side,
				"bookmaker", bet.Odds.Bookmaker,
				"odds", bet.Odds.DecimalOdds,
				"ev", fmt.Sprintf("%.2f%%", bet.EV*100))
		}
		if notifier != nil && len(bets) > 0 {
			sent := notifier.NotifyValueBets(bets)
			slog.Info("Alerts sent", "sent", sent, "total", len(bets))
		}
		return nil
	}

	if err := scan(); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down EV calculator")
			return nil
		case <-ticker.C:
			if err := scan(); err != nil {
				slog.Error("Scan failed", "error", err)
			}
		}
	}
}
