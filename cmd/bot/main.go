package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/selivandex/stockspan/internal/adapters/config"
	"github.com/selivandex/stockspan/internal/adapters/market"
	"github.com/selivandex/stockspan/internal/adapters/telegram"
	"github.com/selivandex/stockspan/internal/bot"
	"github.com/selivandex/stockspan/internal/health"
	"github.com/selivandex/stockspan/internal/workers"
	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/metrics"
	"github.com/selivandex/stockspan/pkg/worker"
)

// demoPoints is the synthetic series length used when no CSV is configured
const demoPoints = 120

func main() {
	// Setup signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("stockspan bot starting...",
		zap.String("symbol", cfg.Data.Symbol),
		zap.Ints("windows", cfg.Pipeline.Windows),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	manager, err := bot.NewManager(bot.Options{
		Symbol:  cfg.Data.Symbol,
		Windows: cfg.Pipeline.Windows,
		Seed:    cfg.Pipeline.Seed,
		History: cfg.Telegram.History,
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}

	healthServer := health.NewServer(cfg.Health.Port, manager, reg)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return healthServer.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthServer.Stop(shutdownCtx)
	})

	// Data source: a watched CSV file or a synthetic demo series
	var reloader *workers.ReloadWorker
	if cfg.Data.CSVPath != "" {
		reloader = workers.NewReloadWorker(manager, cfg.Data.CSVPath, m)
		if err := startReloads(ctx, g, cfg, reloader); err != nil {
			return err
		}
	} else {
		logger.Warn("DATA_CSV_PATH not set, loading synthetic demo series",
			zap.Int("points", demoPoints),
		)
		if _, err := manager.Load(ctx, market.NewSynthetic(cfg.Pipeline.Seed).Generate(demoPoints)); err != nil {
			return fmt.Errorf("failed to load demo series: %w", err)
		}
	}

	healthServer.SetReady(true)

	// Initialize Telegram Bot
	if cfg.TelegramEnabled() {
		var r telegram.Reloader
		if reloader != nil {
			r = reloader
		}

		tgBot, err := telegram.NewBot(&cfg.Telegram, manager, r)
		if err != nil {
			return fmt.Errorf("failed to create telegram bot: %w", err)
		}

		g.Go(func() error {
			if err := tgBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("telegram bot error: %w", err)
			}
			return nil
		})

		logger.Info("📱 Telegram bot started")
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, running without chat transport")
	}

	err = g.Wait()
	logger.Info("shutting down gracefully...")
	return err
}

// startReloads schedules the CSV reload worker by cron spec or fixed interval
func startReloads(ctx context.Context, g *errgroup.Group, cfg *config.Config, reloader *workers.ReloadWorker) error {
	// The first load must succeed so the bot never starts without data
	if err := reloader.Force(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	group := worker.NewWorkerGroup(ctx)
	switch {
	case cfg.Data.ReloadSchedule != "":
		if err := group.AddCron(reloader, cfg.Data.ReloadSchedule); err != nil {
			return err
		}
	case cfg.Data.ReloadInterval > 0:
		group.Add(reloader, cfg.Data.ReloadInterval)
	default:
		logger.Info("automatic reloads disabled")
		return nil
	}

	group.Start()
	g.Go(func() error {
		group.Wait()
		group.Stop(10 * time.Second)
		return nil
	})

	return nil
}
