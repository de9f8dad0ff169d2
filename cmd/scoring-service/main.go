package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dotball/dotball/internal/pkg/config"
	"github.com/dotball/dotball/internal/pkg/health"
	"github.com/dotball/dotball/internal/pkg/logging"
	"github.com/dotball/dotball/internal/pkg/storage"
	"github.com/dotball/dotball/internal/scoring/service"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type flags struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scoring service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting scoring service...")

	f := parseFlags()

	slog.Info("Loading config", "path", f.configPath)
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&cfg.Logging, "scoring-service")
	slog.Info("Logging initialized", "service", "scoring-service")

	postgresDSN := cfg.Postgres.DSN
	if envDSN := os.Getenv("POSTGRES_DSN"); envDSN != "" {
		postgresDSN = envDSN
		slog.Info("Using PostgreSQL DSN from environment")
	}
	if postgresDSN == "" {
		return fmt.Errorf("postgres DSN is required: set postgres.dsn in config or POSTGRES_DSN env var")
	}

	pgConfig := cfg.Postgres
	pgConfig.DSN = postgresDSN
	store, err := storage.NewPostgresMatchStorage(&pgConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Error closing PostgreSQL storage", "error", err)
		}
	}()
	slog.Info("PostgreSQL match storage initialized")

	// Redis is optional: without it every read recomputes from Postgres.
	var cache *storage.RedisClient
	if cfg.Redis.Addr != "" {
		cache, err = storage.NewRedisClient(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without live score cache", "error", err)
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
			slog.Info("Redis live score cache initialized", "addr", cfg.Redis.Addr)
		}
	}

	notifier := setupNotifier(cfg)
	if notifier != nil {
		defer notifier.Stop()
	}

	svc := service.NewService(store, cache, notifier, cfg.Redis.LiveTTL)

	ctx, cancel := createContext(f.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	addr := health.AddrFor(cfg.HTTP.Port)
	health.Run(ctx, addr, "scoring-service", svc, cfg.HTTP.ReadHeaderTimeout)

	<-ctx.Done()
	slog.Info("Scoring service stopped")
	return nil
}

func parseFlags() flags {
	var f flags
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&f.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&f.runFor, "run-for", 0, "Auto-stop after duration. 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return f
}

func setupNotifier(cfg *config.Config) *service.Notifier {
	token := cfg.Telegram.BotToken
	if envToken := os.Getenv("TELEGRAM_BOT_TOKEN"); envToken != "" {
		token = envToken
	}
	chatID := cfg.Telegram.ChatID
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if parsed, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			chatID = parsed
		}
	}

	if !cfg.Telegram.Enabled || token == "" || chatID == 0 {
		slog.Info("Telegram alerts disabled")
		return nil
	}
	return service.NewNotifier(token, chatID)
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
