package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/wordquiz/internal/api"
	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/config"
	"github.com/mcoot/wordquiz/internal/errutil"
	"github.com/mcoot/wordquiz/internal/factory"
	"github.com/mcoot/wordquiz/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.NewManager()

	factoryCfg, err := factory.ConfigFrom(cfg, logger, m)
	if err != nil {
		errutil.LogError(logger, "invalid configuration", err)
		os.Exit(1)
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		errutil.LogError(logger, "failed to create application", err, slog.String("storage", cfg.Storage))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			errutil.LogError(logger, "failed to close storage", err)
		}
	}()

	// Seed a subject's word list when configured
	if cfg.SeedFile != "" && cfg.SeedSubject != "" {
		subject, added, err := app.ContentService.LoadFromFile(ctx, cfg.SeedSubject, cfg.SeedFile)
		if err != nil {
			logger.Warn("could not load seed words",
				slog.String("file", cfg.SeedFile),
				slog.String("error", err.Error()))
		} else {
			logger.Info("seed words loaded",
				slog.String("subject", subject.Name),
				slog.Int("added", added))
		}
	}

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)
	if err := loginLimiter.TrustProxies(cfg.TrustedProxyList()...); err != nil {
		errutil.LogError(logger, "invalid trusted proxies", err)
		_ = app.Close()
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Metrics:            m,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		ScoreService:       app.ScoreService,
		PlayerService:      app.PlayerService,
		ContentService:     app.ContentService,
		LoginLimiter:       loginLimiter,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(router, serverConfig, logger)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage))

	// Blocks until SIGINT/SIGTERM cancels ctx
	if err := server.Run(ctx); err != nil {
		errutil.LogError(logger, "server error", err)
		cancel()
		_ = app.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
