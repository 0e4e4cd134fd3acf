package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/wordquiz/internal/config"
	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/dependencies/random"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/services/auth"
	"github.com/mcoot/wordquiz/internal/services/content"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
	"github.com/mcoot/wordquiz/internal/services/players"
	"github.com/mcoot/wordquiz/internal/services/scores"
	"github.com/mcoot/wordquiz/internal/storage"
	"github.com/mcoot/wordquiz/internal/storage/memory"
	"github.com/mcoot/wordquiz/internal/storage/postgres"
	redisstorage "github.com/mcoot/wordquiz/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypePostgres = config.StoragePostgres
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Metrics *metrics.Manager

	// Services
	AuthService        *auth.Service
	LeaderboardService *leaderboard.Service
	ScoreService       *scores.Service
	PlayerService      *players.Service
	ContentService     *content.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthSecret signs session tokens (required)
	AuthSecret string
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields take their auth.DefaultConfig() values
	AuthConfig auth.Config
	// LeaderboardConfig anchors the leaderboard windows (optional)
	LeaderboardConfig leaderboard.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Metrics is the metrics manager (optional)
	Metrics *metrics.Manager
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds Postgres connection settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
}

// ConfigFrom maps loaded process configuration onto factory configuration
func ConfigFrom(cfg *config.Config, logger *slog.Logger, m *metrics.Manager) (Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Config{}, err
	}

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = cfg.RedisURL

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.PostgresURL
	pgCfg.MaxConns = cfg.PostgresMaxConns
	pgCfg.AutoMigrate = cfg.PostgresAutoMigrate

	return Config{
		AuthSecret: cfg.AuthSecret,
		AuthConfig: auth.Config{
			PlayerSessionTTL: cfg.PlayerSessionTTL,
			AdminSessionTTL:  cfg.AdminSessionTTL,
			DisableBootstrap: !cfg.BootstrapEnabled,
			BcryptCost:       cfg.BcryptCost,
		},
		LeaderboardConfig: leaderboard.Config{Location: loc},
		Logger:            logger,
		Metrics:           m,
		StorageType:       cfg.Storage,
		RedisConfig:       &redisCfg,
		PostgresConfig:    &pgCfg,
	}, nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// auth.New fills unset fields from auth.DefaultConfig
	app, err := newWithDependencies(store, clk, rnd, cfg.AuthSecret, cfg.AuthConfig, cfg.LeaderboardConfig, cfg.Metrics, logger)
	if err != nil {
		if closer, ok := store.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return postgres.New(ctx, *cfg.PostgresConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	secret string,
	authCfg auth.Config,
	lbCfg leaderboard.Config,
	m *metrics.Manager,
	logger *slog.Logger,
) (*App, error) {
	codec, err := auth.NewTokenCodec(secret, clk)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		Metrics:            m,
		AuthService:        auth.New(store, clk, codec, authCfg, logger),
		LeaderboardService: leaderboard.New(store, clk, lbCfg, m),
		ScoreService:       scores.New(store, clk, m),
		PlayerService:      players.New(store, logger),
		ContentService:     content.New(store, clk, rnd),
	}, nil
}

// Close releases the storage backend's connections
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
