// Package main - entry point for the Grind Practice Hub service.
//
// The service keeps a per-user daily log of solved catalog problems and
// derives streaks, window statistics, difficulty breakdowns, chart series
// and a daily leaderboard from it.
//
// The layout follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: storage implementations (file, PostgreSQL, Redis)
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/grindhub/grind-practice-hub/config"
	"github.com/grindhub/grind-practice-hub/internal/application/command"
	"github.com/grindhub/grind-practice-hub/internal/application/query"
	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/leaderboard"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/infrastructure/persistence/file"
	"github.com/grindhub/grind-practice-hub/internal/infrastructure/persistence/postgres"
	"github.com/grindhub/grind-practice-hub/internal/infrastructure/persistence/redis"
	httpiface "github.com/grindhub/grind-practice-hub/internal/interface/http"
	"github.com/grindhub/grind-practice-hub/pkg/logger"
	"github.com/grindhub/grind-practice-hub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting grind practice hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. PROBLEM CATALOG
	// ─────────────────────────────────────────────────────────────────────────
	index, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load problem catalog: %w", err)
	}
	log.Info("problem catalog loaded",
		logger.String("path", cfg.Catalog.Path),
		logger.Int("problems", index.Len()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ACTIVITY-LOG STORE
	// ─────────────────────────────────────────────────────────────────────────
	var store practice.LogStore

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		log.Info("connecting to database...")
		conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.Connect(ctx, postgres.Config{
				URL:             cfg.Storage.DatabaseURL,
				MaxConns:        cfg.Storage.MaxConns,
				MinConns:        cfg.Storage.MinConns,
				MaxConnLifetime: cfg.Storage.ConnMaxLifetime,
			})
		},
			retry.WithMaxAttempts(cfg.Storage.ConnectRetries+1),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				log.Warn("database connection failed, retrying",
					logger.Operation("postgres.connect"),
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Err(err),
				)
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			conn.Close()
		}()
		store = postgres.NewLogStore(conn)
		log.Info("database connection established", logger.Store("postgres"))

	case config.StorageFile:
		fileStore, err := file.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open data directory: %w", err)
		}
		store = fileStore
		log.Info("file store ready", logger.Store("file"), logger.String("dir", cfg.Storage.DataDir))

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional leaderboard cache)
	// ─────────────────────────────────────────────────────────────────────────
	var boardCache *redis.LeaderboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		cache, err := redis.NewCache(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// The board can always be recomputed from the store.
			log.Warn("failed to connect to Redis, leaderboard caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			boardCache = redis.NewLeaderboardCache(cache, cfg.Redis.LeaderboardTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	aggregator := leaderboard.NewAggregator(store, log)

	var invalidator command.BoardInvalidator
	var queryCache query.BoardCache
	if boardCache != nil {
		invalidator = boardCache
		queryCache = boardCache
	}

	logProblemCmd := command.NewLogProblemHandler(store, index.LookupByID, invalidator, log)

	var rotation *catalog.Rotation
	var featuredQ *query.GetFeaturedHandler
	if cfg.Featured.Enabled {
		rotation = catalog.NewRotation(index, cfg.Featured.RotationInterval, time.Now().UnixNano())
		featuredQ = query.NewGetFeaturedHandler(rotation, time.Now)
	}

	handlers := &httpiface.Handlers{
		LogProblemCmd: logProblemCmd,
		StatsQ:        query.NewGetStatsHandler(store),
		StreakQ:       query.NewGetStreakHandler(store),
		BreakdownQ:    query.NewGetBreakdownHandler(store, index.LookupByID),
		ChartQ:        query.NewGetChartHandler(store),
		ProfileQ:      query.NewGetProfileHandler(store),
		LeaderboardQ:  query.NewGetLeaderboardHandler(aggregator, queryCache, log),
		RandomQ:       query.NewGetRandomProblemHandler(store, index, rng),
		FeaturedQ:     featuredQ,
		StartedAt:     time.Now(),
		Version:       cfg.App.Version,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpiface.NewServer(httpiface.Config{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, handlers, log)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down http server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}
