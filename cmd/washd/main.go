package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"carwash-backend/config"
	"carwash-backend/internal/api"
	"carwash-backend/internal/db"
	"carwash-backend/internal/logging"
	"carwash-backend/internal/mw"
	"carwash-backend/internal/statuscache"
	"carwash-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Fatal("invalid server timezone", zap.String("timezone", cfg.Server.Timezone), zap.Error(err))
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database initialized", zap.String("driver", cfg.Database.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	seeds, err := store.SeedsFromConfig(cfg.Outlets)
	if err != nil {
		logger.Fatal("invalid outlet configuration", zap.Error(err))
	}
	if err := appStore.UpsertOutlets(ctx, seeds); err != nil {
		logger.Fatal("failed to seed outlets", zap.Error(err))
	}
	logger.Info("outlets seeded", zap.Int("count", len(seeds)))

	var statusCache statuscache.Cache = statuscache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("redis unreachable, status cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			statusCache = statuscache.NewRedisCache(rdb, cfg.Redis.StatusTTL)
			logger.Info("status cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.StatusTTL))
		}
	}

	// Initialize router
	handler := api.NewHandler(appStore, statusCache, loc, logger)
	limiter := api.NewRateLimiter(&cfg.Server)
	go sweepLimiter(ctx, limiter, logger)
	router := api.NewRouter(handler, &cfg.Server, limiter, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("http server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
		return
	}

	logger.Info("server gracefully stopped")
}

// sweepLimiter forgets clients that have been quiet for a while.
func sweepLimiter(ctx context.Context, limiter *mw.IPRateLimiter, logger *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Cleanup(10 * time.Minute); n > 0 {
				logger.Debug("rate limiter swept idle clients", zap.Int("dropped", n), zap.Int("remaining", limiter.Len()))
			}
		}
	}
}
