package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rocketbird/rocketbird-api/internal/config"
	"github.com/rocketbird/rocketbird-api/internal/domain/dashboard"
	"github.com/rocketbird/rocketbird-api/internal/domain/level"
	"github.com/rocketbird/rocketbird-api/internal/pkg/cache"
	"github.com/rocketbird/rocketbird-api/internal/pkg/database"
	"github.com/rocketbird/rocketbird-api/internal/pkg/logger"
)

// RefreshChannel wakes the warmer immediately when published to
const RefreshChannel = "dashboard:refresh"

type warmer interface {
	Warm(ctx context.Context, days, limit int) error
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.WarmInterval <= 0 {
		log.Fatal().Msg("WARM_INTERVAL must be positive for the cache warmer")
	}

	log.Info().Dur("interval", cfg.WarmInterval).Msg("Starting cache-warmer")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := database.OpenStore(ctx, cfg.Store())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer closeStore()

	rdb, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	jsonCache := cache.New(rdb, cfg.CacheTTL)
	if !jsonCache.Enabled() {
		log.Fatal().Msg("Cache warmer needs REDIS_URL and a positive CACHE_TTL")
	}

	svc := dashboard.NewService(store, level.NewRepository(store), jsonCache, dashboard.Config{
		Location:       cfg.Location(),
		ActiveDays:     cfg.DashboardActiveDays,
		MaxConcurrency: cfg.DashboardMaxConcurrency,
	})

	// Redis pub/sub wake-up; the ticker is still the main mechanism
	wake := make(chan struct{}, 1)
	go subscribeWakeups(ctx, rdb, wake)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	loop(ctx, svc, cfg.WarmInterval, wake, cfg.DashboardDefaultDays, cfg.DashboardDefaultRankLimit)
	log.Info().Msg("cache-warmer stopped")
}

// loop warms once immediately, then on every tick or wake-up until ctx is done
func loop(ctx context.Context, svc warmer, interval time.Duration, wake <-chan struct{}, days, limit int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		warmOnce(ctx, svc, interval, days, limit)

		select {
		case <-ctx.Done():
			return
		case <-wake:
		case <-ticker.C:
		}
	}
}

func warmOnce(ctx context.Context, svc warmer, timeout time.Duration, days, limit int) {
	start := time.Now()
	warmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := svc.Warm(warmCtx, days, limit); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("Dashboard cache warm failed")
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("Dashboard cache warmed")
}

func subscribeWakeups(ctx context.Context, rdb *redis.Client, wake chan<- struct{}) {
	sub := rdb.Subscribe(ctx, RefreshChannel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}
