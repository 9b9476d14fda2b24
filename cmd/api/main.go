package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rocketbird/rocketbird-api/internal/config"
	"github.com/rocketbird/rocketbird-api/internal/domain/admin"
	"github.com/rocketbird/rocketbird-api/internal/domain/dashboard"
	"github.com/rocketbird/rocketbird-api/internal/domain/level"
	"github.com/rocketbird/rocketbird-api/internal/middleware"
	"github.com/rocketbird/rocketbird-api/internal/pkg/cache"
	"github.com/rocketbird/rocketbird-api/internal/pkg/database"
	"github.com/rocketbird/rocketbird-api/internal/pkg/jwt"
	"github.com/rocketbird/rocketbird-api/internal/pkg/logger"
	pkgresponse "github.com/rocketbird/rocketbird-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Str("timezone", cfg.Location().String()).
		Msg("Starting RocketBird admin API")

	ctx := context.Background()

	store, closeStore, err := database.OpenStore(ctx, cfg.Store())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open document store")
	}
	defer closeStore()

	redis, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Services ----------
	dashboardService := dashboard.NewService(store, level.NewRepository(store), cache.New(redis, cfg.CacheTTL), dashboard.Config{
		Location:       cfg.Location(),
		ActiveDays:     cfg.DashboardActiveDays,
		MaxConcurrency: cfg.DashboardMaxConcurrency,
	})
	dashboardHandler := dashboard.NewHandler(dashboardService, dashboard.Defaults{
		SeriesDays:   cfg.DashboardDefaultDays,
		RankingLimit: cfg.DashboardDefaultRankLimit,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, dashboardHandler, jwtService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, dashboardHandler *dashboard.Handler, tokens admin.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{"status": "ok"})
	})

	if cfg.IsDevelopment() {
		r.Mount("/debug", chimw.Profiler())
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Mount("/dashboard", dashboard.Routes(dashboardHandler,
			admin.AuthMiddleware(tokens),
			admin.RequirePermission(admin.PermViewAnalytics),
		))
	})

	return r
}
