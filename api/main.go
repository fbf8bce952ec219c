package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/service"
	"github.com/rogerio-castellano/inventory-ledger/internal/store"
)

// @title Inventory Ledger API
// @version 1.0
// @description REST API for the box/piece inventory ledger: catalog, uploads, manual transactions, reports and undo.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", os.Getenv("LEDGER_CONFIG"), "optional config file (yaml, json or toml)")
	flag.Parse()

	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init("inventory-ledger", cfg.Log.Development)
	logger.SetLevel(cfg.Log.Level)
	log := logger.Logger

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("auth.jwt_secret not set, using the development signing key")
	}
	rl.Configure(cfg.Rate.PerSecond, cfg.Rate.Burst)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go rl.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Could not open store")
	}
	defer st.Close()

	if cfg.Auth.AdminPassword != "" {
		hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not hash admin password")
		}
		created, err := store.SeedAdmin(st.Users, cfg.Auth.AdminUser, hash)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not seed admin user")
		}
		if created {
			log.Info().Str("username", cfg.Auth.AdminUser).Msg("admin user created")
		}
	} else {
		log.Warn().Msg("auth.admin_password not set, no admin account seeded")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc, err := service.New(ctx, st.State,
		service.WithMetrics(m),
		service.WithLogger(log),
		service.WithLocation(cfg.Ledger.Location()),
		service.WithUndoCapacity(cfg.Undo.Capacity),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load ledger")
	}

	handlers.SetService(svc)
	handlers.SetUserRepo(st.Users)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Logger:         log,
			Metrics:        m,
			Gatherer:       prometheus.DefaultGatherer,
			Health:         st.Healthy,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", st.Driver).
			Str("timezone", cfg.Ledger.Location().String()).
			Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
