package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/1COMM1T/Camping-Reservation/internal/app"
	"github.com/1COMM1T/Camping-Reservation/internal/clock"
	"github.com/1COMM1T/Camping-Reservation/internal/config"
	"github.com/1COMM1T/Camping-Reservation/internal/lib/sl"
	"github.com/1COMM1T/Camping-Reservation/internal/storage/postgres"
	redisstore "github.com/1COMM1T/Camping-Reservation/internal/storage/redis"
	transporthttp "github.com/1COMM1T/Camping-Reservation/internal/transport/http"
	"github.com/1COMM1T/Camping-Reservation/migrations"
)

const (
	shutdownTimeout  = 10 * time.Second
	startupTimeout   = 5 * time.Second
	storeCallTimeout = 3 * time.Second
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", sl.Err(err))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", sl.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", sl.Err(err))
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", sl.Err(err))
		os.Exit(1)
	}

	holds := redisstore.New(cfg.RedisAddr, storeCallTimeout)
	defer func() {
		if err := holds.Stop(); err != nil {
			logger.Warn("close hold store", sl.Err(err))
		}
	}()

	svc := app.NewReservationService(
		holds,
		postgres.NewReservationRepository(pool),
		postgres.NewLedgerRepository(pool),
		postgres.NewFacilityRepository(pool),
		app.NewSequentialIDs(),
		clock.NewSystem(),
		app.WithHoldTTL(cfg.HoldTTL),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/health/holds", transporthttp.HandleHoldStoreHealth(svc))
	mux.Handle("/reservations", transporthttp.HandleCreateHold(svc))
	mux.Handle("/reservations/", transporthttp.HandleReservation(svc))
	mux.Handle("/camps/", transporthttp.HandleAvailability(svc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", slog.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", sl.Err(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", sl.Err(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
