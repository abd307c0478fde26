package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberbook/internal/agenda"
	"barberbook/internal/api"
	"barberbook/internal/booking"
	"barberbook/internal/cache"
	"barberbook/internal/config"
	"barberbook/internal/events"
	"barberbook/internal/metrics"
	"barberbook/internal/notify"
	"barberbook/internal/report"
	"barberbook/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("BARBERBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Server.Timezone).Msg("unknown timezone")
	}

	bus := events.NewBus()

	db, err := store.Open(cfg.Database.Path, bus)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureDefaultSchedule(ctx); err != nil {
		logger.Fatal().Err(err).Msg("seed schedule error")
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	catalog := cache.NewCatalog(db, rdb, cfg.RedisTTL(), logger)
	catalog.WatchSchedule(ctx, bus)
	defer catalog.Close()

	rules := booking.Rules{
		RateWindow:    cfg.BookingRateWindow(),
		RateLimit:     cfg.BookingRateLimit(),
		CancelPenalty: cfg.CancelPenaltyWindow(),
	}
	bookingSvc := booking.NewService(db, rules, loc, logger)
	agendaSvc := agenda.NewService(db)
	reportSvc := report.NewService(db)

	if cfg.Reminders.Enabled {
		reminders := notify.NewService(db, notify.LogNotifier{Logger: logger},
			cfg.ReminderCheckInterval(), loc, logger)
		reminders.Start(ctx)
		defer reminders.Stop()
	}

	if cfg.Backup.Enabled {
		backupDir := cfg.Backup.Dir
		if backupDir == "" {
			backupDir = "data/backups"
		}
		backup := store.NewBackup(cfg.Database.Path, backupDir,
			cfg.BackupInterval(), cfg.Backup.RetentionDays, logger)
		go backup.Run(ctx.Done())
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	opts := api.Options{
		RequestsPerMin: cfg.Server.RequestsPerMin,
		Location:       loc,
	}
	server := api.NewServer(bookingSvc, agendaSvc, reportSvc, catalog, db, catalog, logger, opts)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown := cfg.Server.ShutdownSeconds
		if shutdown <= 0 {
			shutdown = 5
		}
		ctxShutdown, cancel := context.WithTimeout(context.Background(),
			time.Duration(shutdown)*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("barberbook started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("http server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *store.Store, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
