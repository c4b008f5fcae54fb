package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ataboada/clinica-core/internal/api/router"
	"github.com/ataboada/clinica-core/internal/catalog"
	"github.com/ataboada/clinica-core/internal/clinic"
	"github.com/ataboada/clinica-core/internal/clock"
	appconfig "github.com/ataboada/clinica-core/internal/config"
	"github.com/ataboada/clinica-core/internal/ledger"
	"github.com/ataboada/clinica-core/internal/observability/metrics"
	"github.com/ataboada/clinica-core/internal/odontogram"
	"github.com/ataboada/clinica-core/internal/patients"
	"github.com/ataboada/clinica-core/internal/scheduling"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

func main() {
	// Load .env in development; a missing file is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinica-core API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	tz, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Error("invalid clinic timezone", "tz", cfg.ClinicTimezone, "error", err)
		os.Exit(1)
	}
	now := clock.System

	// Storage selection: Postgres when DATABASE_URL is set, a JSON file when
	// CLINIC_DATA_FILE is set, in-memory otherwise.
	var storage store.Storage
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		storage = store.NewPostgresStorage(pool)
		logger.Info("using postgres storage")
	case cfg.DataFile != "":
		storage = store.NewFileStorage(cfg.DataFile)
		logger.Info("using file storage", "path", cfg.DataFile)
	default:
		storage = store.NewMemoryStorage()
		logger.Warn("using in-memory storage, state is lost on restart")
	}

	factory := store.Factory(now, store.SeedConfig{
		FinancialGoal:     cfg.FinancialGoal,
		ScheduleStartHour: cfg.ScheduleStartHour,
		ScheduleEndHour:   cfg.ScheduleEndHour,
	})
	st, err := store.Open(context.Background(), storage, factory, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	clinicMetrics := metrics.NewClinicMetrics(registry)

	ledgerSvc := ledger.NewService(st, now, logger, clinicMetrics)
	odoSvc := odontogram.NewService(st, now, logger)
	schedSvc := scheduling.NewService(st, ledgerSvc, odoSvc, now, logger, clinicMetrics,
		time.Duration(cfg.PastBookingToleranceSecs)*time.Second)
	patientsSvc := patients.NewService(st, now, logger)
	catalogSvc := catalog.NewService(st, logger)
	clinicSvc := clinic.NewService(st, now, logger, tz)

	routerCfg := &router.Config{
		Logger:             logger,
		Patients:           patients.NewHandler(patientsSvc, logger),
		Ledger:             ledger.NewHandler(ledgerSvc, logger),
		Odontogram:         odontogram.NewHandler(odoSvc, logger),
		Scheduling:         scheduling.NewHandler(schedSvc, logger, tz),
		Catalog:            catalog.NewHandler(catalogSvc, logger),
		Clinic:             clinic.NewHandler(clinicSvc, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          cfg.RateLimit,
	}
	if cfg.Env != "production" {
		routerCfg.ResetToFactory = func(w http.ResponseWriter, r *http.Request) {
			if err := st.ResetToFactory(r.Context()); err != nil {
				logger.Error("reset failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
