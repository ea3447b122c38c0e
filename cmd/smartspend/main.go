package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smartspend/internal/amqp"
	"smartspend/internal/backend"
	"smartspend/internal/config"
	"smartspend/internal/dashboard"
	apphttp "smartspend/internal/http"
	applog "smartspend/internal/log"
	"smartspend/internal/services"
)

func main() {
	// .env is for local development; absence is not an error.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.AggregationLocation()
	if err != nil {
		logger.Error("Invalid aggregation timezone", "tz", cfg.AggregationTZ, "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// Transaction events are optional; without a broker the writes still
	// work and only the alert worker goes without input.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	budgets := services.NewBudgetService(result.Store)
	svc := apphttp.Services{
		Expenses:   services.NewExpenseService(result.Store, budgets, events),
		Revenue:    services.NewRevenueService(result.Store, budgets, events),
		Budgets:    budgets,
		Goals:      services.NewGoalService(result.Store),
		Categories: services.NewCategoryService(result.Store),
		Profiles:   services.NewProfileService(result.Store),
	}
	dash := dashboard.New(result.Store, loc)

	srv := apphttp.NewServer(":"+cfg.Port, result.Identity, dash, svc, apphttp.Options{
		SnapshotTTL:         cfg.SnapshotCacheTTL,
		RecoveryRedirectURL: cfg.RecoveryRedirectURL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting smartspend server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"aggregation_tz", cfg.AggregationTZ)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
