package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dandantas/keepwarm/internal/config"
	"github.com/dandantas/keepwarm/internal/handler"
	"github.com/dandantas/keepwarm/internal/scheduler"
	"github.com/dandantas/keepwarm/internal/service"
	"github.com/dandantas/keepwarm/internal/store"
	"github.com/dandantas/keepwarm/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Keepwarm", "version", version, "target_url", cfg.TargetURL)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// In-memory state; a restart starts over with a fresh random deadline
	state := scheduler.NewState(store.NewPingLog(cfg.PingLogSize), time.Now(), scheduler.RandomInterval)

	// Initialize pinger and executor
	httpClient := service.NewHTTPClient(cfg.PingTimeout)
	pinger := service.NewPinger(httpClient, cfg.PingUserAgent, cfg.PingTimeout)
	executor := service.NewExecutor(pinger, state, cfg.TargetURL)

	// Initialize scheduler
	sched := scheduler.NewScheduler(cfg, executor)
	if err := sched.Start(ctx); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	slog.Info("First ping scheduled", "next_ping_at", state.NextPingAt().UTC().Format(time.RFC3339))

	// Initialize handlers
	assetHandler, err := handler.NewAssetHandler(cfg.AssetsURL)
	if err != nil {
		slog.Error("Failed to create asset proxy", "error", err)
		os.Exit(1)
	}

	corsConfig := middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: cfg.CORSAllowedMethods,
		AllowedHeaders: cfg.CORSAllowedHeaders,
		MaxAge:         cfg.CORSMaxAge,
	}

	router := handler.NewRouter(
		handler.NewPingHandler(state, executor),
		handler.NewStatusHandler(state, cfg.TargetURL, cfg.SchedulerCron),
		handler.NewChartHandler(state),
		handler.NewHealthHandler(sched, cfg.SchedulerEnabled, version),
		assetHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop scheduler first (wait for an in-flight ping)
	sched.Stop(shutdownCtx)

	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Keepwarm stopped")
}
