package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"ingest_max_concurrent", cfg.Ingest.MaxConcurrent,
		"session_max", cfg.Session.Max,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	pipeline := core.DefaultPipeline()
	if cfg.Taxonomy.File != "" {
		taxonomy, err := core.LoadTaxonomyFile(cfg.Taxonomy.File)
		if err != nil {
			slog.Error("failed to load taxonomy", "file", cfg.Taxonomy.File, "error", err)
			os.Exit(1)
		}
		pipeline = core.NewPipeline(taxonomy)
		slog.Info("taxonomy loaded", "file", cfg.Taxonomy.File, "rules", len(taxonomy.Rules))
	}

	service := core.NewService(pipeline, core.ServiceOptions{
		MaxFileSize:          cfg.Ingest.MaxFileSize,
		MaxFiles:             cfg.Ingest.MaxFiles,
		MaxSessions:          cfg.Session.Max,
		MaxConcurrentIngests: cfg.Ingest.MaxConcurrent,
		MaxWaitTime:          cfg.Ingest.MaxWaitTime,
		DefaultFileSource:    cfg.Ingest.DefaultSource,
		PasteSource:          cfg.Ingest.PasteSource,
	})

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	server := web.NewServer(jobCtx, service, cfg)

	// Drop idle roster sessions
	go service.StartSessionSweeper(jobCtx, core.SweepConfig{
		IdleTimeout:   cfg.Session.IdleTimeout,
		CheckInterval: cfg.Session.SweepInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for running batches to complete (with timeout)
		ingestStatus := service.IngestLimiterStatus()
		if ingestStatus.Active > 0 {
			slog.Info("waiting for ingests to complete", "active", ingestStatus.Active)
			if err := service.WaitForIngests(shutdownCtx); err != nil {
				slog.Warn("ingests did not complete in time", "error", err)
			} else {
				slog.Info("all ingests completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
