package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/hospi/config"
	"github.com/giygas/hospi/handlers"
	"github.com/giygas/hospi/health"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/scheduler"
	"github.com/giygas/hospi/server"
	"github.com/giygas/hospi/session"
	"github.com/giygas/hospi/validation"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		Dir:            cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		_ = logging.Close()
	}()

	sessions := session.NewManager()

	sched := scheduler.NewScheduler(sessions, cfg.SessionIdleTimeout, cfg.SessionSweepInterval)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	handler := handlers.NewHTTPHandler(
		sessions,
		validation.NewInputValidator(),
		health.NewHealthChecker(sessions, cfg.SessionSweepInterval),
		handlers.Dashboard{AvailableBeds: cfg.AvailableBeds, ActiveDoctors: cfg.ActiveDoctors},
	)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
		}
	case sig := <-quit:
		logging.Info("Shutdown signal received", "signal", sig.String())
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}
