package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bayarcash-backend/pkg/container"
	"bayarcash-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Serve runs the HTTP API until SIGINT or SIGTERM, then drains in-flight callbacks.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Step 1: dependencies
	appContainer, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer appContainer.Cleanup()

	// Step 2: HTTP server
	cfg := appContainer.Config
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           SetupRouter(appContainer),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// a webhook may requery the provider before answering
		WriteTimeout:   cfg.Bayarcash.HTTPTimeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.App.Environment,
			"methods":     len(cfg.Bayarcash.Methods),
		})
		serveErr <- srv.ListenAndServe()
	}()

	// Step 3: wait for a signal or a listener failure
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down API", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("API stopped", nil)
	return nil
}
