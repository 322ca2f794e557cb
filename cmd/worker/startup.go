package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bayarcash-backend/internal/infrastructure/messaging"
	"bayarcash-backend/pkg/container"
	"bayarcash-backend/pkg/logger"
	"bayarcash-backend/pkg/outbox"
)

// startServices checks dependencies, then starts the outbox relay, the pool
// monitor and the health endpoint. Background loops stop with ctx.
func startServices(ctx context.Context, c *container.Container, cfg *Config) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"redis", c.Redis.HealthCheck},
		{"postgres", c.DB.HealthCheck},
	}
	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return fmt.Errorf("%s health check failed: %w", check.name, err)
		}
	}

	if c.Config.Kafka.Enabled {
		writer := messaging.NewWriter(c.Config.Kafka.Brokers)
		relay := outbox.NewRelay(
			c.Outbox,
			outbox.NewDispatcher(writer, c.Config.Kafka.Topic),
			cfg.RelayID,
			c.Config.Kafka.PollInterval,
		).WithBatchSize(c.Config.Kafka.BatchSize)

		go func() {
			defer writer.Close()
			if err := relay.Run(ctx); err != nil {
				logger.Error("Outbox relay stopped", err)
			}
		}()
	} else {
		logger.Warn("Kafka disabled, order events stay in the outbox", nil)
	}

	go c.DB.MonitorPoolHealth(ctx, time.Minute)
	go startHealthCheckServer(ctx, c, cfg.HealthAddr)

	logger.Info("Worker started", map[string]interface{}{
		"queues":      c.Config.Worker.Queues,
		"concurrency": c.Config.Worker.Concurrency,
		"sweep_cron":  c.Config.Sweep.Cron,
	})
	return nil
}

func startHealthCheckServer(ctx context.Context, c *container.Container, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "bayarcash-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := c.Redis.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_READY", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "READY"})
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Health server failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
