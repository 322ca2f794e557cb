package main

import (
	"os"

	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/logger"
)

// Config holds the worker-only settings; everything else comes from the container
type Config struct {
	HealthAddr string
	RelayID    string
}

func loadConfig() *Config {
	hostname, _ := os.Hostname()

	cfg := &Config{
		HealthAddr: utils.GetEnvVariable("WORKER_HEALTH_ADDR", ":9999"),
		RelayID:    utils.GetEnvVariable("OUTBOX_RELAY_ID", "relay-"+hostname),
	}

	logger.Info("Worker config loaded", map[string]interface{}{
		"health_addr": cfg.HealthAddr,
		"relay_id":    cfg.RelayID,
	})
	return cfg
}
