package main

import (
	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/infrastructure/queue"
	"bayarcash-backend/pkg/container"
	"bayarcash-backend/pkg/logger"
)

// asynqScheduler wraps queue.Scheduler
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(container.RedisOpt(cfg), cfg.Sweep)

	if err := scheduler.RegisterJobs(); err != nil {
		logger.Fatal("Failed to register scheduled jobs", err)
	}

	go func() {
		if err := scheduler.Start(); err != nil {
			logger.Fatal("Scheduler stopped", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
	logger.Info("Scheduler stopped", nil)
}
