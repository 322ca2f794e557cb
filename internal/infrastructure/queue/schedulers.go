package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/shared"
	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/logger"
)

type Scheduler struct {
	scheduler   *asynq.Scheduler
	sweepConfig config.SweepConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, sweepConfig config.SweepConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:   scheduler,
		sweepConfig: sweepConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepJob()
}

// ================================================
// Requery sweep (every 5 minutes by default)
// ================================================
func (s *Scheduler) registerSweepJob() error {
	task, err := utils.MarshalTask(shared.TypeSweepPendingOrders, model.SweepPayload{
		Methods: s.sweepConfig.Methods,
	})
	if err != nil {
		return err
	}

	// The lease TTL bounds a run; the timeout matches it
	timeout := s.sweepConfig.LeaseTTL
	if timeout <= 0 {
		timeout = 4 * time.Minute
	}

	_, err = s.scheduler.Register(
		s.sweepConfig.Cron,
		task,
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(0),
		asynq.Timeout(timeout),
		asynq.Unique(timeout),
	)
	if err != nil {
		logger.Error("Failed to register requery sweep job", err)
		return err
	}

	logger.Info("Registered requery sweep", map[string]interface{}{
		"cron":    s.sweepConfig.Cron,
		"methods": s.sweepConfig.Methods,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
