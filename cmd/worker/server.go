package main

import (
	"context"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/pkg/container"
	"bayarcash-backend/pkg/logger"
)

// asynqServer wraps asynq.Server
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		container.RedisOpt(cfg),
		asynq.Config{
			Queues:         cfg.Worker.Queues,
			StrictPriority: false,
			Concurrency:    cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				logger.ErrorWithFields("Task failed", err, map[string]interface{}{
					"type":    task.Type(),
					"retried": retried,
				})
			}),
		},
	)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Fatal("Worker stopped", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to asynq's ShutdownTimeout
func (s *asynqServer) Shutdown() {
	s.Server.Shutdown()
	logger.Info("Worker stopped", nil)
}
