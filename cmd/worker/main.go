package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/container"
	"bayarcash-backend/pkg/logger"
	"bayarcash-backend/pkg/tracing"
)

func main() {
	_ = godotenv.Load()
	logger.Init(utils.GetEnvVariable("APP_ENV", "development"))
	tracing.Init()

	c, err := container.NewContainer()
	if err != nil {
		logger.Fatal("Failed to initialize container", err)
	}
	defer c.Cleanup()

	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := startServices(ctx, c, cfg); err != nil {
		logger.Fatal("Startup failed", err)
	}

	srv := setupAsynqServer(c.Config, initializeHandlers(c))
	scheduler := setupScheduler(c.Config)

	<-ctx.Done()

	logger.Info("Gracefully stopping", nil)
	scheduler.Shutdown()
	srv.Shutdown()
}
