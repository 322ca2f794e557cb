package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/logger"
	"bayarcash-backend/pkg/tracing"
)

func main() {
	// .env is optional; production uses the process environment
	envFileErr := godotenv.Load()

	env := utils.GetEnvVariable("APP_ENV", "development")
	logger.Init(env)
	tracing.Init()

	if envFileErr != nil {
		logger.Debug("No .env file, reading process environment", nil)
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := Serve(); err != nil {
		logger.Fatal("API server stopped", err)
	}
}
