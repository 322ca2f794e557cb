package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bayarcash-backend/internal/shared/middleware"
	"bayarcash-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.GET("/health", healthCheckHandler(c))

	v1 := router.Group("/api/v1")
	{
		setupPaymentRoutes(v1, c)
		setupAdminPaymentRoutes(v1, c)
	}

	return router
}

// ========================================
// PAYMENT ROUTES (PUBLIC)
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	bc := v1.Group("/payments/bayarcash")
	{
		bc.POST("/orders/:order_id", c.PaymentHandler.InitiatePayment)
		bc.GET("/checkout", c.PaymentHandler.StartCheckout)

		// Payer redirects arrive as GET or POST; provider webhooks as POST
		bc.GET("/callback", c.PaymentHandler.Callback)
		bc.POST("/callback", c.PaymentHandler.Callback)
	}
}

// ========================================
// ADMIN PAYMENT ROUTES
// ========================================
func setupAdminPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin/bayarcash")
	admin.Use(middleware.AdminAuth(c.JWTManager))
	{
		admin.GET("/channels", c.PaymentHandler.ListChannels)
		admin.POST("/orders/:order_id/cancel", c.PaymentHandler.CancelOrder)
		admin.POST("/subscriptions/:id/terminate", c.PaymentHandler.TerminateMandate)
		admin.POST("/sweep", c.PaymentHandler.RunSweep)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		if err := appCtx.Redis.HealthCheck(ctx); err != nil {
			redisStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
