package main

import (
	"github.com/hibiken/asynq"

	paymentJob "bayarcash-backend/internal/domains/payment/job"
	"bayarcash-backend/internal/shared"
	"bayarcash-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sweep     *paymentJob.SweepHandler
	clearCart *paymentJob.ClearCartHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sweep:     paymentJob.NewSweepHandler(c.Sweeper, c.Config.Sweep.Methods),
		clearCart: paymentJob.NewClearCartHandler(c.Carts),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSweepPendingOrders, h.sweep.ProcessTask)
	mux.HandleFunc(shared.TypeClearCart, h.clearCart.ProcessTask)
}
