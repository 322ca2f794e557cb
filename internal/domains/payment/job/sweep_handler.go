package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/service"
	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/logger"
)

// SweepHandler runs the scheduled requery sweep
type SweepHandler struct {
	sweeper service.SweepService
	methods []string
}

// NewSweepHandler uses methods when the task payload names none.
func NewSweepHandler(sweeper service.SweepService, methods []string) *SweepHandler {
	return &SweepHandler{
		sweeper: sweeper,
		methods: methods,
	}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.SweepPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	methods := payload.Methods
	if len(methods) == 0 {
		methods = h.methods
	}

	report, err := h.sweeper.Sweep(ctx, methods...)
	if err != nil {
		// Another instance is sweeping; the next tick will catch up
		if errors.Is(err, model.ErrSweepInProgress) {
			logger.Info("Sweep already in progress, skipping tick", nil)
			return nil
		}
		return fmt.Errorf("sweep pending orders: %w", err)
	}

	logger.Info("Processed sweep task", map[string]interface{}{
		"scanned":        report.Scanned,
		"requeried":      report.Requeried,
		"applied":        report.Applied,
		"failed":         report.Failed,
		"skipped_orders": report.SkippedOrders,
	})
	return nil
}
