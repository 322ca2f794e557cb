package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/repository"
	"bayarcash-backend/internal/shared/utils"
	"bayarcash-backend/pkg/logger"
)

type ClearCartHandler struct {
	cartRepo repository.CartRepository
}

func NewClearCartHandler(cartRepo repository.CartRepository) *ClearCartHandler {
	return &ClearCartHandler{
		cartRepo: cartRepo,
	}
}

func (h *ClearCartHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ClearCartPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.CustomerID == "" {
		// Guest checkout
		return nil
	}

	deletedCount, err := h.cartRepo.ClearForCustomer(ctx, payload.CustomerID)
	if err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}

	logger.Info("Cleared cart after payment", map[string]interface{}{
		"order_id":      payload.OrderID,
		"customer_id":   payload.CustomerID,
		"deleted_count": deletedCount,
	})
	return nil
}
