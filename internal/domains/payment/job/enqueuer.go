package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/service"
	"bayarcash-backend/internal/shared"
	"bayarcash-backend/internal/shared/utils"
)

// TaskEnqueuer is the part of *asynq.Client the API needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type cartClearer struct {
	client TaskEnqueuer
}

// NewCartClearer enqueues a cart clear for the worker once an order is paid.
func NewCartClearer(client TaskEnqueuer) service.CartClearer {
	return &cartClearer{client: client}
}

func (c *cartClearer) ClearCart(ctx context.Context, order *model.Order) error {
	task, err := utils.MarshalTask(shared.TypeClearCart, model.ClearCartPayload{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		// One clear per order even if completion is reported twice
		asynq.TaskID(shared.TypeClearCart+":"+order.ID),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to enqueue cart clear: %w", err)
	}
	return nil
}

// EnqueueSweep asks the worker to run a sweep now.
func EnqueueSweep(ctx context.Context, client TaskEnqueuer, methods ...string) (*asynq.TaskInfo, error) {
	task, err := utils.MarshalTask(shared.TypeSweepPendingOrders, model.SweepPayload{Methods: methods})
	if err != nil {
		return nil, err
	}
	return client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(0),
		asynq.Timeout(4*time.Minute),
	)
}
