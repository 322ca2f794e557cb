package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bayarcash-backend/internal/domains/payment/model"
	repo "bayarcash-backend/internal/domains/payment/repository"
	"bayarcash-backend/pkg/outbox"
	"bayarcash-backend/pkg/tracing"
)

// outboxPublisher writes domain events to the outbox table; the relay ships them to Kafka.
type outboxPublisher struct {
	store repo.OutboxRepository
}

func NewOutboxPublisher(store repo.OutboxRepository) EventPublisher {
	return &outboxPublisher{store: store}
}

func (p *outboxPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return p.store.Enqueue(ctx, outbox.Event{
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Type:          event.Type,
		Payload:       payload,
		Headers: map[string]string{
			"order_id": event.OrderID,
		},
		Traceparent: tracing.Traceparent(ctx),
	})
}
