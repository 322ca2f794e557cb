package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/token"
)

type redisLedger struct {
	client redis.UniversalClient
}

// NewRedisLedger records consumed return tokens in Redis so every API
// instance honours a marker once.
func NewRedisLedger(client redis.UniversalClient) token.Ledger {
	return &redisLedger{client: client}
}

func (l *redisLedger) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, model.TokenLedgerPrefix+id, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim token: %w", err)
	}
	return ok, nil
}

func (l *redisLedger) Release(ctx context.Context, id string) error {
	if err := l.client.Del(ctx, model.TokenLedgerPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to release token: %w", err)
	}
	return nil
}
