package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/model"
)

// These tests need a reachable Redis, e.g. REDIS_TEST_ADDR=localhost:6379.
func testRedis(t *testing.T) *RedisClient {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := NewRedisClient(config.RedisConfig{
		Host:     addr,
		Password: os.Getenv("REDIS_TEST_PASSWORD"),
		DB:       15,
	})
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisLocker(client.Client)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	lock, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, model.ErrLockNotAcquired)

	require.NoError(t, lock.Release(ctx))

	again, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLocker_StaleReleaseKeepsNewOwner(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisLocker(client.Client)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	stale, err := locker.Acquire(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	owner, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	_, err = locker.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, model.ErrLockNotAcquired)

	require.NoError(t, owner.Release(ctx))
}

func TestRedisLedger_ClaimOnce(t *testing.T) {
	client := testRedis(t)
	ledger := NewRedisLedger(client.Client)
	ctx := context.Background()
	id := uuid.NewString()

	ok, err := ledger.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLedger_ReleaseAllowsReclaim(t *testing.T) {
	client := testRedis(t)
	ledger := NewRedisLedger(client.Client)
	ctx := context.Background()
	id := uuid.NewString()

	ok, err := ledger.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, ledger.Release(ctx, id))

	ok, err = ledger.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
