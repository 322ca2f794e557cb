package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/gateway/mock"
	"bayarcash-backend/internal/domains/payment/model"
)

type sweepFixture struct {
	*engineFixture
	provider *mock.MockProvider
	sweeper  SweepService
}

func newSweepFixture(orders []*model.Order) *sweepFixture {
	f := &sweepFixture{
		engineFixture: newEngineFixture(orders),
		provider:      mock.NewMockProvider(),
	}
	f.sweeper = NewSweepService(f.orders, testSettings(), f.provider, f.engine, f.locker, SweepConfig{})
	return f
}

func TestSweep_RequeriesOrdersWithTransactionID(t *testing.T) {
	f := newSweepFixture([]*model.Order{
		fpxOrder("1", model.OrderStatusPending),
		fpxOrder("2", model.OrderStatusPending),
		fpxOrder("3", model.OrderStatusPending),
		fpxOrder("4", model.OrderStatusCompleted),
	})
	ctx := context.Background()
	require.NoError(t, f.orders.SetMetadata(ctx, "1", model.MetaTransactionID, "trx_1"))
	require.NoError(t, f.orders.SetMetadata(ctx, "2", model.MetaTransactionID, "trx_2"))
	f.provider.SetRequeryResult("trx_1", result("1", model.TransactionSuccessful))
	f.provider.SetRequeryResult("trx_2", result("2", model.TransactionPending))

	report, err := f.sweeper.Sweep(ctx, model.MethodFPX)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.SkippedOrders)
	assert.Equal(t, 2, report.Requeried)
	assert.Equal(t, 2, report.Applied)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, f.provider.RequeryCount())

	assert.Equal(t, model.OrderStatusCompleted, f.orders.status("1"))
	assert.Equal(t, model.OrderStatusPending, f.orders.status("2"))
	assert.Equal(t, model.OrderStatusPending, f.orders.status("3"))

	// The lease is released after the run
	_, err = f.sweeper.Sweep(ctx, model.MethodFPX)
	require.NoError(t, err)
}

func TestSweep_LeaseHeldElsewhere(t *testing.T) {
	f := newSweepFixture([]*model.Order{fpxOrder("1", model.OrderStatusPending)})
	f.locker.held[model.LockKeySweep] = true

	report, err := f.sweeper.Sweep(context.Background())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, model.ErrSweepInProgress)
	assert.Zero(t, f.provider.RequeryCount())
}

func TestSweep_SkipsMethodsWithoutCredentials(t *testing.T) {
	card := fpxOrder("1", model.OrderStatusPending)
	card.PaymentMethod = model.MethodCreditCard
	f := newSweepFixture([]*model.Order{card})
	require.NoError(t, f.orders.SetMetadata(context.Background(), "1", model.MetaTransactionID, "trx_1"))

	report, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.SweepableMethods, report.Methods)
	assert.Equal(t, []string{model.MethodCreditCard}, report.SkippedMethods)
	assert.Zero(t, f.provider.RequeryCount())
}

func TestSweep_OneFailureDoesNotAbortRun(t *testing.T) {
	f := newSweepFixture([]*model.Order{
		fpxOrder("1", model.OrderStatusPending),
		fpxOrder("2", model.OrderStatusPending),
	})
	ctx := context.Background()
	require.NoError(t, f.orders.SetMetadata(ctx, "1", model.MetaTransactionID, "trx_1"))
	require.NoError(t, f.orders.SetMetadata(ctx, "2", model.MetaTransactionID, "trx_2"))
	f.provider.SetRequeryError("trx_1", model.NewProviderError(503, "", nil))
	f.provider.SetRequeryResult("trx_2", result("2", model.TransactionFailed))

	report, err := f.sweeper.Sweep(ctx, model.MethodFPX)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, model.OrderStatusPending, f.orders.status("1"))
	assert.Equal(t, model.OrderStatusFailed, f.orders.status("2"))
}

func TestSweep_RejectsResultForAnotherOrder(t *testing.T) {
	f := newSweepFixture([]*model.Order{fpxOrder("1", model.OrderStatusPending)})
	ctx := context.Background()
	require.NoError(t, f.orders.SetMetadata(ctx, "1", model.MetaTransactionID, "trx_1"))
	f.provider.SetRequeryResult("trx_1", result("9", model.TransactionSuccessful))

	report, err := f.sweeper.Sweep(ctx, model.MethodFPX)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, model.OrderStatusPending, f.orders.status("1"))
}
