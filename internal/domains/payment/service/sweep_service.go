package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/model"
	repo "bayarcash-backend/internal/domains/payment/repository"
	"bayarcash-backend/pkg/logger"
)

// SweepConfig bounds one sweep run.
type SweepConfig struct {
	BatchSize int
	LeaseTTL  time.Duration

	// RequeriesPerSecond limits calls to the provider; zero means unlimited
	RequeriesPerSecond float64
}

// =====================================================
// SWEEP SERVICE IMPLEMENTATION
// =====================================================
type sweepService struct {
	orders   repo.OrderStore
	settings repo.SettingsStore
	provider gateway.Provider
	engine   ReconciliationService
	locker   Locker
	config   SweepConfig
	now      func() time.Time
}

func NewSweepService(
	orders repo.OrderStore,
	settings repo.SettingsStore,
	provider gateway.Provider,
	engine ReconciliationService,
	locker Locker,
	config SweepConfig,
) SweepService {
	if config.BatchSize <= 0 {
		config.BatchSize = model.DefaultSweepBatchSize
	}
	if config.LeaseTTL <= 0 {
		config.LeaseTTL = 4 * time.Minute
	}
	return &sweepService{
		orders:   orders,
		settings: settings,
		provider: provider,
		engine:   engine,
		locker:   locker,
		config:   config,
		now:      time.Now,
	}
}

// Sweep requeries the oldest pending orders of each method
//
// Business Logic Flow:
// 1. Take the sweep lease; a held lease means another run is active
// 2. Per method: skip without credentials, list pending orders
// 3. Per order: skip without a recorded transaction id, requery, apply
// 4. One failing order never aborts the run
func (s *sweepService) Sweep(ctx context.Context, methods ...string) (*model.SweepReport, error) {
	if len(methods) == 0 {
		methods = model.SweepableMethods
	}

	// Step 1: Lease
	lease, err := s.locker.Acquire(ctx, model.LockKeySweep, s.config.LeaseTTL)
	if err != nil {
		if errors.Is(err, model.ErrLockNotAcquired) {
			return nil, model.NewSweepInProgressError()
		}
		return nil, fmt.Errorf("failed to acquire sweep lease: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Failed to release sweep lease", err)
		}
	}()

	report := &model.SweepReport{
		StartedAt: s.now().UTC(),
		Methods:   methods,
	}

	var limiter *rate.Limiter
	if s.config.RequeriesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.config.RequeriesPerSecond), 1)
	}

	// Step 2: Methods
	for _, method := range methods {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		settings, err := s.settings.Get(ctx, method)
		if err != nil || !settings.HasCredentials() {
			logger.Warn("Skipping sweep for method without credentials", map[string]interface{}{
				"payment_method": method,
			})
			report.SkippedMethods = append(report.SkippedMethods, method)
			continue
		}

		orders, err := s.orders.ListPendingByMethod(ctx, method, s.config.BatchSize)
		if err != nil {
			logger.ErrorWithFields("Failed to list pending orders", err, map[string]interface{}{
				"payment_method": method,
			})
			report.Failed++
			continue
		}

		// Step 3: Orders
		for i := range orders {
			report.Scanned++
			if err := s.sweepOrder(ctx, limiter, settings, &orders[i], report); err != nil {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				report.Failed++
				logger.ErrorWithFields("Sweep failed for order", err, map[string]interface{}{
					"order_id":       orders[i].ID,
					"payment_method": method,
				})
			}
		}
	}

	report.FinishedAt = s.now().UTC()
	logger.Info("Requery sweep finished", map[string]interface{}{
		"scanned":   report.Scanned,
		"requeried": report.Requeried,
		"applied":   report.Applied,
		"failed":    report.Failed,
		"skipped":   report.SkippedMethods,
	})
	return report, nil
}

func (s *sweepService) sweepOrder(
	ctx context.Context,
	limiter *rate.Limiter,
	settings *model.MethodSettings,
	order *model.Order,
	report *model.SweepReport,
) error {
	txnID, err := s.orders.GetMetadata(ctx, order.ID, model.MetaTransactionID)
	if err != nil {
		return err
	}
	if txnID == "" {
		report.SkippedOrders++
		return nil
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}

	result, err := s.provider.RequeryTransaction(ctx, txnID, settings.BearerToken, settings.Sandbox)
	if err != nil {
		return err
	}
	report.Requeried++

	if result.OrderNumber == "" {
		result.OrderNumber = order.ID
	}
	if result.OrderNumber != order.ID {
		return model.NewInvalidPayloadError(fmt.Sprintf("requery returned order %s for order %s", result.OrderNumber, order.ID))
	}

	if err := s.engine.Apply(ctx, *result); err != nil {
		return err
	}
	report.Applied++
	return nil
}
