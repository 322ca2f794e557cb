package service

import (
	"context"
	"time"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// RECONCILIATION SERVICE INTERFACE
// =====================================================

// ReconciliationService advances orders and subscriptions from provider results.
// Every method validates its input before reading or mutating anything.
type ReconciliationService interface {
	// Apply reconciles a one-shot transaction result
	Apply(ctx context.Context, result model.TransactionResult) error

	// ApplyPreTransaction stores the correlation id the sweeper requeries by
	ApplyPreTransaction(ctx context.Context, pre model.PreTransaction) error

	// ============================================
	// DIRECT DEBIT
	// ============================================

	ApplyMandateApproval(ctx context.Context, approval model.MandateApproval) error
	ApplyRecurringTransaction(ctx context.Context, txn model.RecurringTransaction) error

	// ApplyEnrollmentReturn handles the payer's redirect back from mandate enrollment
	ApplyEnrollmentReturn(ctx context.Context, orderID string, succeeded bool) error

	// ============================================
	// ADMIN
	// ============================================

	// CancelOrder refuses direct debit orders and cancels anything still unpaid
	CancelOrder(ctx context.Context, orderID, reason string) error
}

// =====================================================
// DISPATCHER SERVICE INTERFACE
// =====================================================

// DispatcherService verifies inbound requests and delegates to the engine.
// It never mutates order state itself.
type DispatcherService interface {
	InitiatePayment(ctx context.Context, orderID string, req model.InitiatePaymentRequest) (*model.InitiatePaymentResponse, error)

	// StartCheckout consumes a checkout token and returns the provider redirect URL
	StartCheckout(ctx context.Context, rawToken string) (string, error)

	HandleWebhook(ctx context.Context, payload model.CallbackPayload) (*model.WebhookAck, error)
	HandleReturn(ctx context.Context, payload model.CallbackPayload) (*model.ReturnOutcome, error)

	TerminateMandate(ctx context.Context, subscriptionID string) (*model.TerminateMandateResponse, error)

	ListChannels(ctx context.Context) []model.ChannelResponse
}

// =====================================================
// SWEEP SERVICE INTERFACE
// =====================================================

type SweepService interface {
	// Sweep requeries pending orders; a concurrent run returns ErrSweepInProgress
	Sweep(ctx context.Context, methods ...string) (*model.SweepReport, error)
}

// =====================================================
// COLLABORATORS
// =====================================================

// Locker hands out short-lived exclusive leases.
type Locker interface {
	// Acquire returns model.ErrLockNotAcquired when the key is held elsewhere
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// EventPublisher records domain events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// CartClearer empties the payer's cart once an order is paid.
type CartClearer interface {
	ClearCart(ctx context.Context, order *model.Order) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }

type noopCartClearer struct{}

func (noopCartClearer) ClearCart(context.Context, *model.Order) error { return nil }
