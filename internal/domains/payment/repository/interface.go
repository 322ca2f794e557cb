package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/pkg/outbox"
)

// =====================================================
// ORDER STORE INTERFACE
// =====================================================
type OrderStore interface {
	// Get returns ErrOrderNotFound when the order does not exist
	Get(ctx context.Context, id string) (*model.Order, error)

	// UpdateStatus changes the status and appends note when non-empty
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, note string) error

	AddNote(ctx context.Context, id, content string) error
	ListNotes(ctx context.Context, id string) ([]model.OrderNote, error)

	// Metadata; GetMetadata returns "" for a missing key
	SetMetadata(ctx context.Context, id, key, value string) error
	GetMetadata(ctx context.Context, id, key string) (string, error)
	DeleteMetadata(ctx context.Context, id, key string) error

	// MarkPaymentComplete completes the order and records the provider reference
	MarkPaymentComplete(ctx context.Context, id, reference string) error

	SetTotal(ctx context.Context, id string, total decimal.Decimal) error

	// ============================================
	// SWEEP & RENEWAL QUERIES
	// ============================================

	// ListPendingByMethod lists pending orders of a payment method, oldest first
	ListPendingByMethod(ctx context.Context, method string, limit int) ([]model.Order, error)

	// FindByTransactionID returns nil when no order carries the reference
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Order, error)

	// FindPendingRenewal returns nil when no pending renewal exists
	FindPendingRenewal(ctx context.Context, parentOrderID, subscriptionID string) (*model.Order, error)

	// CreateRenewal creates a pending renewal order copying the parent's billing details
	CreateRenewal(ctx context.Context, parent *model.Order, sub *model.Subscription, total decimal.Decimal) (*model.Order, error)
}

// =====================================================
// SUBSCRIPTION STORE INTERFACE
// =====================================================
type SubscriptionStore interface {
	Get(ctx context.Context, id string) (*model.Subscription, error)
	ListForOrder(ctx context.Context, parentOrderID string) ([]model.Subscription, error)
	UpdateStatus(ctx context.Context, id string, status model.SubscriptionStatus, note string) error
	CalculateNextPaymentDate(ctx context.Context, sub *model.Subscription) (time.Time, error)
	SetNextPaymentDate(ctx context.Context, id string, at time.Time) error
	AddNote(ctx context.Context, id, content string) error
	SetMetadata(ctx context.Context, id, key, value string) error
}

// =====================================================
// SETTINGS STORE INTERFACE
// =====================================================
type SettingsStore interface {
	// Get returns ErrMissingCredentials when the method is unknown
	Get(ctx context.Context, method string) (*model.MethodSettings, error)
	Channel(method string) (model.Channel, bool)
	Channels() []model.Channel
}

// =====================================================
// CALLBACK LOG REPOSITORY INTERFACE
// =====================================================
type CallbackLogRepository interface {
	// Create is called as soon as a callback is received, before processing
	Create(ctx context.Context, log *model.CallbackLog) error
	MarkAsProcessed(ctx context.Context, id uuid.UUID) error
	MarkProcessingError(ctx context.Context, id uuid.UUID, errMsg string) error
	List(ctx context.Context, filter model.CallbackLogFilter) ([]model.CallbackLog, error)
}

// =====================================================
// OUTBOX REPOSITORY INTERFACE
// =====================================================
type OutboxRepository interface {
	outbox.Store
	Enqueue(ctx context.Context, event outbox.Event) error
}

// =====================================================
// CART REPOSITORY INTERFACE
// =====================================================
type CartRepository interface {
	// ClearForCustomer removes the customer's cart items and returns how many were removed
	ClearForCustomer(ctx context.Context, customerID string) (int64, error)
}
