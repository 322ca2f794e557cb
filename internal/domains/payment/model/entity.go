package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER
// =====================================================

type Order struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	Status         OrderStatus     `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	BillingName    string          `json:"billing_name"`
	BillingEmail   string          `json:"billing_email"`
	BillingPhone   string          `json:"billing_phone"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	ParentOrderID  *string         `json:"parent_order_id,omitempty"`
	SubscriptionID *string         `json:"subscription_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NeedsPayment reports whether the order still awaits a successful payment.
func (o *Order) NeedsPayment() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPending, OrderStatusOnHold, OrderStatusFailed:
		return true
	}
	return false
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusProcessing || o.Status == OrderStatusCompleted
}

func (o *Order) IsDirectDebit() bool {
	return o.PaymentMethod == MethodDirectDebit
}

type OrderNote struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"order_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// =====================================================
// SUBSCRIPTION
// =====================================================

type Subscription struct {
	ID              string             `json:"id"`
	ParentOrderID   string             `json:"parent_order_id"`
	CustomerID      string             `json:"customer_id"`
	Status          SubscriptionStatus `json:"status"`
	BillingPeriod   string             `json:"billing_period"` // day, week, month, year
	BillingInterval int                `json:"billing_interval"`
	Total           decimal.Decimal    `json:"total"`
	NextPaymentAt   *time.Time         `json:"next_payment_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CanProcessPayment reports whether a recurring debit may be applied.
func (s *Subscription) CanProcessPayment() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusPending
}

// NextPaymentAfter returns the next billing date counted from the given time.
func (s *Subscription) NextPaymentAfter(from time.Time) time.Time {
	interval := s.BillingInterval
	if interval < 1 {
		interval = 1
	}
	switch s.BillingPeriod {
	case "day":
		return from.AddDate(0, 0, interval)
	case "week":
		return from.AddDate(0, 0, 7*interval)
	case "year":
		return from.AddDate(interval, 0, 0)
	default:
		return from.AddDate(0, interval, 0)
	}
}

// FrequencyMode maps the billing period to the mandate frequency code.
func (s *Subscription) FrequencyMode() string {
	if s.BillingPeriod == "week" {
		return "WK"
	}
	return "MT"
}

// =====================================================
// PROVIDER RECORDS
// =====================================================

// TransactionResult is the provider's view of a one-shot transaction.
type TransactionResult struct {
	TransactionID           string            `json:"transaction_id"`
	OrderNumber             string            `json:"order_number"`
	Status                  TransactionStatus `json:"status"`
	StatusDescription       string            `json:"status_description"`
	ExchangeReferenceNumber string            `json:"exchange_reference_number"`
	ExchangeTransactionID   string            `json:"exchange_transaction_id"`
	PayerName               string            `json:"payer_name"`
	PayerEmail              string            `json:"payer_email"`
	PayerBankName           string            `json:"payer_bank_name"`
	Amount                  decimal.Decimal   `json:"amount"`
	Currency                string            `json:"currency"`
	Datetime                string            `json:"datetime"`
}

func (r TransactionResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderNumber, validation.Required),
		validation.Field(&r.Status, validation.Min(TransactionNew), validation.Max(TransactionFailed)),
	)
}

// PreTransaction is sent when the payer is handed to the bank, before any outcome.
type PreTransaction struct {
	OrderNumber             string `json:"order_number"`
	TransactionID           string `json:"transaction_id"`
	ExchangeReferenceNumber string `json:"exchange_reference_number"`
}

func (p PreTransaction) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.OrderNumber, validation.Required),
		validation.Field(&p.TransactionID, validation.Required),
		validation.Field(&p.ExchangeReferenceNumber, validation.Required),
	)
}

// MandateApproval is the bank's decision on a direct debit enrollment or termination.
type MandateApproval struct {
	OrderNumber            string         `json:"order_number"`
	ApprovalStatus         ApprovalStatus `json:"approval_status"`
	ApplicationType        string         `json:"application_type"`
	MandateID              string         `json:"mandate_id"`
	MandateReferenceNumber string         `json:"mandate_reference_number"`
	ApprovalDate           string         `json:"approval_date"`
	PayerBankCode          string         `json:"payer_bank_code"`
	PayerBankAccountNo     string         `json:"payer_bank_account_no"`
}

func (a MandateApproval) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.OrderNumber, validation.Required),
		validation.Field(&a.ApprovalStatus, validation.Min(ApprovalNew), validation.Max(ApprovalError)),
	)
}

func (a MandateApproval) IsTermination() bool {
	return a.ApplicationType == ApplicationTypeTermination
}

// RecurringTransaction is one debit against an approved mandate.
type RecurringTransaction struct {
	MandateID              string            `json:"mandate_id"`
	MandateReferenceNumber string            `json:"mandate_reference_number"`
	TransactionID          string            `json:"transaction_id"`
	Status                 TransactionStatus `json:"status"`
	StatusDescription      string            `json:"status_description"`
	Amount                 decimal.Decimal   `json:"amount"`
	Datetime               string            `json:"datetime"`
	Cycle                  int               `json:"cycle"`
	BatchNumber            string            `json:"batch_number"`
	ReferenceNumber        string            `json:"reference_number"`
}

func (t RecurringTransaction) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.MandateReferenceNumber, validation.Required),
		validation.Field(&t.TransactionID, validation.Required),
		validation.Field(&t.Datetime, validation.Required),
		validation.Field(&t.Cycle, validation.Required, validation.Min(1)),
		validation.Field(&t.Status, validation.Min(TransactionNew), validation.Max(TransactionFailed)),
	)
}

func (t RecurringTransaction) IsFirstPayment() bool {
	return t.Cycle == 1
}

func (t RecurringTransaction) Succeeded() bool {
	return t.Status == TransactionSuccessful
}

// =====================================================
// CALLBACK LOG
// =====================================================

type CallbackLog struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	PaymentMethod   string          `json:"payment_method"`
	RecordType      string          `json:"record_type"`
	Body            json.RawMessage `json:"body"`
	Checksum        string          `json:"checksum"`
	IsValid         bool            `json:"is_valid"`
	IsProcessed     bool            `json:"is_processed"`
	ProcessingError *string         `json:"processing_error,omitempty"`
	ReceivedAt      time.Time       `json:"received_at"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
}

// =====================================================
// SWEEP
// =====================================================

type SweepReport struct {
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Methods        []string  `json:"methods"`
	SkippedMethods []string  `json:"skipped_methods"`
	Scanned        int       `json:"scanned"`
	SkippedOrders  int       `json:"skipped_orders"`
	Requeried      int       `json:"requeried"`
	Applied        int       `json:"applied"`
	Failed         int       `json:"failed"`
}

// =====================================================
// DOMAIN EVENTS
// =====================================================

// OrderEvent is written to the outbox after a state change.
type OrderEvent struct {
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
