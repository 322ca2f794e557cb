package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// INITIATE PAYMENT
// =====================================================

// InitiatePaymentRequest carries the checkout fields direct debit enrollment needs.
type InitiatePaymentRequest struct {
	IdentificationType   string `json:"identification_type" form:"identification_type"`
	IdentificationNumber string `json:"identification_number" form:"identification_number"`
}

// ValidateForDirectDebit requires the payer identification used by the mandate.
func (r *InitiatePaymentRequest) ValidateForDirectDebit() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IdentificationType, validation.Required, validation.In("1", "2", "3", "4")),
		validation.Field(&r.IdentificationNumber, validation.Required, validation.Length(1, 32)),
	)
}

type InitiatePaymentResponse struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	RedirectURL   string `json:"redirect_url"`
}

// =====================================================
// RETURN / WEBHOOK OUTCOMES
// =====================================================

// ReturnOutcome tells the transport where to send the payer's browser.
type ReturnOutcome struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

type WebhookAck struct {
	OrderNumber string `json:"order_number"`
	RecordType  string `json:"record_type"`
	Status      string `json:"status"`
}

// =====================================================
// ADMIN REQUESTS
// =====================================================

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason, validation.Length(0, 255)),
	)
}

type TerminateMandateResponse struct {
	SubscriptionID string `json:"subscription_id"`
	MandateID      string `json:"mandate_id"`
	RedirectURL    string `json:"redirect_url"`
}

type ChannelResponse struct {
	Method        string          `json:"method"`
	Title         string          `json:"title"`
	MethodTitle   string          `json:"method_title"`
	ChannelNumber int             `json:"channel_number"`
	Recurring     bool            `json:"recurring"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
	Enabled       bool            `json:"enabled"`
	Sandbox       bool            `json:"sandbox"`
	Configured    bool            `json:"configured"`
}

// =====================================================
// REPORTS
// =====================================================

type CallbackLogFilter struct {
	From          time.Time
	To            time.Time
	PaymentMethod string
	Limit         int
}

func (f *CallbackLogFilter) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.From, validation.Required),
		validation.Field(&f.To, validation.Required, validation.Min(f.From)),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(10000)),
	)
}

// =====================================================
// TASK PAYLOADS
// =====================================================

type SweepPayload struct {
	Methods []string `json:"methods,omitempty"`
}

type ClearCartPayload struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
}
