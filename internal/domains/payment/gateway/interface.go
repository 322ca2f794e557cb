package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Provider is the Bayarcash API surface used by the dispatcher and the sweeper.
// Every call is a single attempt; retries belong to the caller.
type Provider interface {
	// CreatePaymentIntent registers a one-shot payment and returns the hosted payment page
	CreatePaymentIntent(ctx context.Context, creds Credentials, req PaymentIntentRequest) (*RedirectResponse, error)

	// CreateDirectDebitEnrollment registers a mandate enrollment
	CreateDirectDebitEnrollment(ctx context.Context, creds Credentials, req EnrollmentRequest) (*RedirectResponse, error)

	// CreateDirectDebitTermination asks the bank to terminate a mandate
	CreateDirectDebitTermination(ctx context.Context, creds Credentials, mandateID string, req TerminationRequest) (*RedirectResponse, error)

	// RequeryTransaction fetches the authoritative status of a transaction
	RequeryTransaction(ctx context.Context, transactionID, bearerToken string, sandbox bool) (*model.TransactionResult, error)

	// VerifyCallbackChecksum checks the HMAC carried by a callback
	VerifyCallbackChecksum(payload model.CallbackPayload, secretKey string) bool
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

// Credentials are the merchant credentials of one payment method.
type Credentials struct {
	PortalKey    string
	BearerToken  string
	APISecretKey string
	Sandbox      bool
}

func CredentialsFrom(s *model.MethodSettings) Credentials {
	return Credentials{
		PortalKey:    s.PortalKey,
		BearerToken:  s.BearerToken,
		APISecretKey: s.APISecretKey,
		Sandbox:      s.Sandbox,
	}
}

// PaymentIntentRequest creates a one-shot payment
type PaymentIntentRequest struct {
	PaymentChannel int
	OrderNumber    string
	Amount         decimal.Decimal
	PayerName      string
	PayerEmail     string
	PayerPhone     string
	Description    string
	ReturnURL      string
}

// EnrollmentRequest creates a direct debit mandate
type EnrollmentRequest struct {
	OrderNumber       string
	Amount            decimal.Decimal
	PayerName         string
	PayerEmail        string
	PayerPhone        string
	PayerIDType       string
	PayerID           string
	FrequencyMode     string // WK or MT
	ApplicationReason string
	Metadata          map[string]string
	ReturnURL         string
	SuccessURL        string
	FailedURL         string
}

// TerminationRequest terminates a direct debit mandate
type TerminationRequest struct {
	ApplicationReason string
	ReturnURL         string
}

// RedirectResponse carries the hosted page the payer is sent to.
type RedirectResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
