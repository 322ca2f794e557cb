package model

import "time"

// =====================================================
// PAYMENT METHODS
// =====================================================
const (
	MethodFPX          = "bayarcash-wc"
	MethodDirectDebit  = "directdebit-wc"
	MethodCreditCard   = "linecredit-wc"
	MethodDuitNowOBW   = "duitnow-wc"
	MethodDuitNowQR    = "duitnowqr-wc"
	MethodSPayLater    = "duitnowshopee-wc"
	MethodBoostPayFlex = "duitnowboost-wc"
	MethodQRIS         = "duitnowqris-wc"
	MethodQRISWallet   = "duitnowqriswallet-wc"
)

// SweepableMethods are the one-shot methods the requery sweep reconciles by default.
var SweepableMethods = []string{
	MethodFPX,
	MethodDuitNowOBW,
	MethodCreditCard,
}

// =====================================================
// ORDER STATUS
// =====================================================
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// =====================================================
// SUBSCRIPTION STATUS
// =====================================================
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusOnHold    SubscriptionStatus = "on-hold"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// =====================================================
// CALLBACK RECORD TYPES
// =====================================================
const (
	RecordTypePreTransaction       = "pre_transaction"
	RecordTypeTransactionReceipt   = "transaction_receipt"
	RecordTypeBankApproval         = "bank_approval"
	RecordTypeRecurringTransaction = "transaction"

	// ApplicationTypeTermination marks a bank approval for a mandate cancellation.
	ApplicationTypeTermination = "03"
)

// =====================================================
// ORDER / SUBSCRIPTION METADATA KEYS
// =====================================================
const (
	MetaTransactionID        = "bayarcash_wc_transaction_id"
	MetaMandateID            = "bayarcash_mandate_id"
	MetaMandateReference     = "bayarcash_mandate_reference"
	MetaBankCode             = "bayarcash_bank_code"
	MetaIdentificationType   = "bayarcash_identification_type"
	MetaIdentificationNumber = "bayarcash_identification_number"
	MetaCancellationData     = "bayarcash_cancellation_data"
)

// =====================================================
// RETURN TOKENS
// =====================================================
const (
	PurposeCheckout    = "process_payment"
	PurposeDirectDebit = "directdebit"

	KeyCheckout      = "bayarcash_payment"
	KeyFailedMarker  = "bc-woo-failed"
	MarkerCheckout   = "bc-woo-return"
	MarkerSuccess    = "bc-woo-success"
	MarkerFailed     = "bc-woo-failed"
	MarkerInitial    = "bc-woo-initial"
	MarkerTerminated = "bc-woo-terminated"
)

// =====================================================
// LOCKS & LEDGER KEYS
// =====================================================
const (
	LockKeyOrderPrefix    = "bayarcash:order:"
	LockKeySweep          = "bayarcash:sweep"
	TokenLedgerPrefix     = "bayarcash:token:"
	DefaultOrderLockTTL   = 30 * time.Second
	DefaultTokenLedgerTTL = 24 * time.Hour
)

// =====================================================
// PAYER DEFAULTS
// =====================================================
const (
	DefaultPhone            = "0123456789"
	DefaultDirectDebitPhone = "0123654789"
	DefaultCurrency         = "MYR"

	// Amount tolerance when comparing a renewal total with the debited amount.
	RenewalAmountTolerance = "0.01"

	// order,idType,idNumber,itemCount
	DirectDebitTokenParts = 4
)

// =====================================================
// SWEEP DEFAULTS
// =====================================================
const (
	DefaultSweepBatchSize = 30
	DefaultSweepCron      = "*/5 * * * *"
)

// =====================================================
// EVENT TYPES
// =====================================================
const (
	AggregateOrder        = "order"
	AggregateSubscription = "subscription"

	EventPaymentCompleted   = "order.payment_completed"
	EventPaymentFailed      = "order.payment_failed"
	EventMandateApproved    = "subscription.mandate_approved"
	EventMandateTerminated  = "subscription.mandate_terminated"
	EventRenewalPaid        = "subscription.renewal_paid"
	EventRenewalPaymentFail = "subscription.renewal_failed"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeInvalidToken          = "BC001"
	ErrCodeInvalidPayload        = "BC002"
	ErrCodeChecksumMismatch      = "BC003"
	ErrCodeOrderNotFound         = "BC004"
	ErrCodeSubscriptionNotFound  = "BC005"
	ErrCodeMissingCredentials    = "BC006"
	ErrCodeOrderAlreadyCompleted = "BC007"
	ErrCodeSweepInProgress       = "BC008"
	ErrCodeCancellationPrevented = "BC009"
)
