package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrInvalidToken          = errors.New("invalid return token")
	ErrInvalidPayload        = errors.New("invalid callback payload")
	ErrChecksumMismatch      = errors.New("callback checksum mismatch")
	ErrOrderNotFound         = errors.New("order not found")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrMissingCredentials    = errors.New("payment method credentials missing")
	ErrOrderAlreadyCompleted = errors.New("order already completed")
	ErrSweepInProgress       = errors.New("requery sweep already running")
	ErrCancellationPrevented = errors.New("direct debit order cannot be cancelled")
	ErrLockNotAcquired       = errors.New("order lock not acquired")

	// Provider failures
	ErrProvider   = errors.New("bayarcash request failed")
	ErrValidation = errors.New("bayarcash rejected request")
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewInvalidTokenError(reason string) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidToken,
		fmt.Sprintf("Invalid return token: %s", reason),
		ErrInvalidToken,
	)
}

func NewInvalidPayloadError(reason string) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidPayload,
		reason,
		ErrInvalidPayload,
	)
}

func NewMissingFieldsError(fields ...string) *PaymentError {
	sort.Strings(fields)
	return NewInvalidPayloadError(fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")))
}

func NewChecksumMismatchError(orderNumber string) *PaymentError {
	return NewPaymentError(
		ErrCodeChecksumMismatch,
		fmt.Sprintf("Checksum verification failed for order %s", orderNumber),
		ErrChecksumMismatch,
	)
}

func NewOrderNotFoundError(orderID string) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderNotFound,
		fmt.Sprintf("Order not found: %s", orderID),
		ErrOrderNotFound,
	)
}

func NewSubscriptionNotFoundError(ref string) *PaymentError {
	return NewPaymentError(
		ErrCodeSubscriptionNotFound,
		fmt.Sprintf("No subscription found for %s", ref),
		ErrSubscriptionNotFound,
	)
}

func NewMissingCredentialsError(method string) *PaymentError {
	return NewPaymentError(
		ErrCodeMissingCredentials,
		fmt.Sprintf("Payment method %s is not configured", method),
		ErrMissingCredentials,
	)
}

func NewOrderAlreadyCompletedError(orderID string) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderAlreadyCompleted,
		fmt.Sprintf("Order %s is already completed", orderID),
		ErrOrderAlreadyCompleted,
	)
}

func NewSweepInProgressError() *PaymentError {
	return NewPaymentError(
		ErrCodeSweepInProgress,
		"Another requery sweep holds the lease",
		ErrSweepInProgress,
	)
}

func NewCancellationPreventedError(orderID string) *PaymentError {
	return NewPaymentError(
		ErrCodeCancellationPrevented,
		fmt.Sprintf("Order %s is paid by direct debit and cannot be cancelled manually", orderID),
		ErrCancellationPrevented,
	)
}

// =====================================================
// PROVIDER ERRORS
// =====================================================

// ValidationError is a structured 4xx rejection from the provider API.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("bayarcash validation failed: %s", e.Message)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return fmt.Sprintf("bayarcash validation failed: %s [%s]", e.Message, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ProviderError covers transport failures and unexpected provider responses.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("bayarcash request failed with status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("bayarcash request failed: %v", e.Err)
	default:
		return fmt.Sprintf("bayarcash request failed with status %d", e.StatusCode)
	}
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProvider}
	}
	return []error{ErrProvider, e.Err}
}

func NewProviderError(statusCode int, body string, err error) *ProviderError {
	return &ProviderError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}
