package bayarcash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// BAYARCASH CHECKSUM
// =====================================================
//
// Algorithm:
// 1. Pick the canonical field set for the message
// 2. Sort the field names ascending
// 3. Join the values (not the names) with "|"
// 4. HMAC-SHA256 with the method's API secret key, lowercase hex

var (
	paymentIntentFields = []string{
		"payment_channel", "order_number", "amount", "payer_name", "payer_email",
	}

	enrollmentFields = []string{
		"order_number", "amount", "payer_name", "payer_email", "payer_telephone_number",
		"payer_id_type", "payer_id", "frequency_mode", "application_reason",
	}

	terminationFields = []string{
		"mandate_id", "application_reason",
	}

	transactionCallbackFields = []string{
		"record_type", "transaction_id", "exchange_reference_number", "exchange_transaction_id",
		"order_number", "currency", "amount", "payer_name", "payer_email", "payer_bank_name",
		"status", "status_description", "datetime",
	}

	preTransactionCallbackFields = []string{
		"record_type", "exchange_reference_number", "order_number",
	}

	bankApprovalCallbackFields = []string{
		"record_type", "approval_date", "approval_status", "mandate_id", "mandate_reference_number",
		"order_number", "payer_bank_code", "payer_bank_account_no", "application_type",
	}

	recurringCallbackFields = []string{
		"record_type", "batch_number", "mandate_id", "mandate_reference_number", "transaction_id",
		"datetime", "reference_number", "amount", "status", "status_description", "cycle",
	}
)

// Checksum computes the canonical HMAC over the given fields of values.
// Missing fields contribute an empty string.
func Checksum(values map[string]string, fields []string, secretKey string) string {
	keys := make([]string, len(fields))
	copy(keys, fields)
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = values[k]
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// CallbackFields returns the signed field set for a callback record type.
func CallbackFields(recordType string) []string {
	switch recordType {
	case model.RecordTypePreTransaction:
		return preTransactionCallbackFields
	case model.RecordTypeBankApproval:
		return bankApprovalCallbackFields
	case model.RecordTypeRecurringTransaction:
		return recurringCallbackFields
	default:
		return transactionCallbackFields
	}
}

// SignCallback computes the checksum a genuine callback would carry.
func SignCallback(payload model.CallbackPayload, secretKey string) string {
	return Checksum(payload, CallbackFields(payload.RecordType()), secretKey)
}

// VerifyChecksum compares the payload's checksum in constant time.
func VerifyChecksum(payload model.CallbackPayload, secretKey string) bool {
	received := payload.Checksum()
	if received == "" || secretKey == "" {
		return false
	}
	expected := SignCallback(payload, secretKey)
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}
