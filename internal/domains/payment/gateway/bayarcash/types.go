package bayarcash

import (
	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// WIRE TYPES
// =====================================================

type paymentIntentBody struct {
	PortalKey            string `json:"portal_key"`
	PaymentChannel       int    `json:"payment_channel"`
	OrderNumber          string `json:"order_number"`
	Amount               string `json:"amount"`
	PayerName            string `json:"payer_name"`
	PayerEmail           string `json:"payer_email"`
	PayerTelephoneNumber string `json:"payer_telephone_number"`
	Description          string `json:"description"`
	ReturnURL            string `json:"return_url"`
	Checksum             string `json:"checksum"`
}

func (b paymentIntentBody) values() map[string]string {
	return map[string]string{
		"payment_channel": itoa(b.PaymentChannel),
		"order_number":    b.OrderNumber,
		"amount":          b.Amount,
		"payer_name":      b.PayerName,
		"payer_email":     b.PayerEmail,
	}
}

type enrollmentBody struct {
	PortalKey            string `json:"portal_key"`
	OrderNumber          string `json:"order_number"`
	Amount               string `json:"amount"`
	PayerName            string `json:"payer_name"`
	PayerEmail           string `json:"payer_email"`
	PayerTelephoneNumber string `json:"payer_telephone_number"`
	PayerIDType          string `json:"payer_id_type"`
	PayerID              string `json:"payer_id"`
	FrequencyMode        string `json:"frequency_mode"`
	ApplicationReason    string `json:"application_reason"`
	Metadata             string `json:"metadata,omitempty"`
	ReturnURL            string `json:"return_url"`
	SuccessURL           string `json:"success_url,omitempty"`
	FailedURL            string `json:"failed_url,omitempty"`
	Checksum             string `json:"checksum"`
}

func (b enrollmentBody) values() map[string]string {
	return map[string]string{
		"order_number":           b.OrderNumber,
		"amount":                 b.Amount,
		"payer_name":             b.PayerName,
		"payer_email":            b.PayerEmail,
		"payer_telephone_number": b.PayerTelephoneNumber,
		"payer_id_type":          b.PayerIDType,
		"payer_id":               b.PayerID,
		"frequency_mode":         b.FrequencyMode,
		"application_reason":     b.ApplicationReason,
	}
}

type terminationBody struct {
	ApplicationReason string `json:"application_reason"`
	ReturnURL         string `json:"return_url,omitempty"`
	Checksum          string `json:"checksum"`
}

type redirectBody struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// transactionBody is the requery payload; the console uses "id" for the transaction id.
type transactionBody struct {
	ID                      string                  `json:"id"`
	TransactionID           string                  `json:"transaction_id"`
	OrderNumber             string                  `json:"order_number"`
	Status                  model.TransactionStatus `json:"status"`
	StatusDescription       string                  `json:"status_description"`
	ExchangeReferenceNumber string                  `json:"exchange_reference_number"`
	ExchangeTransactionID   string                  `json:"exchange_transaction_id"`
	PayerName               string                  `json:"payer_name"`
	PayerEmail              string                  `json:"payer_email"`
	PayerBankName           string                  `json:"payer_bank_name"`
	Amount                  decimal.Decimal         `json:"amount"`
	Currency                string                  `json:"currency"`
	Datetime                string                  `json:"datetime"`
}

func (t transactionBody) toResult() *model.TransactionResult {
	id := t.ID
	if id == "" {
		id = t.TransactionID
	}
	return &model.TransactionResult{
		TransactionID:           id,
		OrderNumber:             t.OrderNumber,
		Status:                  t.Status,
		StatusDescription:       t.StatusDescription,
		ExchangeReferenceNumber: t.ExchangeReferenceNumber,
		ExchangeTransactionID:   t.ExchangeTransactionID,
		PayerName:               t.PayerName,
		PayerEmail:              t.PayerEmail,
		PayerBankName:           t.PayerBankName,
		Amount:                  t.Amount,
		Currency:                t.Currency,
		Datetime:                t.Datetime,
	}
}
