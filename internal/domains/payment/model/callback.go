package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CallbackPayload is the raw key/value body of a provider callback or browser return.
type CallbackPayload map[string]string

func (p CallbackPayload) Get(key string) string {
	return strings.TrimSpace(p[key])
}

func (p CallbackPayload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p CallbackPayload) RecordType() string {
	return p.Get("record_type")
}

func (p CallbackPayload) OrderNumber() string {
	return p.Get("order_number")
}

func (p CallbackPayload) Checksum() string {
	return p.Get("checksum")
}

// Require checks that every field is present and non-empty.
func (p CallbackPayload) Require(fields ...string) error {
	keys := make([]*validation.KeyRules, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, validation.Key(f, validation.Required))
	}

	err := validation.Validate(map[string]string(p), validation.Map(keys...).AllowExtraKeys())
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		for k := range verrs {
			missing = append(missing, k)
		}
		sort.Strings(missing)
		return NewMissingFieldsError(missing...)
	}
	return NewInvalidPayloadError(err.Error())
}

// =====================================================
// TYPED RECORDS
// =====================================================

// TransactionResult reads a one-shot transaction receipt.
func (p CallbackPayload) TransactionResult() (*TransactionResult, error) {
	if err := p.Require("order_number", "status"); err != nil {
		return nil, err
	}
	status, err := ParseTransactionStatus(p.Get("status"))
	if err != nil {
		return nil, NewInvalidPayloadError(err.Error())
	}
	amount, err := parseAmount(p.Get("amount"))
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		TransactionID:           p.Get("transaction_id"),
		OrderNumber:             p.OrderNumber(),
		Status:                  status,
		StatusDescription:       p.Get("status_description"),
		ExchangeReferenceNumber: p.Get("exchange_reference_number"),
		ExchangeTransactionID:   p.Get("exchange_transaction_id"),
		PayerName:               p.Get("payer_name"),
		PayerEmail:              p.Get("payer_email"),
		PayerBankName:           p.Get("payer_bank_name"),
		Amount:                  amount,
		Currency:                p.Get("currency"),
		Datetime:                p.Get("datetime"),
	}, nil
}

func (p CallbackPayload) PreTransaction() (*PreTransaction, error) {
	if err := p.Require("transaction_id", "order_number", "exchange_reference_number"); err != nil {
		return nil, err
	}
	return &PreTransaction{
		OrderNumber:             p.OrderNumber(),
		TransactionID:           p.Get("transaction_id"),
		ExchangeReferenceNumber: p.Get("exchange_reference_number"),
	}, nil
}

func (p CallbackPayload) MandateApproval() (*MandateApproval, error) {
	if err := p.Require("order_number", "approval_status"); err != nil {
		return nil, err
	}
	status, err := ParseApprovalStatus(p.Get("approval_status"))
	if err != nil {
		return nil, NewInvalidPayloadError(err.Error())
	}
	return &MandateApproval{
		OrderNumber:            p.OrderNumber(),
		ApprovalStatus:         status,
		ApplicationType:        p.Get("application_type"),
		MandateID:              p.Get("mandate_id"),
		MandateReferenceNumber: p.Get("mandate_reference_number"),
		ApprovalDate:           p.Get("approval_date"),
		PayerBankCode:          p.Get("payer_bank_code"),
		PayerBankAccountNo:     p.Get("payer_bank_account_no"),
	}, nil
}

func (p CallbackPayload) RecurringTransaction() (*RecurringTransaction, error) {
	if err := p.Require("mandate_reference_number", "status", "amount", "transaction_id", "datetime", "cycle"); err != nil {
		return nil, err
	}
	status, err := ParseTransactionStatus(p.Get("status"))
	if err != nil {
		return nil, NewInvalidPayloadError(err.Error())
	}
	amount, err := parseAmount(p.Get("amount"))
	if err != nil {
		return nil, err
	}
	cycle, err := strconv.Atoi(p.Get("cycle"))
	if err != nil || cycle < 1 {
		return nil, NewInvalidPayloadError(fmt.Sprintf("invalid cycle %q", p.Get("cycle")))
	}

	return &RecurringTransaction{
		MandateID:              p.Get("mandate_id"),
		MandateReferenceNumber: p.Get("mandate_reference_number"),
		TransactionID:          p.Get("transaction_id"),
		Status:                 status,
		StatusDescription:      p.Get("status_description"),
		Amount:                 amount,
		Datetime:               p.Get("datetime"),
		Cycle:                  cycle,
		BatchNumber:            p.Get("batch_number"),
		ReferenceNumber:        p.Get("reference_number"),
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, NewInvalidPayloadError(fmt.Sprintf("invalid amount %q", raw))
	}
	return amount, nil
}
