package service

import (
	"fmt"
	"strings"
	"time"

	"bayarcash-backend/internal/domains/payment/gateway/bayarcash"
	"bayarcash-backend/internal/domains/payment/model"
)

const (
	noteDateLayout = "2 January 2006"
	noteTimeLayout = "03:04:05 PM"

	notePaymentSuccessful = "Bayarcash Payment successful"
	notePaymentFailed     = "Bayarcash Payment failed"

	noteEnrollmentVerified  = "Bank verification successful. RM 1.00 deducted from customer Bank account."
	noteEnrollmentOnHold    = "Direct Debit enrollment successful, awaiting first payment."
	noteEnrollmentFailed    = "Bank verification failed"
	noteApprovalRejected    = "Bank approval rejected."
	noteCancelPrevented     = "Attempted to cancel Direct Debit order. Cancellation prevented."
	noteMandateTerminated   = "Subscription cancelled due to bank approval of cancellation request."
	noteOrderTerminated     = "Direct Debit mandate terminated by the bank."
	noteSubscriptionActive  = "Subscription activated after bank approval."
	noteFirstPaymentFailed  = "First Direct Debit payment failed."
	noteSubscriptionOnHold  = "Payment failed, subscription put on-hold."
	noteSubscriptionRenewed = "Direct Debit renewal payment received."
)

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseProviderTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// transactionNote renders the receipt note for a one-shot result. Identical
// inputs always render identical text so duplicate callbacks dedupe.
func transactionNote(title string, r model.TransactionResult, sandbox bool) string {
	date, clock := r.Datetime, ""
	if t, ok := parseProviderTime(r.Datetime); ok {
		date, clock = t.Format(noteDateLayout), t.Format(noteTimeLayout)
	}

	exchange := r.ExchangeReferenceNumber
	if exchange != "" {
		exchange = fmt.Sprintf("%s (%s)", exchange, bayarcash.TransactionConsoleURL(sandbox, exchange))
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Order Number: %s\n", r.OrderNumber)
	fmt.Fprintf(&b, "Transaction ID: %s\n", r.TransactionID)
	fmt.Fprintf(&b, "Date: %s\n", date)
	fmt.Fprintf(&b, "Time: %s\n", clock)
	fmt.Fprintf(&b, "Exchange Number: %s\n", exchange)
	fmt.Fprintf(&b, "Buyer Name: %s\n", r.PayerName)
	fmt.Fprintf(&b, "Buyer Email: %s\n", r.PayerEmail)
	fmt.Fprintf(&b, "Status: %s\n", r.Status.String())
	fmt.Fprintf(&b, "Status Description: %s", r.StatusDescription)
	return b.String()
}

func recurringNote(t model.RecurringTransaction) string {
	title := "Renewal payment"
	if t.IsFirstPayment() {
		title = "First payment"
	}
	outcome := "failed"
	if t.Succeeded() {
		outcome = "successful"
	}

	lines := []string{
		fmt.Sprintf("%s %s:", title, outcome),
		"- Date/Time: " + t.Datetime,
		"- Amount: RM " + t.Amount.StringFixed(2),
		"- Transaction ID: " + t.TransactionID,
		"- Mandate ID: " + t.MandateID,
		"- Mandate Reference: " + t.MandateReferenceNumber,
		"- Batch Number: " + t.BatchNumber,
		"- Reference Number: " + t.ReferenceNumber,
		fmt.Sprintf("- Cycle: %d", t.Cycle),
		"- Status: " + t.StatusDescription,
	}
	return strings.Join(lines, "\n")
}

func approvalNote(a model.MandateApproval) string {
	return fmt.Sprintf(
		"Bank approval received. Status: %s. Mandate ID: %s, Reference: %s, Date: %s, Bank Code: %s",
		a.ApprovalStatus.String(),
		orNA(a.MandateID),
		orNA(a.MandateReferenceNumber),
		orNA(a.ApprovalDate),
		orNA(a.PayerBankCode),
	)
}

func terminationNote(a model.MandateApproval) string {
	return fmt.Sprintf(
		"Subscription cancelled. Bank approval received. Mandate ID: %s, Reference: %s, Date: %s",
		orNA(a.MandateID),
		orNA(a.MandateReferenceNumber),
		orNA(a.ApprovalDate),
	)
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
