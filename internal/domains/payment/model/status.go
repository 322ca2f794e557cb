package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TransactionStatus is the provider's numeric transaction status.
type TransactionStatus int

const (
	TransactionNew          TransactionStatus = 0
	TransactionPending      TransactionStatus = 1
	TransactionUnsuccessful TransactionStatus = 2
	TransactionSuccessful   TransactionStatus = 3
	TransactionCancelled    TransactionStatus = 4
	TransactionFailed       TransactionStatus = 5
)

var transactionStatusNames = map[TransactionStatus]string{
	TransactionNew:          "New",
	TransactionPending:      "Pending",
	TransactionUnsuccessful: "Unsuccessful",
	TransactionSuccessful:   "Successful",
	TransactionCancelled:    "Cancelled",
	TransactionFailed:       "Failed",
}

func (s TransactionStatus) String() string {
	if name, ok := transactionStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s TransactionStatus) Valid() bool {
	_, ok := transactionStatusNames[s]
	return ok
}

// IsInFlight reports whether the provider has not decided the payment yet.
func (s TransactionStatus) IsInFlight() bool {
	return s == TransactionNew || s == TransactionPending
}

// UnmarshalJSON accepts both 3 and "3".
func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("empty transaction status")
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid transaction status %q: %w", string(data), err)
	}
	*s = TransactionStatus(v)
	return nil
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// ParseTransactionStatus parses a form value into a known status.
func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid transaction status %q", raw)
	}
	status := TransactionStatus(v)
	if !status.Valid() {
		return 0, fmt.Errorf("unknown transaction status %d", v)
	}
	return status, nil
}

// ApprovalStatus is the bank decision on a direct debit mandate.
type ApprovalStatus int

const (
	ApprovalNew                ApprovalStatus = 0
	ApprovalWaiting            ApprovalStatus = 1
	ApprovalVerificationFailed ApprovalStatus = 2
	ApprovalActive             ApprovalStatus = 3
	ApprovalTerminated         ApprovalStatus = 4
	ApprovalApproved           ApprovalStatus = 5
	ApprovalRejected           ApprovalStatus = 6
	ApprovalCancelled          ApprovalStatus = 7
	ApprovalError              ApprovalStatus = 8
)

var approvalStatusNames = map[ApprovalStatus]string{
	ApprovalNew:                "New",
	ApprovalWaiting:            "Waiting Approval",
	ApprovalVerificationFailed: "Verification Failed",
	ApprovalActive:             "Active",
	ApprovalTerminated:         "Terminated",
	ApprovalApproved:           "Approved",
	ApprovalRejected:           "Rejected",
	ApprovalCancelled:          "Cancelled",
	ApprovalError:              "Error",
}

func (s ApprovalStatus) String() string {
	if name, ok := approvalStatusNames[s]; ok {
		return name
	}
	return "Unknown Status"
}

func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid approval status %q", raw)
	}
	return ApprovalStatus(v), nil
}
