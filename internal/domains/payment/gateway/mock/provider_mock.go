package mock

import (
	"context"
	"fmt"
	"sync"

	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/gateway/bayarcash"
	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// MOCK BAYARCASH PROVIDER FOR TESTING
// =====================================================

type MockProvider struct {
	mu sync.Mutex

	shouldFailIntent  bool
	shouldFailRequery bool
	requeryResults    map[string]*model.TransactionResult
	requeryErrors     map[string]error

	IntentRequests      []gateway.PaymentIntentRequest
	EnrollmentRequests  []gateway.EnrollmentRequest
	TerminatedMandates  []string
	RequeriedIDs        []string
	VerifyCallbackCalls int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		requeryResults: make(map[string]*model.TransactionResult),
		requeryErrors:  make(map[string]error),
	}
}

func (m *MockProvider) CreatePaymentIntent(
	ctx context.Context,
	creds gateway.Credentials,
	req gateway.PaymentIntentRequest,
) (*gateway.RedirectResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFailIntent {
		return nil, model.NewProviderError(500, "", fmt.Errorf("mock payment intent failed"))
	}
	m.IntentRequests = append(m.IntentRequests, req)

	return &gateway.RedirectResponse{
		ID:  "pi_" + req.OrderNumber,
		URL: fmt.Sprintf("https://mock-bayarcash.test/pay/%s?channel=%d", req.OrderNumber, req.PaymentChannel),
	}, nil
}

func (m *MockProvider) CreateDirectDebitEnrollment(
	ctx context.Context,
	creds gateway.Credentials,
	req gateway.EnrollmentRequest,
) (*gateway.RedirectResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFailIntent {
		return nil, model.NewProviderError(500, "", fmt.Errorf("mock enrollment failed"))
	}
	m.EnrollmentRequests = append(m.EnrollmentRequests, req)

	return &gateway.RedirectResponse{
		URL: "https://mock-bayarcash.test/mandates/" + req.OrderNumber,
	}, nil
}

func (m *MockProvider) CreateDirectDebitTermination(
	ctx context.Context,
	creds gateway.Credentials,
	mandateID string,
	req gateway.TerminationRequest,
) (*gateway.RedirectResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TerminatedMandates = append(m.TerminatedMandates, mandateID)
	return &gateway.RedirectResponse{
		URL: "https://mock-bayarcash.test/mandates/" + mandateID + "/terminate",
	}, nil
}

func (m *MockProvider) RequeryTransaction(
	ctx context.Context,
	transactionID, bearerToken string,
	sandbox bool,
) (*model.TransactionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequeriedIDs = append(m.RequeriedIDs, transactionID)

	if m.shouldFailRequery {
		return nil, model.NewProviderError(503, "", fmt.Errorf("mock requery failed"))
	}
	if err, ok := m.requeryErrors[transactionID]; ok {
		return nil, err
	}
	result, ok := m.requeryResults[transactionID]
	if !ok {
		return nil, model.NewProviderError(404, "", fmt.Errorf("unknown transaction %s", transactionID))
	}
	copied := *result
	return &copied, nil
}

// VerifyCallbackChecksum uses the real algorithm so tests exercise tampering.
func (m *MockProvider) VerifyCallbackChecksum(payload model.CallbackPayload, secretKey string) bool {
	m.mu.Lock()
	m.VerifyCallbackCalls++
	m.mu.Unlock()

	return bayarcash.VerifyChecksum(payload, secretKey)
}

// SetRequeryResult scripts the result returned for a transaction id
func (m *MockProvider) SetRequeryResult(transactionID string, result model.TransactionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeryResults[transactionID] = &result
}

// SetRequeryError scripts a failure for a transaction id
func (m *MockProvider) SetRequeryError(transactionID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeryErrors[transactionID] = err
}

// SetFailIntent sets whether intent and enrollment creation should fail
func (m *MockProvider) SetFailIntent(shouldFail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailIntent = shouldFail
}

// SetFailRequery sets whether every requery should fail
func (m *MockProvider) SetFailRequery(shouldFail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailRequery = shouldFail
}

// RequeryCount returns how many requeries were made
func (m *MockProvider) RequeryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RequeriedIDs)
}

var _ gateway.Provider = (*MockProvider)(nil)
