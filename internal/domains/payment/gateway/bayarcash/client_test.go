package bayarcash

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) gateway.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{
		APIBaseURL:            srv.URL + "/v3",
		SandboxAPIBaseURL:     srv.URL + "/sandbox/v3",
		ConsoleBaseURL:        srv.URL,
		SandboxConsoleBaseURL: srv.URL + "/sandbox-console",
		Timeout:               5 * time.Second,
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func testCreds() gateway.Credentials {
	return gateway.Credentials{
		PortalKey:    "portal-1",
		BearerToken:  "bearer-1",
		APISecretKey: "secret-1",
	}
}

func TestRequeryTransaction_NestedData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/transactions/trx_1", r.URL.Path)
		assert.Equal(t, "Bearer bearer-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":"trx_1","order_number":"100","status":3,"amount":"25.50","exchange_reference_number":"1151811011"}}`))
	})

	result, err := client.RequeryTransaction(context.Background(), "trx_1", "bearer-1", false)
	require.NoError(t, err)
	assert.Equal(t, "trx_1", result.TransactionID)
	assert.Equal(t, "100", result.OrderNumber)
	assert.Equal(t, model.TransactionSuccessful, result.Status)
	assert.True(t, decimal.RequireFromString("25.50").Equal(result.Amount))
	assert.Equal(t, "1151811011", result.ExchangeReferenceNumber)
}

func TestRequeryTransaction_FlatBodyAndSandbox(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sandbox-console/api/v2/transactions/trx_2", r.URL.Path)
		_, _ = w.Write([]byte(`{"transaction_id":"trx_2","order_number":"101","status":"2"}`))
	})

	result, err := client.RequeryTransaction(context.Background(), "trx_2", "bearer-1", true)
	require.NoError(t, err)
	assert.Equal(t, "trx_2", result.TransactionID)
	assert.Equal(t, model.TransactionUnsuccessful, result.Status)
}

func TestRequeryTransaction_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"Not found"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "invalid json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			result, err := client.RequeryTransaction(context.Background(), "trx", "bearer-1", false)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrProvider))

			var perr *model.ProviderError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.status, perr.StatusCode)
		})
	}
}

func TestCreatePaymentIntent_SignsBody(t *testing.T) {
	var received map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/payment-intents", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &received))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pi_1","url":"https://pay.example/pi_1"}`))
	})

	resp, err := client.CreatePaymentIntent(context.Background(), testCreds(), gateway.PaymentIntentRequest{
		PaymentChannel: 1,
		OrderNumber:    "100",
		Amount:         decimal.NewFromInt(10),
		PayerName:      "Ali Bin Abu",
		PayerEmail:     "ali@example.com",
		PayerPhone:     "0123456789",
		Description:    "Payment for Order 100",
		ReturnURL:      "https://shop.example/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/pi_1", resp.URL)

	assert.Equal(t, "portal-1", received["portal_key"])
	assert.Equal(t, "10.00", received["amount"])
	expected := Checksum(map[string]string{
		"payment_channel": "1",
		"order_number":    "100",
		"amount":          "10.00",
		"payer_name":      "Ali Bin Abu",
		"payer_email":     "ali@example.com",
	}, paymentIntentFields, "secret-1")
	assert.Equal(t, expected, received["checksum"])
}

func TestCreatePaymentIntent_ValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The given data was invalid.","errors":{"payer_email":["The payer email must be a valid email address."]}}`))
	})

	_, err := client.CreatePaymentIntent(context.Background(), testCreds(), gateway.PaymentIntentRequest{
		PaymentChannel: 1,
		OrderNumber:    "100",
		Amount:         decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, http.StatusUnprocessableEntity, verr.StatusCode)
	assert.Contains(t, verr.Fields, "payer_email")
}

func TestCreatePaymentIntent_EmptyURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pi_1"}`))
	})

	_, err := client.CreatePaymentIntent(context.Background(), testCreds(), gateway.PaymentIntentRequest{
		OrderNumber: "100",
		Amount:      decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, model.ErrProvider)
}

func TestCreateDirectDebitEnrollmentAndTermination(t *testing.T) {
	var paths []string
	var enrollment map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/v3/mandates" {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &enrollment)
		}
		_, _ = w.Write([]byte(`{"url":"https://bank.example/mandate"}`))
	})

	resp, err := client.CreateDirectDebitEnrollment(context.Background(), testCreds(), gateway.EnrollmentRequest{
		OrderNumber:       "200",
		Amount:            decimal.RequireFromString("49.9"),
		PayerName:         "Siti",
		PayerEmail:        "siti@example.com",
		PayerPhone:        "0123654789",
		PayerIDType:       "1",
		PayerID:           "900101015555",
		FrequencyMode:     "MT",
		ApplicationReason: "Enrollment of 200",
		Metadata:          map[string]string{"order_id": "200"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example/mandate", resp.URL)
	assert.Equal(t, "49.90", enrollment["amount"])
	assert.Equal(t, `{"order_id":"200"}`, enrollment["metadata"])

	_, err = client.CreateDirectDebitTermination(context.Background(), testCreds(), "MD-1", gateway.TerminationRequest{
		ApplicationReason: "Subscription Cancellation",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/v3/mandates", "/v3/mandates/MD-1/terminate"}, paths)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{Timeout: time.Second})
	assert.Error(t, err)
}
