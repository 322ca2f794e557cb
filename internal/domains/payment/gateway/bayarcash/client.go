package bayarcash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// BAYARCASH CLIENT
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) (gateway.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Bayarcash config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// =====================================================
// PAYMENT INTENT
// =====================================================

func (c *Client) CreatePaymentIntent(
	ctx context.Context,
	creds gateway.Credentials,
	req gateway.PaymentIntentRequest,
) (*gateway.RedirectResponse, error) {
	if req.OrderNumber == "" {
		return nil, fmt.Errorf("order_number is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive")
	}

	body := paymentIntentBody{
		PortalKey:            creds.PortalKey,
		PaymentChannel:       req.PaymentChannel,
		OrderNumber:          req.OrderNumber,
		Amount:               formatAmount(req.Amount),
		PayerName:            req.PayerName,
		PayerEmail:           req.PayerEmail,
		PayerTelephoneNumber: req.PayerPhone,
		Description:          req.Description,
		ReturnURL:            req.ReturnURL,
	}
	body.Checksum = Checksum(body.values(), paymentIntentFields, creds.APISecretKey)

	var out redirectBody
	if err := c.doJSON(ctx, http.MethodPost, c.config.APIURL(creds.Sandbox, "payment-intents"), creds.BearerToken, body, &out); err != nil {
		return nil, err
	}
	return toRedirect(out)
}

// =====================================================
// DIRECT DEBIT
// =====================================================

func (c *Client) CreateDirectDebitEnrollment(
	ctx context.Context,
	creds gateway.Credentials,
	req gateway.EnrollmentRequest,
) (*gateway.RedirectResponse, error) {
	if req.OrderNumber == "" {
		return nil, fmt.Errorf("order_number is required")
	}

	var metadata string
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode enrollment metadata: %w", err)
		}
		metadata = string(raw)
	}

	body := enrollmentBody{
		PortalKey:            creds.PortalKey,
		OrderNumber:          req.OrderNumber,
		Amount:               formatAmount(req.Amount),
		PayerName:            req.PayerName,
		PayerEmail:           req.PayerEmail,
		PayerTelephoneNumber: req.PayerPhone,
		PayerIDType:          req.PayerIDType,
		PayerID:              req.PayerID,
		FrequencyMode:        req.FrequencyMode,
		ApplicationReason:    req.ApplicationReason,
		Metadata:             metadata,
		ReturnURL:            req.ReturnURL,
		SuccessURL:           req.SuccessURL,
		FailedURL:            req.FailedURL,
	}
	body.Checksum = Checksum(body.values(), enrollmentFields, creds.APISecretKey)

	var out redirectBody
	if err := c.doJSON(ctx, http.MethodPost, c.config.APIURL(creds.Sandbox, "mandates"), creds.BearerToken, body, &out); err != nil {
		return nil, err
	}
	return toRedirect(out)
}

func (c *Client) CreateDirectDebitTermination(
	ctx context.Context,
	creds gateway.Credentials,
	mandateID string,
	req gateway.TerminationRequest,
) (*gateway.RedirectResponse, error) {
	if mandateID == "" {
		return nil, fmt.Errorf("mandate_id is required")
	}

	body := terminationBody{
		ApplicationReason: req.ApplicationReason,
		ReturnURL:         req.ReturnURL,
	}
	body.Checksum = Checksum(map[string]string{
		"mandate_id":         mandateID,
		"application_reason": req.ApplicationReason,
	}, terminationFields, creds.APISecretKey)

	var out redirectBody
	path := "mandates/" + mandateID + "/terminate"
	if err := c.doJSON(ctx, http.MethodPost, c.config.APIURL(creds.Sandbox, path), creds.BearerToken, body, &out); err != nil {
		return nil, err
	}
	return toRedirect(out)
}

// =====================================================
// REQUERY
// =====================================================

func (c *Client) RequeryTransaction(
	ctx context.Context,
	transactionID, bearerToken string,
	sandbox bool,
) (*model.TransactionResult, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction_id is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.RequeryURL(sandbox, transactionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build requery request: %w", err)
	}
	c.setHeaders(httpReq, bearerToken)

	status, raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, model.NewProviderError(status, string(raw), fmt.Errorf("requery returned HTTP %d", status))
	}

	// The console sometimes nests the transaction under "data".
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, model.NewProviderError(status, string(raw), fmt.Errorf("invalid JSON response: %w", err))
	}
	if data, ok := envelope["data"]; ok && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
		raw = data
	}

	var txn transactionBody
	if err := json.Unmarshal(raw, &txn); err != nil {
		return nil, model.NewProviderError(status, string(raw), fmt.Errorf("invalid transaction payload: %w", err))
	}

	return txn.toResult(), nil
}

// =====================================================
// CALLBACK VERIFICATION
// =====================================================

func (c *Client) VerifyCallbackChecksum(payload model.CallbackPayload, secretKey string) bool {
	return VerifyChecksum(payload, secretKey)
}

// =====================================================
// HTTP HELPERS
// =====================================================

func (c *Client) doJSON(ctx context.Context, method, url, bearerToken string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(httpReq, bearerToken)
	httpReq.Header.Set("Content-Type", "application/json")

	status, raw, err := c.do(httpReq)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		if err := json.Unmarshal(raw, out); err != nil {
			return model.NewProviderError(status, string(raw), fmt.Errorf("invalid JSON response: %w", err))
		}
		return nil
	case status >= 400 && status < 500:
		if verr := parseValidationError(status, raw); verr != nil {
			return verr
		}
	}
	return model.NewProviderError(status, string(raw), fmt.Errorf("unexpected HTTP %d", status))
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, model.NewProviderError(0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, model.NewProviderError(resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err))
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) setHeaders(req *http.Request, bearerToken string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

func parseValidationError(status int, raw []byte) *model.ValidationError {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	if body.Message == "" && len(body.Errors) == 0 {
		return nil
	}
	return &model.ValidationError{
		StatusCode: status,
		Message:    body.Message,
		Fields:     body.Errors,
	}
}

func toRedirect(out redirectBody) (*gateway.RedirectResponse, error) {
	if out.URL == "" {
		return nil, model.NewProviderError(http.StatusOK, "", errors.New("response did not include a redirect url"))
	}
	return &gateway.RedirectResponse{ID: out.ID, URL: out.URL}, nil
}

// formatAmount renders amounts with two decimals, e.g. 10 -> "10.00".
func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
