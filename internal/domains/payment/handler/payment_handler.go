package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/service"
	res "bayarcash-backend/internal/shared/response"
	"bayarcash-backend/pkg/logger"
	"bayarcash-backend/pkg/tracing"
)

const maxCallbackBody = 64 << 10

type PaymentHandler struct {
	dispatcher service.DispatcherService
	engine     service.ReconciliationService
	sweeper    service.SweepService
	tracer     trace.Tracer
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(
	dispatcher service.DispatcherService,
	engine service.ReconciliationService,
	sweeper service.SweepService,
) *PaymentHandler {
	return &PaymentHandler{
		dispatcher: dispatcher,
		engine:     engine,
		sweeper:    sweeper,
		tracer:     otel.Tracer("bayarcash-http"),
	}
}

// =====================================================
// CHECKOUT ENDPOINTS
// =====================================================

// InitiatePayment prepares the checkout redirect for an order
// POST /api/v1/payments/bayarcash/orders/:order_id
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	ctx, span := h.tracer.Start(tracing.ExtractHTTPHeaders(c.Request.Context(), c.Request.Header), "InitiatePayment")
	defer span.End()

	// Step 1: Get order ID from URL
	orderID := strings.TrimSpace(c.Param("order_id"))
	if orderID == "" {
		res.Error(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Invalid order ID")
		return
	}

	// Step 2: Bind optional body (direct debit identification)
	var req model.InitiatePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			res.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	// Step 3: Call service
	response, err := h.dispatcher.InitiatePayment(ctx, orderID, req)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}

	// Step 4: Return response
	res.Success(c, http.StatusOK, "OK", response)
}

// StartCheckout sends the payer to the Bayarcash hosted page
// GET /api/v1/payments/bayarcash/checkout?bc-woo-return=<token>
func (h *PaymentHandler) StartCheckout(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "StartCheckout")
	defer span.End()

	redirectURL, err := h.dispatcher.StartCheckout(ctx, c.Query(model.MarkerCheckout))
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// Callback receives both provider webhooks and payer redirects
// GET|POST /api/v1/payments/bayarcash/callback
//
// A POST carrying record_type without a return marker is a server-to-server
// webhook; everything else is the payer's browser coming back.
func (h *PaymentHandler) Callback(c *gin.Context) {
	ctx := tracing.ExtractHTTPHeaders(c.Request.Context(), c.Request.Header)

	// Step 1: Bind query and body into one payload
	payload, err := bindPayload(c)
	if err != nil {
		res.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	isWebhook := c.Request.Method == http.MethodPost &&
		payload.RecordType() != "" &&
		!payload.Has(model.MarkerSuccess) &&
		!payload.Has(model.MarkerFailed)

	ctx, span := h.tracer.Start(ctx, "BayarcashCallback", trace.WithAttributes(
		attribute.Bool("callback.webhook", isWebhook),
		attribute.String("callback.record_type", payload.RecordType()),
	))
	defer span.End()

	// Step 2: Webhook path answers with JSON
	if isWebhook {
		ack, err := h.dispatcher.HandleWebhook(ctx, payload)
		if err != nil {
			h.writeError(ctx, c, err)
			return
		}
		res.Success(c, http.StatusOK, "OK", ack)
		return
	}

	// Step 3: Return path redirects the browser
	outcome, err := h.dispatcher.HandleReturn(ctx, payload)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.Redirect(http.StatusFound, outcome.RedirectURL)
}

// ListChannels lists the payment methods and whether they are configured
// GET /api/v1/admin/bayarcash/channels
func (h *PaymentHandler) ListChannels(c *gin.Context) {
	res.Success(c, http.StatusOK, "OK", h.dispatcher.ListChannels(c.Request.Context()))
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// TerminateMandate requests the bank to terminate a subscription's mandate
// POST /api/v1/admin/bayarcash/subscriptions/:id/terminate
func (h *PaymentHandler) TerminateMandate(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "TerminateMandate")
	defer span.End()

	subscriptionID := strings.TrimSpace(c.Param("id"))
	if subscriptionID == "" {
		res.Error(c, http.StatusBadRequest, "INVALID_SUBSCRIPTION_ID", "Invalid subscription ID")
		return
	}

	response, err := h.dispatcher.TerminateMandate(ctx, subscriptionID)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	res.Success(c, http.StatusOK, "OK", response)
}

// CancelOrder cancels an unpaid order; direct debit orders are refused
// POST /api/v1/admin/bayarcash/orders/:order_id/cancel
func (h *PaymentHandler) CancelOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "CancelOrder")
	defer span.End()

	// Step 1: Get order ID from URL
	orderID := strings.TrimSpace(c.Param("order_id"))

	// Step 2: Bind and validate request body
	var req model.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			res.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}
	if err := req.Validate(); err != nil {
		res.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	// Step 3: Call service
	if err := h.engine.CancelOrder(ctx, orderID, req.Reason); err != nil {
		h.writeError(ctx, c, err)
		return
	}

	// Step 4: Return response
	res.Success(c, http.StatusOK, "Order cancelled", gin.H{"order_id": orderID})
}

// RunSweep runs one requery sweep immediately
// POST /api/v1/admin/bayarcash/sweep?method=<method>
func (h *PaymentHandler) RunSweep(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "RunSweep")
	defer span.End()

	report, err := h.sweeper.Sweep(ctx, c.QueryArray("method")...)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	res.Success(c, http.StatusOK, "OK", report)
}

// =====================================================
// ERROR MAPPING HELPER
// =====================================================

func mapPaymentError(err error) (statusCode int, errorCode string) {
	// Default
	statusCode = http.StatusInternalServerError
	errorCode = "INTERNAL_ERROR"

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.StatusCode >= 400 && validationErr.StatusCode < 500 {
			return validationErr.StatusCode, "VALIDATION_ERROR"
		}
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	}

	var paymentErr *model.PaymentError
	if errors.As(err, &paymentErr) {
		errorCode = paymentErr.Code

		// Map error codes to HTTP status codes
		switch paymentErr.Code {
		case model.ErrCodeInvalidToken, model.ErrCodeChecksumMismatch:
			statusCode = http.StatusForbidden
		case model.ErrCodeInvalidPayload:
			statusCode = http.StatusBadRequest
		case model.ErrCodeOrderNotFound, model.ErrCodeSubscriptionNotFound:
			statusCode = http.StatusNotFound
		case model.ErrCodeMissingCredentials:
			statusCode = http.StatusServiceUnavailable
		case model.ErrCodeOrderAlreadyCompleted, model.ErrCodeSweepInProgress, model.ErrCodeCancellationPrevented:
			statusCode = http.StatusConflict
		}
		return statusCode, errorCode
	}

	if errors.Is(err, model.ErrProvider) {
		return http.StatusBadGateway, "PROVIDER_ERROR"
	}

	return statusCode, errorCode
}

// writeError records err on the span carried by ctx and writes the mapped response.
func (h *PaymentHandler) writeError(ctx context.Context, c *gin.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err)

	statusCode, errCode := mapPaymentError(err)
	if statusCode >= http.StatusInternalServerError {
		logger.ErrorWithFields("Bayarcash request failed", err, map[string]interface{}{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		res.ErrorWithDetails(c, statusCode, errCode, validationErr.Message, validationErr.Fields)
		return
	}

	// Internal details stay in the log
	message := err.Error()
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusBadGateway {
		message = "Internal server error"
	}
	res.Error(c, statusCode, errCode, message)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// bindPayload merges query parameters with a form or JSON body; body fields win.
func bindPayload(c *gin.Context) (model.CallbackPayload, error) {
	payload := model.CallbackPayload{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	if c.Request.Method != http.MethodPost || c.Request.Body == nil {
		return payload, nil
	}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return payload, nil
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		decoder.UseNumber()
		var fields map[string]interface{}
		if err := decoder.Decode(&fields); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for key, value := range fields {
			payload[key] = stringify(value)
		}
		return payload, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBody)
	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
