package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bayarcash-backend/internal/domains/payment/gateway"
	"bayarcash-backend/internal/domains/payment/model"
	repo "bayarcash-backend/internal/domains/payment/repository"
	"bayarcash-backend/internal/domains/payment/token"
	"bayarcash-backend/pkg/logger"
)

const (
	CheckoutPath = "/api/v1/payments/bayarcash/checkout"
	CallbackPath = "/api/v1/payments/bayarcash/callback"
	ReceiptPath  = "/checkout/order-received/"

	terminationReason = "Subscription Cancellation"
)

var (
	nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	phonePrefix    = regexp.MustCompile(`^\+?6?0?|\D`)
	malaysianPhone = regexp.MustCompile(`^1\d{8,12}$`)
)

// DispatcherConfig holds the public URLs the dispatcher embeds in redirects.
type DispatcherConfig struct {
	SiteURL   string
	LedgerTTL time.Duration
}

// =====================================================
// DISPATCHER SERVICE IMPLEMENTATION
// =====================================================
type dispatcherService struct {
	orders       repo.OrderStore
	subs         repo.SubscriptionStore
	settings     repo.SettingsStore
	callbackLogs repo.CallbackLogRepository

	provider gateway.Provider
	codec    *token.Codec
	ledger   token.Ledger
	engine   ReconciliationService

	config DispatcherConfig
	tracer trace.Tracer
}

func NewDispatcherService(
	orders repo.OrderStore,
	subs repo.SubscriptionStore,
	settings repo.SettingsStore,
	callbackLogs repo.CallbackLogRepository,
	provider gateway.Provider,
	codec *token.Codec,
	ledger token.Ledger,
	engine ReconciliationService,
	config DispatcherConfig,
) DispatcherService {
	config.SiteURL = strings.TrimRight(config.SiteURL, "/")
	if config.LedgerTTL <= 0 {
		config.LedgerTTL = model.DefaultTokenLedgerTTL
	}
	if ledger == nil {
		ledger = token.NewMemoryLedger()
	}

	return &dispatcherService{
		orders:       orders,
		subs:         subs,
		settings:     settings,
		callbackLogs: callbackLogs,
		provider:     provider,
		codec:        codec,
		ledger:       ledger,
		engine:       engine,
		config:       config,
		tracer:       otel.Tracer("bayarcash-dispatcher"),
	}
}

// =====================================================
// INITIATE PAYMENT
// =====================================================

// InitiatePayment prepares the checkout redirect for an order
//
// Business Logic Flow:
// 1. Load order, refuse paid orders
// 2. Resolve method settings and channel, check credentials and amount cap
// 3. Direct debit: validate and store payer identification
// 4. Issue checkout token and build the redirect URL
func (s *dispatcherService) InitiatePayment(
	ctx context.Context,
	orderID string,
	req model.InitiatePaymentRequest,
) (resp *model.InitiatePaymentResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "InitiatePayment", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer func() { endSpan(span, err) }()

	// Step 1: Load order
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, model.NewOrderAlreadyCompletedError(order.ID)
	}
	span.SetAttributes(attribute.String("payment.method", order.PaymentMethod))

	// Step 2: Settings and channel
	settings, channel, err := s.methodConfig(ctx, order.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if missing := settings.MissingFields(); len(missing) > 0 {
		fields := make(map[string][]string, len(missing))
		for _, f := range missing {
			fields[f] = []string{"is required"}
		}
		return nil, &model.ValidationError{
			Message: fmt.Sprintf("%s is not fully configured", channel.MethodTitle),
			Fields:  fields,
		}
	}
	if !channel.SupportsAmount(order.Total) {
		return nil, &model.ValidationError{
			Message: fmt.Sprintf("%s accepts orders up to RM %s", channel.Title, channel.MaxAmount.StringFixed(2)),
			Fields:  map[string][]string{"total": {"exceeds the channel limit"}},
		}
	}

	// Step 3: Direct debit payload
	payload := order.ID
	if order.IsDirectDebit() {
		if err := req.ValidateForDirectDebit(); err != nil {
			return nil, model.NewInvalidPayloadError(err.Error())
		}
		subs, err := s.subs.ListForOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if err := s.orders.SetMetadata(ctx, order.ID, model.MetaIdentificationType, req.IdentificationType); err != nil {
			return nil, err
		}
		if err := s.orders.SetMetadata(ctx, order.ID, model.MetaIdentificationNumber, req.IdentificationNumber); err != nil {
			return nil, err
		}
		payload = strings.Join([]string{
			order.ID,
			req.IdentificationType,
			req.IdentificationNumber,
			strconv.Itoa(len(subs)),
		}, ",")
	}

	// Step 4: Token and redirect
	tok, err := s.codec.Issue(payload, model.PurposeCheckout, model.KeyCheckout)
	if err != nil {
		return nil, fmt.Errorf("failed to issue checkout token: %w", err)
	}

	return &model.InitiatePaymentResponse{
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		RedirectURL:   s.config.SiteURL + CheckoutPath + "?" + model.MarkerCheckout + "=" + url.QueryEscape(tok),
	}, nil
}

// =====================================================
// START CHECKOUT
// =====================================================

func (s *dispatcherService) StartCheckout(ctx context.Context, rawToken string) (redirectURL string, err error) {
	ctx, span := s.tracer.Start(ctx, "StartCheckout")
	defer func() { endSpan(span, err) }()

	// Step 1: Token must be a live checkout token
	tok, err := s.codec.Consume(rawToken, model.KeyCheckout, model.PurposeCheckout)
	if err != nil {
		return "", err
	}
	parts := strings.Split(tok.Payload, ",")
	orderID := parts[0]
	span.SetAttributes(attribute.String("order.id", orderID))

	// Step 2: Order must still need payment
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.IsPaid() {
		return "", model.NewOrderAlreadyCompletedError(order.ID)
	}

	settings, channel, err := s.methodConfig(ctx, order.PaymentMethod)
	if err != nil {
		return "", err
	}
	creds := gateway.CredentialsFrom(settings)

	payerName := sanitizeName(order.BillingName)
	payerEmail := order.BillingEmail
	if payerEmail == "" && settings.EmailFallback != "" {
		logger.Info("Using fallback email for order", map[string]interface{}{"order_id": order.ID})
		payerEmail = settings.EmailFallback
	}

	// Step 3: Provider request
	var resp *gateway.RedirectResponse
	if order.IsDirectDebit() {
		if len(parts) != model.DirectDebitTokenParts {
			return "", model.NewInvalidTokenError("malformed direct debit payload")
		}
		resp, err = s.startEnrollment(ctx, creds, order, parts[1], parts[2], payerName, payerEmail)
	} else {
		resp, err = s.provider.CreatePaymentIntent(ctx, creds, gateway.PaymentIntentRequest{
			PaymentChannel: channel.ChannelNumber,
			OrderNumber:    order.ID,
			Amount:         order.Total,
			PayerName:      payerName,
			PayerEmail:     payerEmail,
			PayerPhone:     sanitizePhone(order.BillingPhone, model.DefaultPhone),
			Description:    fmt.Sprintf("Payment for Order %s", order.ID),
			ReturnURL:      s.callbackURL(),
		})
	}
	if err != nil {
		logger.ErrorWithFields("Payment request rejected", err, map[string]interface{}{
			"order_id":       order.ID,
			"payment_method": order.PaymentMethod,
		})
		return "", err
	}
	return resp.URL, nil
}

func (s *dispatcherService) startEnrollment(
	ctx context.Context,
	creds gateway.Credentials,
	order *model.Order,
	idType, idNumber, payerName, payerEmail string,
) (*gateway.RedirectResponse, error) {
	subs, err := s.subs.ListForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	frequency := "MT"
	if len(subs) > 0 {
		frequency = subs[0].FrequencyMode()
	}

	successToken, err := s.codec.Issue(order.ID, model.PurposeDirectDebit, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue success token: %w", err)
	}
	failedToken, err := s.codec.Issue(order.ID, model.PurposeDirectDebit, model.KeyFailedMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to issue failed token: %w", err)
	}

	callback := s.callbackURL()
	return s.provider.CreateDirectDebitEnrollment(ctx, creds, gateway.EnrollmentRequest{
		OrderNumber:       order.ID,
		Amount:            order.Total,
		PayerName:         payerName,
		PayerEmail:        payerEmail,
		PayerPhone:        sanitizePhone(order.BillingPhone, model.DefaultDirectDebitPhone),
		PayerIDType:       idType,
		PayerID:           idNumber,
		FrequencyMode:     frequency,
		ApplicationReason: "Enrollment of " + order.ID,
		Metadata:          map[string]string{"order_id": order.ID},
		ReturnURL:         callback,
		SuccessURL:        callback + "?" + model.MarkerSuccess + "=" + url.QueryEscape(successToken),
		FailedURL:         callback + "?" + model.MarkerFailed + "=" + url.QueryEscape(failedToken),
	})
}

// =====================================================
// WEBHOOK (SERVER TO SERVER)
// =====================================================

// HandleWebhook authenticates a provider notification and routes it by record type
func (s *dispatcherService) HandleWebhook(ctx context.Context, payload model.CallbackPayload) (ack *model.WebhookAck, err error) {
	recordType := payload.RecordType()
	ctx, span := s.tracer.Start(ctx, "HandleWebhook", trace.WithAttributes(
		attribute.String("callback.record_type", recordType),
		attribute.String("order.id", payload.OrderNumber()),
	))
	defer func() { endSpan(span, err) }()

	// Step 1: Audit log before anything else
	logID := s.recordCallback(ctx, payload)
	defer func() { s.finishCallback(ctx, logID, err) }()

	// Step 2: Route
	switch recordType {
	case model.RecordTypeBankApproval:
		err = s.handleBankApproval(ctx, payload)
	case model.RecordTypeRecurringTransaction:
		err = s.handleRecurring(ctx, payload)
	case model.RecordTypePreTransaction:
		err = s.handlePreTransaction(ctx, payload)
	default:
		_, err = s.reconcileReceipt(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	return &model.WebhookAck{
		OrderNumber: payload.OrderNumber(),
		RecordType:  recordType,
		Status:      "ok",
	}, nil
}

func (s *dispatcherService) handleBankApproval(ctx context.Context, payload model.CallbackPayload) error {
	approval, err := payload.MandateApproval()
	if err != nil {
		return err
	}
	if err := s.verify(ctx, payload, model.MethodDirectDebit); err != nil {
		return err
	}
	return s.engine.ApplyMandateApproval(ctx, *approval)
}

func (s *dispatcherService) handleRecurring(ctx context.Context, payload model.CallbackPayload) error {
	txn, err := payload.RecurringTransaction()
	if err != nil {
		return err
	}
	if err := s.verify(ctx, payload, model.MethodDirectDebit); err != nil {
		return err
	}
	return s.engine.ApplyRecurringTransaction(ctx, *txn)
}

func (s *dispatcherService) handlePreTransaction(ctx context.Context, payload model.CallbackPayload) error {
	pre, err := payload.PreTransaction()
	if err != nil {
		return err
	}
	order, err := s.orders.Get(ctx, pre.OrderNumber)
	if err != nil {
		return err
	}
	if err := s.verify(ctx, payload, order.PaymentMethod); err != nil {
		return err
	}
	return s.engine.ApplyPreTransaction(ctx, *pre)
}

// reconcileReceipt verifies a one-shot receipt, requeries the provider and applies
// the authoritative result.
func (s *dispatcherService) reconcileReceipt(ctx context.Context, payload model.CallbackPayload) (*model.Order, error) {
	if err := payload.Require("order_number", "transaction_id", "checksum"); err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, payload.OrderNumber())
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, payload, order.PaymentMethod); err != nil {
		return order, err
	}

	settings, err := s.credentials(ctx, order.PaymentMethod)
	if err != nil {
		return order, err
	}

	result, err := s.provider.RequeryTransaction(ctx, payload.Get("transaction_id"), settings.BearerToken, settings.Sandbox)
	if err != nil {
		return order, err
	}
	if result.OrderNumber == "" {
		result.OrderNumber = order.ID
	}
	if result.OrderNumber != order.ID {
		return order, model.NewInvalidPayloadError(fmt.Sprintf("requery returned order %s for order %s", result.OrderNumber, order.ID))
	}

	return order, s.engine.Apply(ctx, *result)
}

// =====================================================
// RETURN (BROWSER REDIRECT-BACK)
// =====================================================

// HandleReturn authenticates the payer's return and picks the receipt page
//
// Routing:
// - bc-woo-success: direct debit enrollment succeeded at the bank
// - bc-woo-failed: direct debit enrollment failed
// - otherwise: one-shot payment return carrying a signed receipt
func (s *dispatcherService) HandleReturn(ctx context.Context, payload model.CallbackPayload) (outcome *model.ReturnOutcome, err error) {
	ctx, span := s.tracer.Start(ctx, "HandleReturn")
	defer func() { endSpan(span, err) }()

	switch {
	case payload.Has(model.MarkerSuccess):
		return s.enrollmentSuccess(ctx, payload)
	case payload.Has(model.MarkerFailed):
		return s.enrollmentFailed(ctx, payload)
	default:
		return s.oneShotReturn(ctx, payload)
	}
}

func (s *dispatcherService) enrollmentSuccess(ctx context.Context, payload model.CallbackPayload) (*model.ReturnOutcome, error) {
	if err := payload.Require("order_number", "transaction_id", "checksum"); err != nil {
		return nil, err
	}

	raw := payload.Get(model.MarkerSuccess)
	tok, err := s.codec.Consume(raw, payload.OrderNumber(), model.PurposeDirectDebit)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, tok.Payload)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCompleted {
		return s.receipt(order.ID, false), nil
	}

	if err := s.verify(ctx, payload, order.PaymentMethod); err != nil {
		return nil, err
	}
	status, err := model.ParseTransactionStatus(payload.Get("status"))
	if err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}
	succeeded := status == model.TransactionSuccessful

	if err := s.applyOnce(ctx, tok, func() error {
		return s.engine.ApplyEnrollmentReturn(ctx, order.ID, succeeded)
	}); err != nil {
		return nil, err
	}
	return s.receipt(order.ID, succeeded), nil
}

func (s *dispatcherService) enrollmentFailed(ctx context.Context, payload model.CallbackPayload) (*model.ReturnOutcome, error) {
	raw := payload.Get(model.MarkerFailed)
	tok, err := s.codec.Consume(raw, model.KeyFailedMarker, model.PurposeDirectDebit)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, tok.Payload)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCompleted {
		return s.receipt(order.ID, false), nil
	}
	if err := s.applyOnce(ctx, tok, func() error {
		return s.engine.ApplyEnrollmentReturn(ctx, order.ID, false)
	}); err != nil {
		return nil, err
	}
	return s.receipt(order.ID, false), nil
}

func (s *dispatcherService) oneShotReturn(ctx context.Context, payload model.CallbackPayload) (*model.ReturnOutcome, error) {
	if err := payload.Require("order_number"); err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, payload.OrderNumber())
	if err != nil {
		return nil, err
	}

	// Mandate outcomes arrive through bank_approval callbacks
	if order.IsDirectDebit() {
		return s.receipt(order.ID, false), nil
	}

	if _, err := s.reconcileReceipt(ctx, payload); err != nil {
		if !errors.Is(err, model.ErrProvider) {
			return nil, err
		}
		// The sweeper retries; the payer still lands on the receipt
		logger.ErrorWithFields("Requery failed on return, leaving order for the sweeper", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
	return s.receipt(order.ID, false), nil
}

// =====================================================
// MANDATE TERMINATION
// =====================================================

func (s *dispatcherService) TerminateMandate(ctx context.Context, subscriptionID string) (resp *model.TerminateMandateResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "TerminateMandate", trace.WithAttributes(attribute.String("subscription.id", subscriptionID)))
	defer func() { endSpan(span, err) }()

	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	parent, err := s.orders.Get(ctx, sub.ParentOrderID)
	if err != nil {
		return nil, err
	}

	mandateID, err := s.orders.GetMetadata(ctx, parent.ID, model.MetaMandateID)
	if err != nil {
		return nil, err
	}
	if mandateID == "" {
		return nil, model.NewInvalidPayloadError(fmt.Sprintf("No mandate recorded for subscription %s", sub.ID))
	}

	settings, err := s.credentials(ctx, model.MethodDirectDebit)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.CreateDirectDebitTermination(ctx, gateway.CredentialsFrom(settings), mandateID, gateway.TerminationRequest{
		ApplicationReason: terminationReason,
		ReturnURL:         s.callbackURL() + "?" + model.MarkerTerminated + "=" + url.QueryEscape(sub.ID),
	})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]string{
		"mandate_id":   mandateID,
		"redirect_url": result.URL,
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cancellation data: %w", err)
	}
	if err := s.subs.SetMetadata(ctx, sub.ID, model.MetaCancellationData, string(data)); err != nil {
		return nil, err
	}

	logger.Info("Mandate termination requested", map[string]interface{}{
		"subscription_id": sub.ID,
		"mandate_id":      mandateID,
	})

	return &model.TerminateMandateResponse{
		SubscriptionID: sub.ID,
		MandateID:      mandateID,
		RedirectURL:    result.URL,
	}, nil
}

// =====================================================
// CHANNELS
// =====================================================

func (s *dispatcherService) ListChannels(ctx context.Context) []model.ChannelResponse {
	channels := s.settings.Channels()
	out := make([]model.ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		item := model.ChannelResponse{
			Method:        ch.Method,
			Title:         ch.Title,
			MethodTitle:   ch.MethodTitle,
			ChannelNumber: ch.ChannelNumber,
			Recurring:     ch.Recurring,
			MaxAmount:     ch.MaxAmount,
		}
		if settings, err := s.settings.Get(ctx, ch.Method); err == nil {
			item.Enabled = settings.Enabled
			item.Sandbox = settings.Sandbox
			item.Configured = len(settings.MissingFields()) == 0
		}
		out = append(out, item)
	}
	return out
}

// =====================================================
// HELPERS
// =====================================================

func (s *dispatcherService) methodConfig(ctx context.Context, method string) (*model.MethodSettings, model.Channel, error) {
	channel, ok := s.settings.Channel(method)
	if !ok {
		return nil, model.Channel{}, model.NewMissingCredentialsError(method)
	}
	settings, err := s.settings.Get(ctx, method)
	if err != nil {
		return nil, model.Channel{}, err
	}
	if !settings.Enabled {
		return nil, model.Channel{}, model.NewMissingCredentialsError(method)
	}
	return settings, channel, nil
}

func (s *dispatcherService) credentials(ctx context.Context, method string) (*model.MethodSettings, error) {
	settings, err := s.settings.Get(ctx, method)
	if err != nil {
		return nil, err
	}
	if !settings.HasCredentials() {
		return nil, model.NewMissingCredentialsError(method)
	}
	return settings, nil
}

// verify checks the callback checksum with the method's API secret
func (s *dispatcherService) verify(ctx context.Context, payload model.CallbackPayload, method string) error {
	settings, err := s.settings.Get(ctx, method)
	if err != nil {
		return err
	}
	if !s.provider.VerifyCallbackChecksum(payload, settings.APISecretKey) {
		logger.Warn("Invalid callback checksum", map[string]interface{}{
			"order_number":   payload.OrderNumber(),
			"record_type":    payload.RecordType(),
			"payment_method": method,
		})
		return model.NewChecksumMismatchError(payload.OrderNumber())
	}
	return nil
}

// applyOnce claims tok in the ledger and runs apply. A failed apply releases
// the claim so the payer can retry the same marker.
func (s *dispatcherService) applyOnce(ctx context.Context, tok *token.Token, apply func() error) error {
	ok, err := s.ledger.Claim(ctx, tok.ID, s.config.LedgerTTL)
	if err != nil {
		return fmt.Errorf("failed to claim return token: %w", err)
	}
	if !ok {
		return model.NewInvalidTokenError("token already used")
	}

	if err := apply(); err != nil {
		if relErr := s.ledger.Release(context.WithoutCancel(ctx), tok.ID); relErr != nil {
			logger.Error("Failed to release return token", relErr)
		}
		return err
	}
	return nil
}

func (s *dispatcherService) recordCallback(ctx context.Context, payload model.CallbackPayload) uuid.UUID {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("{}")
	}

	method := ""
	switch payload.RecordType() {
	case model.RecordTypeBankApproval, model.RecordTypeRecurringTransaction:
		method = model.MethodDirectDebit
	default:
		if order, err := s.orders.Get(ctx, payload.OrderNumber()); err == nil {
			method = order.PaymentMethod
		}
	}

	entry := &model.CallbackLog{
		ID:            uuid.New(),
		OrderNumber:   payload.OrderNumber(),
		PaymentMethod: method,
		RecordType:    payload.RecordType(),
		Body:          body,
		Checksum:      payload.Checksum(),
		ReceivedAt:    time.Now().UTC(),
	}
	if err := s.callbackLogs.Create(ctx, entry); err != nil {
		logger.Error("Failed to record callback", err)
		return uuid.Nil
	}
	return entry.ID
}

func (s *dispatcherService) finishCallback(ctx context.Context, id uuid.UUID, err error) {
	if id == uuid.Nil {
		return
	}
	var markErr error
	if err != nil {
		markErr = s.callbackLogs.MarkProcessingError(ctx, id, err.Error())
	} else {
		markErr = s.callbackLogs.MarkAsProcessed(ctx, id)
	}
	if markErr != nil {
		logger.Error("Failed to update callback log", markErr)
	}
}

func (s *dispatcherService) callbackURL() string {
	return s.config.SiteURL + CallbackPath
}

func (s *dispatcherService) receipt(orderID string, initial bool) *model.ReturnOutcome {
	target := s.config.SiteURL + ReceiptPath + url.PathEscape(orderID)
	if initial {
		target += "?" + model.MarkerInitial + "=" + url.QueryEscape(orderID)
	}
	return &model.ReturnOutcome{OrderID: orderID, RedirectURL: target}
}

func sanitizeName(name string) string {
	return strings.TrimSpace(nameDisallowed.ReplaceAllString(name, ""))
}

// sanitizePhone normalizes Malaysian mobile numbers to 01XXXXXXXX.
func sanitizePhone(phone, fallback string) string {
	digits := phonePrefix.ReplaceAllString(phone, "")
	if malaysianPhone.MatchString(digits) {
		return "0" + digits
	}
	return fallback
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
