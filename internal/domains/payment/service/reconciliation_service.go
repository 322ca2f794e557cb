package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
	repo "bayarcash-backend/internal/domains/payment/repository"
	"bayarcash-backend/pkg/logger"
)

const lockRetryInterval = 100 * time.Millisecond

// =====================================================
// RECONCILIATION SERVICE IMPLEMENTATION
// =====================================================
type reconciliationService struct {
	orders   repo.OrderStore
	subs     repo.SubscriptionStore
	settings repo.SettingsStore

	locker   Locker
	lockTTL  time.Duration
	lockWait time.Duration

	events EventPublisher
	cart   CartClearer
	now    func() time.Time
}

func NewReconciliationService(
	orders repo.OrderStore,
	subs repo.SubscriptionStore,
	settings repo.SettingsStore,
	locker Locker,
	events EventPublisher,
	cart CartClearer,
) ReconciliationService {
	if events == nil {
		events = noopPublisher{}
	}
	if cart == nil {
		cart = noopCartClearer{}
	}
	return &reconciliationService{
		orders:   orders,
		subs:     subs,
		settings: settings,
		locker:   locker,
		lockTTL:  model.DefaultOrderLockTTL,
		lockWait: 5 * time.Second,
		events:   events,
		cart:     cart,
		now:      time.Now,
	}
}

// =====================================================
// ONE-SHOT TRANSACTIONS
// =====================================================

// Apply reconciles a transaction result against its order
//
// Transition rules:
// 1. successful: clear correlation meta, add receipt note once, complete once
// 2. new/pending: no change
// 3. unsuccessful/cancelled/failed on an unpaid order: failure note, status failed
// 4. anything else on a paid or cancelled order: no change
func (s *reconciliationService) Apply(ctx context.Context, result model.TransactionResult) error {
	// Step 1: Validate before touching the store
	if err := result.Validate(); err != nil {
		return model.NewInvalidPayloadError(err.Error())
	}

	// Step 2: Order must exist
	if _, err := s.orders.Get(ctx, result.OrderNumber); err != nil {
		return err
	}

	// Step 3: Decide under the order lock against fresh state
	return s.withOrderLock(ctx, result.OrderNumber, func() error {
		order, err := s.orders.Get(ctx, result.OrderNumber)
		if err != nil {
			return err
		}
		settings := s.methodSettings(ctx, order.PaymentMethod)
		s.trace(settings, "Applying transaction result", map[string]interface{}{
			"order_id":       order.ID,
			"order_status":   order.Status,
			"transaction_id": result.TransactionID,
			"status":         result.Status.String(),
		})

		switch {
		case result.Status == model.TransactionSuccessful:
			return s.applySuccess(ctx, order, result, settings)

		case result.Status.IsInFlight():
			s.trace(settings, "Transaction still in flight, order unchanged", map[string]interface{}{
				"order_id": order.ID,
				"status":   result.Status.String(),
			})
			return nil

		case !order.NeedsPayment():
			s.trace(settings, "Order no longer needs payment, ignoring failed result", map[string]interface{}{
				"order_id":     order.ID,
				"order_status": order.Status,
			})
			return nil

		default:
			return s.applyFailure(ctx, order, result, settings)
		}
	})
}

func (s *reconciliationService) applySuccess(
	ctx context.Context,
	order *model.Order,
	result model.TransactionResult,
	settings *model.MethodSettings,
) error {
	if err := s.orders.DeleteMetadata(ctx, order.ID, model.MetaTransactionID); err != nil {
		return err
	}

	note := transactionNote(notePaymentSuccessful, result, settings.Sandbox)
	if _, err := s.addOrderNoteOnce(ctx, order.ID, note); err != nil {
		return err
	}

	if order.IsPaid() {
		s.trace(settings, "Order already paid, completion skipped", map[string]interface{}{
			"order_id": order.ID,
		})
		return nil
	}

	if err := s.orders.MarkPaymentComplete(ctx, order.ID, result.TransactionID); err != nil {
		if errors.Is(err, model.ErrOrderAlreadyCompleted) {
			return nil
		}
		return err
	}

	logger.Info("Order payment completed", map[string]interface{}{
		"order_id":       order.ID,
		"transaction_id": result.TransactionID,
	})

	// Side effects never roll back a completed payment
	if err := s.cart.ClearCart(ctx, order); err != nil {
		logger.ErrorWithFields("Failed to request cart clear", err, map[string]interface{}{"order_id": order.ID})
	}
	s.publish(ctx, model.AggregateOrder, order.ID, model.EventPaymentCompleted, order, model.OrderStatusCompleted, result.TransactionID, result.Amount)
	return nil
}

func (s *reconciliationService) applyFailure(
	ctx context.Context,
	order *model.Order,
	result model.TransactionResult,
	settings *model.MethodSettings,
) error {
	if err := s.orders.DeleteMetadata(ctx, order.ID, model.MetaTransactionID); err != nil {
		return err
	}

	note := transactionNote(notePaymentFailed, result, settings.Sandbox)
	if _, err := s.addOrderNoteOnce(ctx, order.ID, note); err != nil {
		return err
	}

	if order.Status != model.OrderStatusFailed {
		if err := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusFailed, ""); err != nil {
			return err
		}
	}

	logger.Info("Order payment failed", map[string]interface{}{
		"order_id":       order.ID,
		"transaction_id": result.TransactionID,
		"status":         result.Status.String(),
	})
	s.publish(ctx, model.AggregateOrder, order.ID, model.EventPaymentFailed, order, model.OrderStatusFailed, result.TransactionID, result.Amount)
	return nil
}

// ApplyPreTransaction moves an unpaid order to pending and stores the
// transaction id the sweeper requeries by.
func (s *reconciliationService) ApplyPreTransaction(ctx context.Context, pre model.PreTransaction) error {
	if err := pre.Validate(); err != nil {
		return model.NewInvalidPayloadError(err.Error())
	}
	if _, err := s.orders.Get(ctx, pre.OrderNumber); err != nil {
		return err
	}

	return s.withOrderLock(ctx, pre.OrderNumber, func() error {
		order, err := s.orders.Get(ctx, pre.OrderNumber)
		if err != nil {
			return err
		}
		settings := s.methodSettings(ctx, order.PaymentMethod)

		if !order.NeedsPayment() {
			s.trace(settings, "Order status does not accept a transaction id", map[string]interface{}{
				"order_id":     order.ID,
				"order_status": order.Status,
			})
			return nil
		}

		if order.Status != model.OrderStatusPending {
			if err := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusPending, ""); err != nil {
				return err
			}
		}
		if err := s.orders.SetMetadata(ctx, order.ID, model.MetaTransactionID, pre.TransactionID); err != nil {
			return err
		}

		s.trace(settings, "Pre-transaction stored", map[string]interface{}{
			"order_id":                  order.ID,
			"transaction_id":            pre.TransactionID,
			"exchange_reference_number": pre.ExchangeReferenceNumber,
		})
		return nil
	})
}

// =====================================================
// DIRECT DEBIT: MANDATE APPROVAL
// =====================================================

func (s *reconciliationService) ApplyMandateApproval(ctx context.Context, approval model.MandateApproval) error {
	if err := approval.Validate(); err != nil {
		return model.NewInvalidPayloadError(err.Error())
	}
	if _, err := s.orders.Get(ctx, approval.OrderNumber); err != nil {
		return err
	}

	return s.withOrderLock(ctx, approval.OrderNumber, func() error {
		order, err := s.orders.Get(ctx, approval.OrderNumber)
		if err != nil {
			return err
		}

		if _, err := s.addOrderNoteOnce(ctx, order.ID, approvalNote(approval)); err != nil {
			return err
		}
		if err := s.storeMandateMeta(ctx, order.ID, approval); err != nil {
			return err
		}

		logger.Info("Bank approval received", map[string]interface{}{
			"order_id":         order.ID,
			"approval_status":  approval.ApprovalStatus.String(),
			"application_type": approval.ApplicationType,
			"mandate_id":       approval.MandateID,
		})

		switch {
		case approval.IsTermination():
			return s.terminateSubscriptions(ctx, order, approval)
		case approval.ApprovalStatus == model.ApprovalApproved:
			return s.approveMandate(ctx, order, approval)
		case approval.ApprovalStatus == model.ApprovalRejected:
			return s.rejectMandate(ctx, order)
		default:
			return nil
		}
	})
}

func (s *reconciliationService) storeMandateMeta(ctx context.Context, orderID string, approval model.MandateApproval) error {
	meta := map[string]string{
		model.MetaMandateID:        approval.MandateID,
		model.MetaMandateReference: approval.MandateReferenceNumber,
		model.MetaBankCode:         approval.PayerBankCode,
	}
	for key, value := range meta {
		if value == "" {
			continue
		}
		if err := s.orders.SetMetadata(ctx, orderID, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *reconciliationService) approveMandate(ctx context.Context, order *model.Order, approval model.MandateApproval) error {
	subs, err := s.subs.ListForOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	// One failing subscription must not block the others
	for i := range subs {
		sub := subs[i]
		if err := s.activateSubscription(ctx, &sub); err != nil {
			logger.ErrorWithFields("Failed to activate subscription", err, map[string]interface{}{
				"order_id":        order.ID,
				"subscription_id": sub.ID,
			})
			if noteErr := s.subs.AddNote(ctx, sub.ID, "Error activating subscription: "+err.Error()); noteErr != nil {
				logger.Error("Failed to add subscription note", noteErr)
			}
			continue
		}
		s.publish(ctx, model.AggregateSubscription, sub.ID, model.EventMandateApproved, order, model.OrderStatusCompleted, approval.MandateID, sub.Total)
	}

	if order.IsPaid() {
		return nil
	}

	reference := approval.MandateReferenceNumber
	if reference == "" {
		reference = approval.MandateID
	}
	if err := s.orders.MarkPaymentComplete(ctx, order.ID, reference); err != nil && !errors.Is(err, model.ErrOrderAlreadyCompleted) {
		return err
	}
	return nil
}

func (s *reconciliationService) activateSubscription(ctx context.Context, sub *model.Subscription) error {
	if sub.Status == model.SubscriptionStatusCancelled || sub.Status == model.SubscriptionStatusExpired {
		return fmt.Errorf("subscription %s is %s", sub.ID, sub.Status)
	}

	next, err := s.subs.CalculateNextPaymentDate(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to calculate next payment date: %w", err)
	}

	if sub.Status != model.SubscriptionStatusActive {
		if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusActive, noteSubscriptionActive); err != nil {
			return err
		}
	}
	return s.subs.SetNextPaymentDate(ctx, sub.ID, next)
}

func (s *reconciliationService) rejectMandate(ctx context.Context, order *model.Order) error {
	if order.NeedsPayment() {
		if err := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusFailed, noteApprovalRejected); err != nil {
			return err
		}
	}

	subs, err := s.subs.ListForOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.Status == model.SubscriptionStatusCancelled {
			continue
		}
		if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusCancelled, noteApprovalRejected); err != nil {
			logger.ErrorWithFields("Failed to cancel subscription", err, map[string]interface{}{"subscription_id": sub.ID})
		}
	}
	s.publish(ctx, model.AggregateOrder, order.ID, model.EventPaymentFailed, order, model.OrderStatusFailed, "", order.Total)
	return nil
}

func (s *reconciliationService) terminateSubscriptions(ctx context.Context, order *model.Order, approval model.MandateApproval) error {
	subs, err := s.subs.ListForOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if sub.Status == model.SubscriptionStatusCancelled {
			continue
		}
		if err := s.subs.AddNote(ctx, sub.ID, terminationNote(approval)); err != nil {
			logger.ErrorWithFields("Failed to add termination note", err, map[string]interface{}{"subscription_id": sub.ID})
			continue
		}
		if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusCancelled, noteMandateTerminated); err != nil {
			logger.ErrorWithFields("Failed to cancel subscription", err, map[string]interface{}{"subscription_id": sub.ID})
			continue
		}
		s.publish(ctx, model.AggregateSubscription, sub.ID, model.EventMandateTerminated, order, model.OrderStatusCancelled, approval.MandateID, sub.Total)
	}

	if order.Status == model.OrderStatusCancelled {
		return nil
	}
	return s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled, noteOrderTerminated)
}

// =====================================================
// DIRECT DEBIT: RECURRING TRANSACTIONS
// =====================================================

func (s *reconciliationService) ApplyRecurringTransaction(ctx context.Context, txn model.RecurringTransaction) error {
	if err := txn.Validate(); err != nil {
		return model.NewInvalidPayloadError(err.Error())
	}

	// The mandate reference is the parent order number
	parentID := txn.MandateReferenceNumber
	if _, err := s.orders.Get(ctx, parentID); err != nil {
		return err
	}

	subs, err := s.subs.ListForOrder(ctx, parentID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return model.NewSubscriptionNotFoundError(parentID)
	}

	return s.withOrderLock(ctx, parentID, func() error {
		for i := range subs {
			sub := subs[i]
			if !sub.CanProcessPayment() {
				logger.Info("Skipping subscription that cannot take payments", map[string]interface{}{
					"subscription_id": sub.ID,
					"status":          sub.Status,
				})
				continue
			}

			var err error
			if txn.IsFirstPayment() {
				err = s.processFirstPayment(ctx, parentID, &sub, txn)
			} else {
				err = s.processRenewal(ctx, parentID, &sub, txn)
			}
			if err != nil {
				logger.ErrorWithFields("Failed to process recurring transaction", err, map[string]interface{}{
					"subscription_id": sub.ID,
					"transaction_id":  txn.TransactionID,
					"cycle":           txn.Cycle,
				})
				continue
			}
		}
		return nil
	})
}

func (s *reconciliationService) processFirstPayment(
	ctx context.Context,
	parentID string,
	sub *model.Subscription,
	txn model.RecurringTransaction,
) error {
	parent, err := s.orders.Get(ctx, parentID)
	if err != nil {
		return err
	}

	if _, err := s.addOrderNoteOnce(ctx, parent.ID, recurringNote(txn)); err != nil {
		return err
	}

	if !txn.Succeeded() {
		if parent.NeedsPayment() && parent.Status != model.OrderStatusFailed {
			if err := s.orders.UpdateStatus(ctx, parent.ID, model.OrderStatusFailed, ""); err != nil {
				return err
			}
		}
		if sub.Status != model.SubscriptionStatusOnHold {
			if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusOnHold, noteFirstPaymentFailed); err != nil {
				return err
			}
		}
		s.publish(ctx, model.AggregateSubscription, sub.ID, model.EventRenewalPaymentFail, parent, model.OrderStatusFailed, txn.TransactionID, txn.Amount)
		return nil
	}

	if !parent.IsPaid() {
		if err := s.orders.MarkPaymentComplete(ctx, parent.ID, txn.TransactionID); err != nil && !errors.Is(err, model.ErrOrderAlreadyCompleted) {
			return err
		}
		s.publish(ctx, model.AggregateOrder, parent.ID, model.EventPaymentCompleted, parent, model.OrderStatusCompleted, txn.TransactionID, txn.Amount)
	}
	return s.activateSubscription(ctx, sub)
}

func (s *reconciliationService) processRenewal(
	ctx context.Context,
	parentID string,
	sub *model.Subscription,
	txn model.RecurringTransaction,
) error {
	// A redelivered successful debit already completed its renewal
	if paid, err := s.orders.FindByTransactionID(ctx, txn.TransactionID); err != nil {
		return err
	} else if paid != nil && paid.IsPaid() {
		logger.Info("Renewal already recorded for transaction", map[string]interface{}{
			"order_id":       paid.ID,
			"transaction_id": txn.TransactionID,
		})
		return nil
	}

	renewal, err := s.renewalOrder(ctx, parentID, sub, txn.Amount)
	if err != nil {
		return err
	}

	if _, err := s.addOrderNoteOnce(ctx, renewal.ID, recurringNote(txn)); err != nil {
		return err
	}

	if !txn.Succeeded() {
		if renewal.Status != model.OrderStatusFailed {
			if err := s.orders.UpdateStatus(ctx, renewal.ID, model.OrderStatusFailed, ""); err != nil {
				return err
			}
		}
		if sub.Status != model.SubscriptionStatusOnHold {
			if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusOnHold, noteSubscriptionOnHold); err != nil {
				return err
			}
		}
		s.publish(ctx, model.AggregateSubscription, sub.ID, model.EventRenewalPaymentFail, renewal, model.OrderStatusFailed, txn.TransactionID, txn.Amount)
		return nil
	}

	if err := s.orders.MarkPaymentComplete(ctx, renewal.ID, txn.TransactionID); err != nil && !errors.Is(err, model.ErrOrderAlreadyCompleted) {
		return err
	}

	next, err := s.subs.CalculateNextPaymentDate(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to calculate next payment date: %w", err)
	}
	if err := s.subs.SetNextPaymentDate(ctx, sub.ID, next); err != nil {
		return err
	}
	if sub.Status != model.SubscriptionStatusActive {
		if err := s.subs.UpdateStatus(ctx, sub.ID, model.SubscriptionStatusActive, noteSubscriptionRenewed); err != nil {
			return err
		}
	}

	s.publish(ctx, model.AggregateSubscription, sub.ID, model.EventRenewalPaid, renewal, model.OrderStatusCompleted, txn.TransactionID, txn.Amount)
	return nil
}

// renewalOrder finds the pending renewal for (parent, subscription) or creates one,
// correcting its total when it drifted from the debited amount.
func (s *reconciliationService) renewalOrder(
	ctx context.Context,
	parentID string,
	sub *model.Subscription,
	amount decimal.Decimal,
) (*model.Order, error) {
	existing, err := s.orders.FindPendingRenewal(ctx, parentID, sub.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		parent, err := s.orders.Get(ctx, parentID)
		if err != nil {
			return nil, err
		}
		renewal, err := s.orders.CreateRenewal(ctx, parent, sub, amount)
		if err != nil {
			return nil, err
		}
		logger.Info("Created renewal order", map[string]interface{}{
			"order_id":        renewal.ID,
			"parent_order_id": parentID,
			"subscription_id": sub.ID,
		})
		return renewal, nil
	}

	tolerance := decimal.RequireFromString(model.RenewalAmountTolerance)
	if existing.Total.Sub(amount).Abs().GreaterThan(tolerance) {
		logger.Info("Updating renewal order total", map[string]interface{}{
			"order_id": existing.ID,
			"from":     existing.Total.String(),
			"to":       amount.String(),
		})
		if err := s.orders.SetTotal(ctx, existing.ID, amount); err != nil {
			return nil, err
		}
		existing.Total = amount
	}
	return existing, nil
}

// =====================================================
// DIRECT DEBIT: ENROLLMENT RETURN
// =====================================================

func (s *reconciliationService) ApplyEnrollmentReturn(ctx context.Context, orderID string, succeeded bool) error {
	if orderID == "" {
		return model.NewMissingFieldsError("order_number")
	}
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return err
	}

	return s.withOrderLock(ctx, orderID, func() error {
		order, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCompleted {
			logger.Info("Order already completed, enrollment return ignored", map[string]interface{}{"order_id": order.ID})
			return nil
		}

		if !succeeded {
			if err := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusOnHold, ""); err != nil {
				return err
			}
			_, err := s.addOrderNoteOnce(ctx, order.ID, noteEnrollmentFailed)
			return err
		}

		if _, err := s.addOrderNoteOnce(ctx, order.ID, noteEnrollmentVerified); err != nil {
			return err
		}
		if order.Status != model.OrderStatusOnHold {
			if err := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusOnHold, noteEnrollmentOnHold); err != nil {
				return err
			}
		}

		subs, err := s.subs.ListForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			note := fmt.Sprintf("Parent order %s has been put on-hold after successful Direct Debit enrollment.", order.ID)
			if err := s.subs.AddNote(ctx, sub.ID, note); err != nil {
				logger.ErrorWithFields("Failed to add subscription note", err, map[string]interface{}{"subscription_id": sub.ID})
			}
		}
		return nil
	})
}

// =====================================================
// ADMIN: CANCELLATION
// =====================================================

func (s *reconciliationService) CancelOrder(ctx context.Context, orderID, reason string) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if order.IsDirectDebit() {
		if _, err := s.addOrderNoteOnce(ctx, order.ID, noteCancelPrevented); err != nil {
			return err
		}
		logger.Warn("Direct Debit order cancellation prevented", map[string]interface{}{"order_id": order.ID})
		return model.NewCancellationPreventedError(order.ID)
	}

	return s.withOrderLock(ctx, orderID, func() error {
		order, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusNew && order.Status != model.OrderStatusPending {
			return model.NewInvalidPayloadError(fmt.Sprintf("Order %s cannot be cancelled from status %s", order.ID, order.Status))
		}

		note := "Order cancelled by admin."
		if reason != "" {
			note = "Order cancelled by admin: " + reason
		}
		return s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled, note)
	})
}

// =====================================================
// HELPERS
// =====================================================

// addOrderNoteOnce appends content unless an identical note already exists.
func (s *reconciliationService) addOrderNoteOnce(ctx context.Context, orderID, content string) (bool, error) {
	notes, err := s.orders.ListNotes(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, n := range notes {
		if n.Content == content {
			logger.Debug("Duplicate order note, not added", map[string]interface{}{"order_id": orderID})
			return false, nil
		}
	}
	if err := s.orders.AddNote(ctx, orderID, content); err != nil {
		return false, err
	}
	return true, nil
}

func (s *reconciliationService) withOrderLock(ctx context.Context, orderID string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}

	key := model.LockKeyOrderPrefix + orderID
	deadline := s.now().Add(s.lockWait)

	for {
		lock, err := s.locker.Acquire(ctx, key, s.lockTTL)
		if err == nil {
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorWithFields("Failed to release order lock", err, map[string]interface{}{"order_id": orderID})
				}
			}()
			return fn()
		}
		if !errors.Is(err, model.ErrLockNotAcquired) || s.now().After(deadline) {
			return fmt.Errorf("failed to lock order %s: %w", orderID, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// methodSettings never fails; unknown methods reconcile with default settings.
func (s *reconciliationService) methodSettings(ctx context.Context, method string) *model.MethodSettings {
	settings, err := s.settings.Get(ctx, method)
	if err != nil {
		return &model.MethodSettings{Method: method}
	}
	return settings
}

// trace logs at info when the method runs in debug mode.
func (s *reconciliationService) trace(settings *model.MethodSettings, msg string, fields map[string]interface{}) {
	if settings != nil && settings.Debug {
		logger.Info(msg, fields)
		return
	}
	logger.Debug(msg, fields)
}

func (s *reconciliationService) publish(
	ctx context.Context,
	aggregateType, aggregateID, eventType string,
	order *model.Order,
	status model.OrderStatus,
	transactionID string,
	amount decimal.Decimal,
) {
	event := model.OrderEvent{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		OrderID:       order.ID,
		Status:        string(status),
		TransactionID: transactionID,
		Amount:        amount,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.ErrorWithFields("Failed to publish order event", err, map[string]interface{}{
			"order_id": order.ID,
			"type":     eventType,
		})
	}
}
