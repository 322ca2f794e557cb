package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// IN-MEMORY ORDER STORE
// =====================================================

type memOrders struct {
	mu     sync.Mutex
	orders map[string]*model.Order
	notes  map[string][]model.OrderNote
	meta   map[string]map[string]string
	nextID int64
}

func newMemOrders(orders ...*model.Order) *memOrders {
	m := &memOrders{
		orders: make(map[string]*model.Order),
		notes:  make(map[string][]model.OrderNote),
		meta:   make(map[string]map[string]string),
	}
	for _, o := range orders {
		m.put(o)
	}
	return m
}

func (m *memOrders) put(o *model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().Add(time.Duration(len(m.orders)) * time.Second)
	}
	copied := *o
	m.orders[o.ID] = &copied
}

func (m *memOrders) Get(ctx context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, model.NewOrderNotFoundError(id)
	}
	copied := *o
	return &copied, nil
}

func (m *memOrders) status(id string) model.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id].Status
}

func (m *memOrders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, note string) error {
	m.mu.Lock()
	o, ok := m.orders[id]
	if !ok {
		m.mu.Unlock()
		return model.NewOrderNotFoundError(id)
	}
	o.Status = status
	m.mu.Unlock()

	if note != "" {
		return m.AddNote(ctx, id, note)
	}
	return nil
}

func (m *memOrders) AddNote(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.notes[id] = append(m.notes[id], model.OrderNote{ID: m.nextID, OrderID: id, Content: content})
	return nil
}

func (m *memOrders) ListNotes(ctx context.Context, id string) ([]model.OrderNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OrderNote(nil), m.notes[id]...), nil
}

func (m *memOrders) noteContents(id string) []string {
	notes, _ := m.ListNotes(context.Background(), id)
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Content)
	}
	return out
}

func (m *memOrders) SetMetadata(ctx context.Context, id, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta[id] == nil {
		m.meta[id] = make(map[string]string)
	}
	m.meta[id][key] = value
	return nil
}

func (m *memOrders) GetMetadata(ctx context.Context, id, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta[id][key], nil
}

func (m *memOrders) DeleteMetadata(ctx context.Context, id, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meta[id], key)
	return nil
}

func (m *memOrders) MarkPaymentComplete(ctx context.Context, id, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.NewOrderNotFoundError(id)
	}
	if o.IsPaid() {
		return model.NewOrderAlreadyCompletedError(id)
	}
	now := time.Now()
	o.Status = model.OrderStatusCompleted
	o.TransactionID = reference
	o.PaidAt = &now
	return nil
}

func (m *memOrders) SetTotal(ctx context.Context, id string, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id].Total = total
	return nil
}

func (m *memOrders) ListPendingByMethod(ctx context.Context, method string, limit int) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		if o.PaymentMethod == method && o.Status == model.OrderStatusPending {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOrders) FindByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TransactionID == transactionID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memOrders) FindPendingRenewal(ctx context.Context, parentOrderID, subscriptionID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ParentOrderID != nil && *o.ParentOrderID == parentOrderID &&
			o.SubscriptionID != nil && *o.SubscriptionID == subscriptionID &&
			o.Status == model.OrderStatusPending {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memOrders) CreateRenewal(ctx context.Context, parent *model.Order, sub *model.Subscription, total decimal.Decimal) (*model.Order, error) {
	parentID, subID := parent.ID, sub.ID
	renewal := &model.Order{
		ID:             uuid.NewString(),
		CustomerID:     parent.CustomerID,
		Total:          total,
		Currency:       parent.Currency,
		Status:         model.OrderStatusPending,
		PaymentMethod:  parent.PaymentMethod,
		BillingName:    parent.BillingName,
		BillingEmail:   parent.BillingEmail,
		ParentOrderID:  &parentID,
		SubscriptionID: &subID,
	}
	m.put(renewal)
	return m.Get(ctx, renewal.ID)
}

func (m *memOrders) renewals(parentID string) []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		if o.ParentOrderID != nil && *o.ParentOrderID == parentID {
			out = append(out, *o)
		}
	}
	return out
}

// =====================================================
// IN-MEMORY SUBSCRIPTION STORE
// =====================================================

type memSubs struct {
	mu    sync.Mutex
	subs  map[string]*model.Subscription
	notes map[string][]string
	meta  map[string]map[string]string
}

func newMemSubs(subs ...*model.Subscription) *memSubs {
	m := &memSubs{
		subs:  make(map[string]*model.Subscription),
		notes: make(map[string][]string),
		meta:  make(map[string]map[string]string),
	}
	for _, s := range subs {
		copied := *s
		m.subs[s.ID] = &copied
	}
	return m
}

func (m *memSubs) Get(ctx context.Context, id string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, model.NewSubscriptionNotFoundError(id)
	}
	copied := *s
	return &copied, nil
}

func (m *memSubs) ListForOrder(ctx context.Context, parentOrderID string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs {
		if s.ParentOrderID == parentOrderID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSubs) UpdateStatus(ctx context.Context, id string, status model.SubscriptionStatus, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return model.NewSubscriptionNotFoundError(id)
	}
	s.Status = status
	if note != "" {
		m.notes[id] = append(m.notes[id], note)
	}
	return nil
}

func (m *memSubs) CalculateNextPaymentDate(ctx context.Context, sub *model.Subscription) (time.Time, error) {
	return sub.NextPaymentAfter(time.Now()), nil
}

func (m *memSubs) SetNextPaymentDate(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[id].NextPaymentAt = &at
	return nil
}

func (m *memSubs) AddNote(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[id] = append(m.notes[id], content)
	return nil
}

func (m *memSubs) SetMetadata(ctx context.Context, id, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta[id] == nil {
		m.meta[id] = make(map[string]string)
	}
	m.meta[id][key] = value
	return nil
}

func (m *memSubs) status(id string) model.SubscriptionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[id].Status
}

// =====================================================
// LOCKER / PUBLISHER / CART / CALLBACK LOG
// =====================================================

type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, model.ErrLockNotAcquired
	}
	l.held[key] = true
	return &memLock{locker: l, key: key}, nil
}

type memLock struct {
	locker *memLocker
	key    string
}

func (l *memLock) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []model.OrderEvent
}

func (p *memPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *memPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memCart struct {
	mu      sync.Mutex
	cleared []string
}

func (c *memCart) ClearCart(ctx context.Context, order *model.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = append(c.cleared, order.ID)
	return nil
}

type memCallbackLogs struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*model.CallbackLog
}

func newMemCallbackLogs() *memCallbackLogs {
	return &memCallbackLogs{logs: make(map[uuid.UUID]*model.CallbackLog)}
}

func (r *memCallbackLogs) Create(ctx context.Context, log *model.CallbackLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	copied := *log
	r.logs[log.ID] = &copied
	return nil
}

func (r *memCallbackLogs) MarkAsProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("callback log %s not found", id)
	}
	l.IsProcessed = true
	return nil
}

func (r *memCallbackLogs) MarkProcessingError(ctx context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("callback log %s not found", id)
	}
	l.ProcessingError = &errMsg
	return nil
}

func (r *memCallbackLogs) List(ctx context.Context, filter model.CallbackLogFilter) ([]model.CallbackLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CallbackLog, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out, nil
}

func (r *memCallbackLogs) all() []model.CallbackLog {
	logs, _ := r.List(context.Background(), model.CallbackLogFilter{})
	return logs
}
