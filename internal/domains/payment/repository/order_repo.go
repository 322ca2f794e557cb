package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/pkg/database"
)

// =====================================================
// ORDER STORE IMPLEMENTATION
// =====================================================
type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderStore {
	return &orderRepository{pool: pool}
}

const orderColumns = `
	id, customer_id, total, currency, status, payment_method,
	billing_name, billing_email, billing_phone, transaction_id,
	paid_at, parent_order_id, subscription_id, created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Total,
		&o.Currency,
		&o.Status,
		&o.PaymentMethod,
		&o.BillingName,
		&o.BillingEmail,
		&o.BillingPhone,
		&o.TransactionID,
		&o.PaidAt,
		&o.ParentOrderID,
		&o.SubscriptionID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// =====================================================
// QUERY METHODS
// =====================================================

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewOrderNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) ListNotes(ctx context.Context, id string) ([]model.OrderNote, error) {
	query := `
		SELECT id, order_id, content, created_at
		FROM order_notes
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list order notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.OrderNote, 0)
	for rows.Next() {
		var n model.OrderNote
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *orderRepository) GetMetadata(ctx context.Context, id, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT meta_value FROM order_meta WHERE order_id = $1 AND meta_key = $2`,
		id, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get order meta %s: %w", key, err)
	}
	return value, nil
}

// ListPendingByMethod lists orders still awaiting payment, oldest first
func (r *orderRepository) ListPendingByMethod(ctx context.Context, method string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = model.DefaultSweepBatchSize
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_method = $1 AND status = $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, method, model.OrderStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE transaction_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by transaction: %w", err)
	}
	return order, nil
}

func (r *orderRepository) FindPendingRenewal(ctx context.Context, parentOrderID, subscriptionID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE parent_order_id = $1 AND subscription_id = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, parentOrderID, subscriptionID, model.OrderStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending renewal: %w", err)
	}
	return order, nil
}

// =====================================================
// MUTATIONS
// =====================================================

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, note string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			id, status,
		)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return model.NewOrderNotFoundError(id)
		}

		if note == "" {
			return nil
		}
		return insertOrderNote(ctx, tx, id, note)
	})
}

func (r *orderRepository) AddNote(ctx context.Context, id, content string) error {
	return insertOrderNote(ctx, r.pool, id, content)
}

func (r *orderRepository) SetMetadata(ctx context.Context, id, key, value string) error {
	query := `
		INSERT INTO order_meta (order_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, id, key, value); err != nil {
		return fmt.Errorf("failed to set order meta %s: %w", key, err)
	}
	return nil
}

func (r *orderRepository) DeleteMetadata(ctx context.Context, id, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM order_meta WHERE order_id = $1 AND meta_key = $2`, id, key); err != nil {
		return fmt.Errorf("failed to delete order meta %s: %w", key, err)
	}
	return nil
}

// MarkPaymentComplete moves the order to completed and records the reference.
// Orders already processing or completed are left untouched.
func (r *orderRepository) MarkPaymentComplete(ctx context.Context, id, reference string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var status model.OrderStatus
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.NewOrderNotFoundError(id)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if status == model.OrderStatusProcessing || status == model.OrderStatusCompleted {
			return model.NewOrderAlreadyCompletedError(id)
		}

		_, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, transaction_id = $3, paid_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, id, model.OrderStatusCompleted, reference)
		if err != nil {
			return fmt.Errorf("failed to complete order payment: %w", err)
		}
		return nil
	})
}

func (r *orderRepository) SetTotal(ctx context.Context, id string, total decimal.Decimal) error {
	result, err := r.pool.Exec(ctx, `UPDATE orders SET total = $2, updated_at = NOW() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.NewOrderNotFoundError(id)
	}
	return nil
}

// CreateRenewal copies the parent's billing details into a new pending order
func (r *orderRepository) CreateRenewal(
	ctx context.Context,
	parent *model.Order,
	sub *model.Subscription,
	total decimal.Decimal,
) (*model.Order, error) {
	renewalID := uuid.NewString()

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Order, error) {
		query := `
			INSERT INTO orders (
				id, customer_id, total, currency, status, payment_method,
				billing_name, billing_email, billing_phone,
				parent_order_id, subscription_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + orderColumns

		order, err := scanOrder(tx.QueryRow(ctx, query,
			renewalID,
			parent.CustomerID,
			total,
			parent.Currency,
			model.OrderStatusPending,
			parent.PaymentMethod,
			parent.BillingName,
			parent.BillingEmail,
			parent.BillingPhone,
			parent.ID,
			sub.ID,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create renewal order: %w", err)
		}

		// Mandate metadata follows the subscription onto every renewal.
		_, err = tx.Exec(ctx, `
			INSERT INTO order_meta (order_id, meta_key, meta_value)
			SELECT $1, meta_key, meta_value
			FROM order_meta
			WHERE order_id = $2 AND meta_key = ANY($3)
		`, order.ID, parent.ID, []string{
			model.MetaMandateID,
			model.MetaMandateReference,
			model.MetaBankCode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to copy mandate meta: %w", err)
		}
		return order, nil
	})
}

// =====================================================
// HELPERS
// =====================================================

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertOrderNote(ctx context.Context, db execer, id, content string) error {
	if _, err := db.Exec(ctx, `INSERT INTO order_notes (order_id, content) VALUES ($1, $2)`, id, content); err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}
