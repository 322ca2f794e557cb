package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/pkg/database"
)

// =====================================================
// SUBSCRIPTION STORE IMPLEMENTATION
// =====================================================
type subscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionStore {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `
	id, parent_order_id, customer_id, status, billing_period,
	billing_interval, total, next_payment_at, created_at, updated_at
`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(
		&s.ID,
		&s.ParentOrderID,
		&s.CustomerID,
		&s.Status,
		&s.BillingPeriod,
		&s.BillingInterval,
		&s.Total,
		&s.NextPaymentAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := scanSubscription(r.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewSubscriptionNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

func (r *subscriptionRepository) ListForOrder(ctx context.Context, parentOrderID string) ([]model.Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE parent_order_id = $1
		ORDER BY created_at
	`, parentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]model.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func (r *subscriptionRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status model.SubscriptionStatus,
	note string,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE id = $1`,
			id, status,
		)
		if err != nil {
			return fmt.Errorf("failed to update subscription status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return model.NewSubscriptionNotFoundError(id)
		}
		if note == "" {
			return nil
		}
		return insertSubscriptionNote(ctx, tx, id, note)
	})
}

// CalculateNextPaymentDate counts one billing period from the later of now and
// the currently scheduled date.
func (r *subscriptionRepository) CalculateNextPaymentDate(ctx context.Context, sub *model.Subscription) (time.Time, error) {
	if sub == nil {
		return time.Time{}, errors.New("subscription is nil")
	}

	from := time.Now().UTC()
	if sub.NextPaymentAt != nil && sub.NextPaymentAt.After(from) {
		from = *sub.NextPaymentAt
	}
	return sub.NextPaymentAfter(from), nil
}

func (r *subscriptionRepository) SetNextPaymentDate(ctx context.Context, id string, at time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET next_payment_at = $2, updated_at = NOW() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("failed to set next payment date: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.NewSubscriptionNotFoundError(id)
	}
	return nil
}

func (r *subscriptionRepository) AddNote(ctx context.Context, id, content string) error {
	return insertSubscriptionNote(ctx, r.pool, id, content)
}

func (r *subscriptionRepository) SetMetadata(ctx context.Context, id, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscription_meta (subscription_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscription_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = NOW()
	`, id, key, value)
	if err != nil {
		return fmt.Errorf("failed to set subscription meta %s: %w", key, err)
	}
	return nil
}

func insertSubscriptionNote(ctx context.Context, db execer, id, content string) error {
	if _, err := db.Exec(ctx, `INSERT INTO subscription_notes (subscription_id, content) VALUES ($1, $2)`, id, content); err != nil {
		return fmt.Errorf("failed to add subscription note: %w", err)
	}
	return nil
}
