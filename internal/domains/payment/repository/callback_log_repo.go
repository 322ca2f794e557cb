package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// CALLBACK LOG REPOSITORY IMPLEMENTATION
// =====================================================
type callbackLogRepository struct {
	pool *pgxpool.Pool
}

func NewCallbackLogRepository(pool *pgxpool.Pool) CallbackLogRepository {
	return &callbackLogRepository{pool: pool}
}

// Create stores the callback as received, before checksum or processing
func (r *callbackLogRepository) Create(ctx context.Context, log *model.CallbackLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query := `
		INSERT INTO bayarcash_callback_logs (
			id, order_number, payment_method, record_type, body,
			checksum, is_valid, is_processed, received_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.OrderNumber,
		log.PaymentMethod,
		log.RecordType,
		[]byte(log.Body),
		log.Checksum,
		log.IsValid,
		log.IsProcessed,
		log.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create callback log: %w", err)
	}
	return nil
}

// =====================================================
// STATUS UPDATE METHODS
// =====================================================

func (r *callbackLogRepository) MarkAsProcessed(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE bayarcash_callback_logs
		SET is_processed = true, processed_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark callback as processed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("callback log not found: %s", id)
	}
	return nil
}

// MarkProcessingError records why a valid or invalid callback was not applied
func (r *callbackLogRepository) MarkProcessingError(ctx context.Context, id uuid.UUID, errMsg string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE bayarcash_callback_logs
		SET processing_error = $2, processed_at = NOW()
		WHERE id = $1
	`, id, errMsg)
	if err != nil {
		return fmt.Errorf("failed to mark processing error: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("callback log not found: %s", id)
	}
	return nil
}

// =====================================================
// REPORTING
// =====================================================

func (r *callbackLogRepository) List(ctx context.Context, filter model.CallbackLogFilter) ([]model.CallbackLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := `
		SELECT
			id, order_number, payment_method, record_type, body, checksum,
			is_valid, is_processed, processing_error, received_at, processed_at
		FROM bayarcash_callback_logs
		WHERE received_at >= $1 AND received_at < $2
		AND ($3::text = '' OR payment_method = $3)
		ORDER BY received_at ASC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, filter.From, filter.To, filter.PaymentMethod, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list callback logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.CallbackLog, 0)
	for rows.Next() {
		var l model.CallbackLog
		var body []byte
		err := rows.Scan(
			&l.ID,
			&l.OrderNumber,
			&l.PaymentMethod,
			&l.RecordType,
			&body,
			&l.Checksum,
			&l.IsValid,
			&l.IsProcessed,
			&l.ProcessingError,
			&l.ReceivedAt,
			&l.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan callback log: %w", err)
		}
		l.Body = body
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
