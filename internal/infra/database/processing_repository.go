package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ProcessingRepository struct {
	DB *sql.DB
}

func NewProcessingRepository(db *sql.DB) *ProcessingRepository {
	return &ProcessingRepository{DB: db}
}

// StartAttempt é o primeiro write de todo processamento: incrementa o
// contador, marca PROCESSING e limpa o erro anterior num statement só.
func (r *ProcessingRepository) StartAttempt(ctx context.Context, messageID string) (*entity.ProcessingRecord, error) {
	query := `
		INSERT INTO processing_records (message_id, attempts, status, last_attempt_at, created_at)
		VALUES ($1, 1, $2, NOW(), NOW())
		ON CONFLICT (message_id)
		DO UPDATE SET
			attempts        = processing_records.attempts + 1,
			status          = $2,
			error_detail    = NULL,
			last_attempt_at = NOW()
		RETURNING message_id, attempts, status, COALESCE(error_detail, ''), last_attempt_at, created_at
	`

	var rec entity.ProcessingRecord
	err := r.DB.QueryRowContext(ctx, query, messageID, entity.StatusProcessing).Scan(
		&rec.MessageID,
		&rec.Attempts,
		&rec.Status,
		&rec.ErrorDetail,
		&rec.LastAttemptAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ProcessingRepository) MarkSuccess(ctx context.Context, messageID string) error {
	query := `
		UPDATE processing_records
		SET status = $2, error_detail = NULL
		WHERE message_id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, messageID, entity.StatusSuccess)
	return err
}

func (r *ProcessingRepository) MarkFailed(ctx context.Context, messageID, detail string) error {
	query := `
		UPDATE processing_records
		SET status = $2, error_detail = $3
		WHERE message_id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, messageID, entity.StatusFailed, detail)
	return err
}

// FilterSucceeded devolve, na ordem recebida, os IDs que ainda não estão
// SUCCESS (desconhecidos e FAILED continuam candidatos).
func (r *ProcessingRepository) FilterSucceeded(ctx context.Context, messageIDs []string) ([]string, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT message_id FROM processing_records
		WHERE message_id = ANY($1) AND status = $2
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(messageIDs), entity.StatusSuccess)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	succeeded := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		succeeded[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var pending []string
	for _, id := range messageIDs {
		if !succeeded[id] {
			pending = append(pending, id)
		}
	}
	return pending, nil
}

func (r *ProcessingRepository) ListFailedForRetry(ctx context.Context, maxAttempts, limit int) ([]*entity.ProcessingRecord, error) {
	query := `
		SELECT message_id, attempts, status, COALESCE(error_detail, ''), last_attempt_at, created_at
		FROM processing_records
		WHERE status = $1 AND attempts < $2
		ORDER BY last_attempt_at ASC
		LIMIT $3
	`
	return r.queryRecords(ctx, query, entity.StatusFailed, maxAttempts, limit)
}

func (r *ProcessingRepository) ListFailed(ctx context.Context, limit int) ([]*entity.ProcessingRecord, error) {
	query := `
		SELECT message_id, attempts, status, COALESCE(error_detail, ''), last_attempt_at, created_at
		FROM processing_records
		WHERE status = $1
		ORDER BY last_attempt_at DESC
		LIMIT $2
	`
	return r.queryRecords(ctx, query, entity.StatusFailed, limit)
}

func (r *ProcessingRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]*entity.ProcessingRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.ProcessingRecord
	for rows.Next() {
		var rec entity.ProcessingRecord
		if err := rows.Scan(
			&rec.MessageID,
			&rec.Attempts,
			&rec.Status,
			&rec.ErrorDetail,
			&rec.LastAttemptAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
