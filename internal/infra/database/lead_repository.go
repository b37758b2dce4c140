package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert grava pela chave natural (email). O COALESCE garante a regra de
// merge: campo vazio que chega preserva o valor existente; source,
// assigned_to e assigned_at sempre sobrescrevem. Um statement só — a
// atomicidade por email vem do ON CONFLICT.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	extraJSON, err := json.Marshal(lead.Extra)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (id, email, first_name, last_name, phone, source, extra,
		                   assigned_to, assigned_at, source_message_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			first_name        = COALESCE(EXCLUDED.first_name, leads.first_name),
			last_name         = COALESCE(EXCLUDED.last_name, leads.last_name),
			phone             = COALESCE(EXCLUDED.phone, leads.phone),
			source            = EXCLUDED.source,
			extra             = COALESCE(leads.extra, '{}'::jsonb) || EXCLUDED.extra,
			assigned_to       = EXCLUDED.assigned_to,
			assigned_at       = EXCLUDED.assigned_at,
			source_message_id = EXCLUDED.source_message_id,
			updated_at        = NOW()
		RETURNING id, reply_sent_at, created_at, updated_at
	`

	err = r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		nullString(lead.FirstName),
		nullString(lead.LastName),
		nullString(lead.Phone),
		lead.Source,
		string(extraJSON),
		nullString(lead.AssignedTo),
		lead.AssignedAt,
		nullString(lead.SourceMessageID),
	).Scan(
		&lead.ID,
		&lead.ReplySentAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	return err
}

// MarkReplySent só grava se reply_sent_at ainda estiver nulo — o guard da
// idempotência fica no banco, não na memória do processo.
func (r *LeadRepository) MarkReplySent(ctx context.Context, email string, at time.Time) error {
	query := `
		UPDATE leads
		SET reply_sent_at = $2, updated_at = NOW()
		WHERE email = $1 AND reply_sent_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, email, at)
	return err
}

func (r *LeadRepository) List(ctx context.Context, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT id, email, COALESCE(first_name, ''), COALESCE(last_name, ''),
		       COALESCE(phone, ''), source, COALESCE(extra, '{}'::jsonb),
		       COALESCE(assigned_to, ''), assigned_at, reply_sent_at,
		       created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var lead entity.Lead
		var extraRaw []byte
		if err := rows.Scan(
			&lead.ID,
			&lead.Email,
			&lead.FirstName,
			&lead.LastName,
			&lead.Phone,
			&lead.Source,
			&extraRaw,
			&lead.AssignedTo,
			&lead.AssignedAt,
			&lead.ReplySentAt,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(extraRaw) > 0 {
			if err := json.Unmarshal(extraRaw, &lead.Extra); err != nil {
				return nil, err
			}
		}
		leads = append(leads, &lead)
	}

	return leads, rows.Err()
}
