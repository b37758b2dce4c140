package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type RecipientRepository struct {
	DB *sql.DB
}

func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{DB: db}
}

// SelectNext faz o round-robin num passo atômico: o subselect trava a
// linha do atendente há mais tempo sem lead (nunca atribuído primeiro) e o
// UPDATE incrementa o contador e renova o timestamp antes de liberar.
// SKIP LOCKED evita que dois processos concorrentes escolham o mesmo
// atendente para leads diferentes.
func (r *RecipientRepository) SelectNext(ctx context.Context) (*entity.Recipient, error) {
	query := `
		UPDATE recipients
		SET assignment_count = assignment_count + 1,
		    last_assigned_at = NOW()
		WHERE id = (
			SELECT id FROM recipients
			WHERE active
			ORDER BY last_assigned_at ASC NULLS FIRST, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, name, email, active, COALESCE(booking_url, ''), assignment_count, last_assigned_at
	`

	var rec entity.Recipient
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&rec.ID,
		&rec.Name,
		&rec.Email,
		&rec.Active,
		&rec.BookingURL,
		&rec.AssignmentCount,
		&rec.LastAssignedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNoActiveRecipient
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipientRepository) ListActive(ctx context.Context) ([]*entity.Recipient, error) {
	query := `
		SELECT id, name, email, active, COALESCE(booking_url, ''), assignment_count, last_assigned_at
		FROM recipients
		WHERE active
		ORDER BY last_assigned_at ASC NULLS FIRST, id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*entity.Recipient
	for rows.Next() {
		var rec entity.Recipient
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Email,
			&rec.Active,
			&rec.BookingURL,
			&rec.AssignmentCount,
			&rec.LastAssignedAt,
		); err != nil {
			return nil, err
		}
		recipients = append(recipients, &rec)
	}
	return recipients, rows.Err()
}
