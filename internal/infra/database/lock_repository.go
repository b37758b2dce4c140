package database

import (
	"context"
	"database/sql"
	"time"
)

// LockRepository implementa o run lock como compare-and-swap numa linha de
// run_locks: a aquisição só vence se o registro não existir ou já tiver
// expirado. Dois holders disputando nunca vencem os dois — o ON CONFLICT
// serializa no banco.
type LockRepository struct {
	DB *sql.DB
}

func NewLockRepository(db *sql.DB) *LockRepository {
	return &LockRepository{DB: db}
}

func (r *LockRepository) Acquire(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO run_locks (name, holder_id, expires_at)
		VALUES ($1, $2, NOW() + $3 * INTERVAL '1 second')
		ON CONFLICT (name)
		DO UPDATE SET
			holder_id  = EXCLUDED.holder_id,
			expires_at = EXCLUDED.expires_at
		WHERE run_locks.expires_at <= NOW()
		RETURNING name
	`

	var got string
	err := r.DB.QueryRowContext(ctx, query, name, holderID, int(ttl.Seconds())).Scan(&got)
	if err == sql.ErrNoRows {
		// Lock ainda válido com outro holder. Contenção não é erro.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *LockRepository) Extend(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	query := `
		UPDATE run_locks
		SET expires_at = NOW() + $3 * INTERVAL '1 second'
		WHERE name = $1 AND holder_id = $2 AND expires_at > NOW()
	`

	res, err := r.DB.ExecContext(ctx, query, name, holderID, int(ttl.Seconds()))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *LockRepository) Release(ctx context.Context, name string) error {
	query := `
		UPDATE run_locks
		SET holder_id = '', expires_at = NOW() - INTERVAL '1 second'
		WHERE name = $1
	`
	// Liberar lock que não existe não é erro.
	_, err := r.DB.ExecContext(ctx, query, name)
	return err
}
