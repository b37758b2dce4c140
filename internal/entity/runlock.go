package entity

import (
	"context"
	"time"
)

// RunLock é o token de exclusão mútua entre execuções do pipeline.
// O lock está "held" enquanto expires_at estiver no futuro; a expiração
// garante auto-recuperação se um holder morrer sem liberar.
type RunLock struct {
	Name      string    `json:"name"`
	HolderID  string    `json:"holder_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LockRepositoryInterface interface {

	// Acquire tenta tomar o lock via compare-and-swap: só vence se o
	// registro não existir ou já estiver expirado. Contenção não é erro —
	// retorna (false, nil).
	Acquire(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error)

	// Extend renova a expiração, mas só se o holder ainda for o chamador.
	Extend(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error)

	// Release expira o lock imediatamente. Liberar um lock inexistente
	// não é erro.
	Release(ctx context.Context, name string) error
}
