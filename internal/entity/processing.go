package entity

import (
	"context"
	"time"
)

const (
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
)

// ProcessingRecord acompanha o ciclo de vida de uma mensagem da caixa de
// entrada: quantas tentativas já foram feitas e em que estado parou.
// Mensagens FAILED ficam visíveis para inspeção e retentativa (dead-letter).
type ProcessingRecord struct {
	MessageID     string    `json:"message_id"`
	Attempts      int       `json:"attempts"`
	Status        string    `json:"status"`
	ErrorDetail   string    `json:"error_detail,omitempty"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProcessingRepositoryInterface interface {

	// StartAttempt cria ou atualiza o registro da mensagem: incrementa o
	// contador de tentativas, marca PROCESSING e limpa o erro anterior.
	// É o primeiro write de todo processamento — um crash no meio deixa
	// um marcador durável com a contagem correta.
	StartAttempt(ctx context.Context, messageID string) (*ProcessingRecord, error)

	MarkSuccess(ctx context.Context, messageID string) error
	MarkFailed(ctx context.Context, messageID, detail string) error

	// FilterSucceeded devolve, do conjunto recebido, apenas os IDs que
	// ainda NÃO estão com status SUCCESS (desconhecidos e FAILED contam).
	FilterSucceeded(ctx context.Context, messageIDs []string) ([]string, error)

	// ListFailedForRetry devolve registros FAILED com tentativas abaixo do
	// teto, da tentativa mais antiga para a mais recente, limitado ao lote.
	ListFailedForRetry(ctx context.Context, maxAttempts, limit int) ([]*ProcessingRecord, error)

	ListFailed(ctx context.Context, limit int) ([]*ProcessingRecord, error)
}
