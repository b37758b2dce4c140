package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// MailboxGateway é a visão que o pipeline tem da caixa de entrada:
// listar candidatas, buscar conteúdo completo e dar o ack (marcar lida).
type MailboxGateway interface {
	ListCandidates(ctx context.Context, limit int) ([]string, error)
	FetchContent(ctx context.Context, messageID string) (*entity.InboundMessage, error)
	Acknowledge(ctx context.Context, messageID string) error
}

// ReplySender envia a resposta de boas-vindas apresentando o atendente.
// Devolve o Message-ID gerado para a mensagem de saída.
type ReplySender interface {
	SendAssignmentReply(input mail.ReplyInput) (string, error)
}

// AlertNotifier publica alertas de falha. Best-effort: o chamador nunca
// deixa um erro daqui mascarar a falha original.
type AlertNotifier interface {
	NotifyFailure(ctx context.Context, alert queue.FailureAlert) error
}

// MessageProcessor processa uma mensagem de ponta a ponta.
type MessageProcessor interface {
	Execute(ctx context.Context, messageID string) error
}
