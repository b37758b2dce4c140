package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/recognizer"
)

// ProcessMessageUseCase executa a máquina de estados de uma mensagem:
// PROCESSING -> SUCCESS, ou PROCESSING -> FAILED (reentrante numa próxima
// tentativa). Toda falha entre o fetch e o ack vira um ProcessingRecord
// FAILED com o erro gravado — nunca derruba a iteração do coordenador.
type ProcessMessageUseCase struct {
	Processing entity.ProcessingRepositoryInterface
	Leads      entity.LeadRepositoryInterface
	Recipients entity.RecipientRepositoryInterface
	Mailbox    MailboxGateway
	Replies    ReplySender
	Alerts     AlertNotifier
	Chain      *recognizer.Chain
}

func NewProcessMessageUseCase(
	processing entity.ProcessingRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	recipients entity.RecipientRepositoryInterface,
	mailbox MailboxGateway,
	replies ReplySender,
	alerts AlertNotifier,
	chain *recognizer.Chain,
) *ProcessMessageUseCase {
	return &ProcessMessageUseCase{
		Processing: processing,
		Leads:      leads,
		Recipients: recipients,
		Mailbox:    mailbox,
		Replies:    replies,
		Alerts:     alerts,
		Chain:      chain,
	}
}

func (uc *ProcessMessageUseCase) Execute(ctx context.Context, messageID string) error {

	// Primeiro write de tudo: se o processo cair no meio, sobra um
	// marcador PROCESSING durável com a contagem de tentativas correta.
	record, err := uc.Processing.StartAttempt(ctx, messageID)
	if err != nil {
		return &TechnicalError{
			Code:    "PROCESSING_RECORD_FAILED",
			Message: "erro ao registrar tentativa: " + err.Error(),
		}
	}

	if err := uc.process(ctx, messageID); err != nil {
		if markErr := uc.Processing.MarkFailed(ctx, messageID, err.Error()); markErr != nil {
			log.Printf("❌ Erro ao gravar falha da mensagem %s: %v", messageID, markErr)
		}
		uc.notifyFailure(messageID, err, record.Attempts)
		middleware.RecordMessageProcessed("failed")
		return err
	}

	if err := uc.Processing.MarkSuccess(ctx, messageID); err != nil {
		// Sem o fallback o registro ficaria preso em PROCESSING: a mensagem
		// já foi ackada, então o polling não a lista mais e nem a
		// retentativa nem o /status enxergariam. FAILED mantém ela visível;
		// reprocessar é seguro (upsert + guarda de resposta).
		log.Printf("⚠️ Mensagem %s processada mas SUCCESS não gravado: %v", messageID, err)
		middleware.RecordIntegrationError("processing_store")
		detail := "processada com sucesso, mas status não gravado: " + err.Error()
		if markErr := uc.Processing.MarkFailed(ctx, messageID, detail); markErr != nil {
			log.Printf("❌ Erro ao gravar fallback FAILED da mensagem %s: %v", messageID, markErr)
		}
	}
	middleware.RecordMessageProcessed("success")
	return nil
}

func (uc *ProcessMessageUseCase) process(ctx context.Context, messageID string) error {

	msg, err := uc.Mailbox.FetchContent(ctx, messageID)
	if err != nil {
		return &TechnicalError{
			Code:    CodeFetchFailed,
			Message: "erro ao buscar mensagem: " + err.Error(),
		}
	}

	text := msg.Text
	if text == "" {
		text = msg.HTML
	}
	if text == "" {
		return &DomainError{
			Code:    CodeEmptyContent,
			Message: fmt.Sprintf("mensagem %s sem conteúdo", messageID),
		}
	}
	text = recognizer.NormalizeWhitespace(text)

	candidate, err := uc.Chain.Extract(text, msg.Subject)
	if err != nil {
		return &DomainError{
			Code:    CodeNoLeadExtractable,
			Message: err.Error(),
		}
	}
	middleware.RecordLeadExtracted(candidate.Source)

	recipient, err := uc.Recipients.SelectNext(ctx)
	if err != nil {
		if err == entity.ErrNoActiveRecipient {
			return &DomainError{Code: CodeNoEligibleRecipient, Message: err.Error()}
		}
		return &TechnicalError{Code: CodeNoEligibleRecipient, Message: err.Error()}
	}

	now := time.Now()
	lead := &entity.Lead{
		ID:              uuid.New().String(),
		Email:           candidate.Email,
		FirstName:       candidate.FirstName,
		LastName:        candidate.LastName,
		Phone:           candidate.Phone,
		Source:          candidate.Source,
		Extra:           candidate.Extra,
		AssignedTo:      recipient.ID,
		AssignedAt:      &now,
		SourceMessageID: messageID,
	}

	// Merge pela chave natural: o upsert preenche ID/ReplySentAt do
	// registro que já existia, se existia.
	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return fmt.Errorf("erro ao gravar lead %s: %w", lead.Email, err)
	}

	// Resposta idempotente: só envia se nunca respondemos esse lead.
	// É isso que evita resposta duplicada em reprocessamento.
	if lead.ReplySentAt == nil {
		_, err := uc.Replies.SendAssignmentReply(mail.ReplyInput{
			To:             lead.Email,
			ToName:         lead.FirstName,
			Subject:        msg.Subject,
			RecipientName:  recipient.Name,
			RecipientEmail: recipient.Email,
			BookingURL:     recipient.BookingURL,
			InReplyTo:      msg.MessageIDHeader,
		})
		if err != nil {
			return &TechnicalError{
				Code:    CodeReplyFailed,
				Message: "erro ao enviar resposta: " + err.Error(),
			}
		}
		middleware.RecordReplySent()
		if err := uc.Leads.MarkReplySent(ctx, lead.Email, time.Now()); err != nil {
			return fmt.Errorf("resposta enviada mas não registrada para %s: %w", lead.Email, err)
		}
	} else {
		log.Printf("↩️ Lead %s já respondido em %s, envio pulado",
			lead.Email, lead.ReplySentAt.Format(time.RFC3339))
	}

	// Sem ack a mensagem continua elegível para repolling — é o
	// comportamento desejado quando algo acima falha.
	if err := uc.Mailbox.Acknowledge(ctx, messageID); err != nil {
		return &TechnicalError{
			Code:    CodeAckFailed,
			Message: "erro ao marcar mensagem como lida: " + err.Error(),
		}
	}

	log.Printf("✅ Lead %s (%s) atribuído para %s", lead.Email, lead.Source, recipient.Name)
	return nil
}

// notifyFailure dispara o alerta em background (fire-and-forget): falha do
// alerta é logada e nunca mascara o erro original do processamento.
func (uc *ProcessMessageUseCase) notifyFailure(messageID string, cause error, attempts int) {
	if uc.Alerts == nil {
		return
	}
	alertPayload := queue.FailureAlert{
		MessageID:  messageID,
		Error:      cause.Error(),
		Attempts:   attempts,
		OccurredAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.Alerts.NotifyFailure(ctx, alertPayload); err != nil {
			log.Printf("⚠️ Falha ao publicar alerta da mensagem %s: %v", messageID, err)
		}
	}()
}
