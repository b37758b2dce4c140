package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
)

// RunReport é o resumo de uma execução do coordenador.
type RunReport struct {
	Skipped   bool          `json:"skipped"` // lock já estava com outro holder
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Retried   int           `json:"retried"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// RunCoordinator roda o pipeline de ponta a ponta: pega o lock, lista as
// mensagens candidatas, processa uma a uma com pacing entre elas, faz o
// passe de retentativa dos FAILED e libera o lock incondicionalmente.
type RunCoordinator struct {
	Locks      entity.LockRepositoryInterface
	Processing entity.ProcessingRepositoryInterface
	Mailbox    MailboxGateway
	Processor  MessageProcessor

	LockName   string
	LockTTL    time.Duration
	PaceDelay  time.Duration
	MessageCap int
	RetryMax   int // teto de tentativas por mensagem
	RetryBatch int // tamanho máximo do lote de retentativa por run
}

func NewRunCoordinator(
	locks entity.LockRepositoryInterface,
	processing entity.ProcessingRepositoryInterface,
	mailbox MailboxGateway,
	processor MessageProcessor,
	lockTTL, paceDelay time.Duration,
	messageCap, retryMax, retryBatch int,
) *RunCoordinator {
	return &RunCoordinator{
		Locks:      locks,
		Processing: processing,
		Mailbox:    mailbox,
		Processor:  processor,
		LockName:   "lead-pipeline-run",
		LockTTL:    lockTTL,
		PaceDelay:  paceDelay,
		MessageCap: messageCap,
		RetryMax:   retryMax,
		RetryBatch: retryBatch,
	}
}

func (rc *RunCoordinator) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}

	holderID := uuid.New().String()
	acquired, err := rc.Locks.Acquire(ctx, rc.LockName, holderID, rc.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		// Dois gatilhos de agenda colidindo: esperado, não é erro.
		log.Printf("🔒 Run pulado: lock '%s' ainda está com outro holder", rc.LockName)
		middleware.RecordLockContention()
		middleware.RecordRun("skipped")
		report.Skipped = true
		return report, nil
	}

	// Libera sempre, inclusive quando algo abaixo explode. O Background
	// aqui é proposital: o release precisa acontecer mesmo com ctx morto.
	defer func() {
		if err := rc.Locks.Release(context.Background(), rc.LockName); err != nil {
			log.Printf("❌ Erro ao liberar lock '%s': %v", rc.LockName, err)
		}
	}()

	if err := rc.run(ctx, holderID, report); err != nil {
		middleware.RecordRun("error")
		return report, err
	}

	report.Duration = time.Since(report.StartedAt)
	middleware.RecordRun("completed")
	log.Printf("🏁 Run concluído: %d processadas, %d ok, %d falhas, %d retentativas em %s",
		report.Processed, report.Succeeded, report.Failed, report.Retried,
		report.Duration.Round(time.Millisecond))
	return report, nil
}

func (rc *RunCoordinator) run(ctx context.Context, holderID string, report *RunReport) error {

	candidates, err := rc.Mailbox.ListCandidates(ctx, rc.MessageCap)
	if err != nil {
		return err
	}

	// Mensagens já SUCCESS nunca voltam pelo polling normal; só o replay
	// manual encosta nelas.
	pending, err := rc.Processing.FilterSucceeded(ctx, candidates)
	if err != nil {
		return err
	}

	processedThisRun := make(map[string]bool, len(pending))

	for i, messageID := range pending {
		if err := rc.pace(ctx, i); err != nil {
			return err
		}
		rc.processOne(ctx, messageID, report)
		processedThisRun[messageID] = true
	}

	// O passe principal pode ter consumido boa parte do TTL; renova antes
	// da retentativa. Perder o holder aqui significa que o lock expirou e
	// outro run pode ter começado: aborta sem processar de novo.
	if len(pending) > 0 {
		extended, err := rc.Locks.Extend(ctx, rc.LockName, holderID, rc.LockTTL)
		if err != nil {
			return err
		}
		if !extended {
			log.Printf("⚠️ Lock '%s' expirou durante o run; pulando retentativas", rc.LockName)
			return nil
		}
	}

	// Passe de retentativa: FAILED antigos primeiro, abaixo do teto de
	// tentativas, lote limitado.
	failed, err := rc.Processing.ListFailedForRetry(ctx, rc.RetryMax, rc.RetryBatch)
	if err != nil {
		return err
	}

	for _, rec := range failed {
		if processedThisRun[rec.MessageID] {
			continue
		}
		if err := rc.pace(ctx, 1); err != nil {
			return err
		}
		rc.processOne(ctx, rec.MessageID, report)
		report.Retried++
	}

	return nil
}

// processOne conta o resultado; o erro individual já ficou gravado no
// ProcessingRecord e nunca interrompe o run.
func (rc *RunCoordinator) processOne(ctx context.Context, messageID string, report *RunReport) {
	report.Processed++
	if err := rc.Processor.Execute(ctx, messageID); err != nil {
		log.Printf("❌ Mensagem %s falhou: %v", messageID, err)
		report.Failed++
		return
	}
	report.Succeeded++
}

// pace aplica o delay entre mensagens (cota da API externa). A primeira
// mensagem do passe principal não espera.
func (rc *RunCoordinator) pace(ctx context.Context, i int) error {
	if i == 0 || rc.PaceDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rc.PaceDelay):
		return nil
	}
}
