package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/alert"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/mailbox"
	"github.com/xavierca1/ligue-leads/internal/recognizer"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// Entry point de agenda (cron): roda o pipeline uma vez e sai. Exit 0 em
// qualquer run concluído — falha de mensagem individual fica no
// ProcessingRecord, não no exit code. Exit != 0 só para erro fatal fora do
// processamento por mensagem.
func main() {
	messageID := flag.String("message", "", "processa só essa mensagem (replay manual) e sai")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	leadRepo := database.NewLeadRepository(db)
	processingRepo := database.NewProcessingRepository(db)
	recipientRepo := database.NewRecipientRepository(db)
	lockRepo := database.NewLockRepository(db)

	mailboxClient := mailbox.NewClient(cfg.IMAPAddr, cfg.IMAPUser, cfg.IMAPPass, cfg.IMAPMailbox)
	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	webhookClient := alert.NewClient(cfg.AlertWebhookURL)

	processor := usecase.NewProcessMessageUseCase(
		processingRepo, leadRepo, recipientRepo,
		mailboxClient, mailSender, webhookClient,
		recognizer.NewChain(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LockTTL)
	defer cancel()

	// Replay manual de uma mensagem específica, sem lock e sem polling.
	if *messageID != "" {
		if err := processor.Execute(ctx, *messageID); err != nil {
			log.Fatalf("❌ Replay da mensagem %s falhou: %v", *messageID, err)
		}
		log.Printf("✅ Mensagem %s reprocessada", *messageID)
		return
	}

	coordinator := usecase.NewRunCoordinator(
		lockRepo, processingRepo, mailboxClient, processor,
		cfg.LockTTL, cfg.PaceDelay, cfg.MessageCap, cfg.RetryMax, cfg.RetryBatch,
	)

	report, err := coordinator.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Run falhou: %v", err)
	}
	if report.Skipped {
		log.Println("🔒 Outro run em andamento, saindo sem processar")
		return
	}
	log.Printf("🏁 %d processadas (%d ok, %d falhas, %d retentativas) em %s",
		report.Processed, report.Succeeded, report.Failed, report.Retried,
		report.Duration.Round(time.Millisecond))
}
