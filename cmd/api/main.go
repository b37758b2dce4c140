package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/alert"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/mailbox"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/infra/worker"
	"github.com/xavierca1/ligue-leads/internal/recognizer"
	"github.com/xavierca1/ligue-leads/internal/usecase"

	"github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	processingRepo := database.NewProcessingRepository(db)
	recipientRepo := database.NewRecipientRepository(db)
	lockRepo := database.NewLockRepository(db)

	// 2. Gateways e Adapters
	mailboxClient := mailbox.NewClient(cfg.IMAPAddr, cfg.IMAPUser, cfg.IMAPPass, cfg.IMAPMailbox)
	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	webhookClient := alert.NewClient(cfg.AlertWebhookURL)

	// 3. Bus de alertas: com RabbitMQ os alertas passam pela fila durável
	// e um consumer entrega no webhook; sem ele, webhook direto.
	var notifier usecase.AlertNotifier = webhookClient
	var rabbitConn *amqp091.Connection
	if cfg.RabbitConfigured() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		rabbitConn = rabbitMQ.Conn

		notifier = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
		alertWorker := queue.NewWorker(rabbitMQ.Ch, webhookClient)
		go alertWorker.Start(queue.QueueName)
	}

	// 4. UseCases
	processor := usecase.NewProcessMessageUseCase(
		processingRepo, leadRepo, recipientRepo,
		mailboxClient, mailSender, notifier,
		recognizer.NewChain(),
	)
	coordinator := usecase.NewRunCoordinator(
		lockRepo, processingRepo, mailboxClient, processor,
		cfg.LockTTL, cfg.PaceDelay, cfg.MessageCap, cfg.RetryMax, cfg.RetryBatch,
	)

	// 5. Poll worker (dispara o coordenador a cada intervalo)
	pollWorker := worker.NewPollWorker(coordinator, cfg.PollInterval)
	go pollWorker.Start(ctx)

	// 6. Handlers
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, cfg.IMAPAddr)
	statusHandler := handlers.NewStatusHandler(processingRepo, recipientRepo, pollWorker)
	replayHandler := handlers.NewReplayHandler(processor)
	leadHandler := handlers.NewLeadHandler(leadRepo)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Get("/status", statusHandler.Handle)
	r.Get("/leads", leadHandler.ListLeads)
	r.Post("/replay/{messageId}", replayHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.HTTPPort
	log.Printf("🔥 Lead pipeline rodando na porta %s (poll a cada %s)", addr, cfg.PollInterval)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
