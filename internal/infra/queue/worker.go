package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
)

// AlertSink é o destino final de um alerta de falha (webhook de plantão).
type AlertSink interface {
	Deliver(ctx context.Context, alert FailureAlert) error
}

type Worker struct {
	Channel *amqp.Channel
	Sink    AlertSink
}

func NewWorker(ch *amqp.Channel, sink AlertSink) *Worker {
	return &Worker{
		Channel: ch,
		Sink:    sink,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var alert FailureAlert
			if err := json.Unmarshal(d.Body, &alert); err != nil {
				log.Printf("❌ [ALERTS] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [ALERTS] Falha na mensagem %s (tentativa %d): %s",
				alert.MessageID, alert.Attempts, alert.Error)

			if err := w.Sink.Deliver(context.Background(), alert); err != nil {
				log.Printf("⚠️ [ALERTS] Webhook indisponível: %s", err)
				middleware.RecordIntegrationError("alert_webhook")
				// Sem requeue: a mensagem cai na DLQ para inspeção.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Consumer de alertas aguardando na fila '%s'", queueName)
	<-forever
}
