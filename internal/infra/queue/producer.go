package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FailureAlert é o evento publicado quando o processamento de uma mensagem
// falha. O consumer entrega ao webhook de plantão.
type FailureAlert struct {
	MessageID  string    `json:"message_id"`
	Error      string    `json:"error"`
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

// NotifyFailure publica o alerta na exchange durável. O chamador trata
// isso como best-effort — erro aqui é logado, nunca propaga pro pipeline.
func (p *RabbitMQProducer) NotifyFailure(ctx context.Context, alert FailureAlert) error {

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("erro ao converter alerta: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar alerta no RabbitMQ: %v", err)
	}

	return nil
}
