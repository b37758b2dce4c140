package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// Client entrega alertas de falha num webhook (Slack, Discord, n8n...).
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver faz o POST do alerta. Sem URL configurada vira no-op com aviso —
// alerta é best-effort, não pode derrubar quem chamou.
func (c *Client) Deliver(ctx context.Context, alert queue.FailureAlert) error {
	if c.webhookURL == "" {
		log.Println("⚠️ Alert Webhook: ALERT_WEBHOOK_URL não configurada, alerta descartado")
		return nil
	}

	payload := map[string]interface{}{
		"text": fmt.Sprintf("❌ Lead pipeline: falha na mensagem %s (tentativa %d)",
			alert.MessageID, alert.Attempts),
		"message_id":  alert.MessageID,
		"error":       alert.Error,
		"attempts":    alert.Attempts,
		"occurred_at": alert.OccurredAt.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar alerta: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao chamar webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook respondeu %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// NotifyFailure permite usar o webhook direto como notificador quando o
// RabbitMQ não está configurado.
func (c *Client) NotifyFailure(ctx context.Context, alert queue.FailureAlert) error {
	return c.Deliver(ctx, alert)
}
