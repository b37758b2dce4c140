package entity

import "time"

// InboundMessage é o conteúdo completo de uma mensagem buscada na caixa
// de entrada, já separado em texto e HTML.
type InboundMessage struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Date            time.Time `json:"date"`
	Text            string    `json:"text"`
	HTML            string    `json:"html"`
	MessageIDHeader string    `json:"message_id_header,omitempty"` // RFC 822 Message-ID, para threading da resposta
}
