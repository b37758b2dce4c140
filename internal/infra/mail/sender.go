package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendAssignmentReply envia a resposta de boas-vindas apresentando o
// atendente. Devolve o Message-ID gerado para a mensagem de saída.
func (s *EmailSender) SendAssignmentReply(input ReplyInput) (string, error) {
	data := ReplyEmailData{
		LeadName:       input.ToName,
		RecipientName:  input.RecipientName,
		RecipientEmail: input.RecipientEmail,
		BookingURL:     input.BookingURL,
	}
	if data.LeadName == "" {
		data.LeadName = "tudo bem"
	}

	tmplPath := filepath.Join("templates", "reply.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("erro ao ler template de resposta: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}

	domain := "liguemedicina.com"
	if at := strings.LastIndex(s.From, "@"); at >= 0 {
		domain = s.From[at+1:]
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", replySubject(input.Subject))
	m.SetHeader("Message-ID", messageID)
	if input.InReplyTo != "" {
		// Threading RFC 822: a resposta entra na mesma conversa.
		m.SetHeader("In-Reply-To", input.InReplyTo)
		m.SetHeader("References", input.InReplyTo)
	}
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return messageID, nil
}

func replySubject(original string) string {
	original = strings.TrimSpace(original)
	if original == "" {
		return "Recebemos seu contato! 🚀"
	}
	if strings.HasPrefix(strings.ToLower(original), "re:") {
		return original
	}
	return "Re: " + original
}
