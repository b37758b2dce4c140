package mailbox

import (
	"bytes"
	"io"
	"log"
	"strings"

	"github.com/emersion/go-message/mail"
)

// splitParts separa o corpo MIME bruto em texto e HTML. Anexos são
// ignorados — o recognizer só trabalha com o texto da mensagem.
func splitParts(raw []byte) (text, html string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		// Sem estrutura MIME legível: tratamos o corpo cru como texto.
		log.Printf("⚠️ IMAP: corpo sem MIME parseável, usando conteúdo cru: %v", err)
		return string(raw), ""
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("⚠️ IMAP: parte MIME ilegível, pulando: %v", err)
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && text == "":
			text = string(body)
		case strings.HasPrefix(contentType, "text/html") && html == "":
			html = string(body)
		}
	}

	return text, html
}
