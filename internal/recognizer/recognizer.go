package recognizer

import (
	"errors"
	"regexp"
)

// ErrNoLead indica que nenhum recognizer conseguiu extrair um email
// aproveitável do conteúdo. Reprocessar o mesmo texto nunca resolve.
var ErrNoLead = errors.New("nenhum lead extraível do conteúdo da mensagem")

// Candidate é o registro bruto que um recognizer acredita ter extraído.
// Email é o único campo obrigatório.
type Candidate struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Source    string
	Extra     map[string]string
}

// RecognizeFunc é um recognizer puro: recebe o texto e o assunto da
// mensagem e devolve um candidato ou (nil, false) quando não reconhece a
// origem. Recognizers específicos testam primeiro uma assinatura barata e
// só tentam extração quando ela casa.
type RecognizeFunc func(text, subject string) (*Candidate, bool)

// Chain tenta os recognizers do mais específico para o mais genérico e
// para no primeiro candidato cujo email passa na validação.
type Chain struct {
	recognizers []RecognizeFunc
}

// NewChain monta a cadeia padrão: fontes conhecidas primeiro, fallback
// genérico sempre por último.
func NewChain() *Chain {
	return &Chain{
		recognizers: []RecognizeFunc{
			RecognizeFacebook,
			RecognizeGoogleForms,
			RecognizeSiteContact,
			RecognizeGeneric,
		},
	}
}

// Extract devolve o primeiro candidato válido ou ErrNoLead.
func (c *Chain) Extract(text, subject string) (*Candidate, error) {
	for _, recognize := range c.recognizers {
		cand, ok := recognize(text, subject)
		if !ok || cand == nil {
			continue
		}
		cand.Email = NormalizeEmail(cand.Email)
		if !IsValidEmail(cand.Email) {
			continue
		}
		return cand, nil
	}
	return nil, ErrNoLead
}

// Padrões de campos rotulados compartilhados pelos recognizers, do mais
// específico para o mais genérico. Sinônimos em PT e EN porque as
// notificações chegam nos dois idiomas.
var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:nome completo|full name)\s*[:\-]\s*(.+?)\s*$`),
		regexp.MustCompile(`(?im)^\s*(?:nome|name)\s*[:\-]\s*(.+?)\s*$`),
	}
	emailFieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:e-?mail(?:\s+address)?|endereço de e-?mail)\s*[:\-]\s*(\S+@\S+)\s*$`),
		regexp.MustCompile(`(?im)^\s*(?:contato|contact)\s*[:\-]\s*(\S+@\S+)\s*$`),
	}
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:telefone|celular|whatsapp|phone(?:\s+number)?|tel)\s*[:\-]\s*(.+?)\s*$`),
	}
)

// resolveEmail prioriza o campo rotulado; se ele não existir, for inválido
// ou for um endereço excluído, cai para o primeiro email aproveitável do
// texto. O capturado pode vir com pontuação grudada ("maria@gmail.com."
// fechando frase), daí a validação antes de aceitar.
func resolveEmail(text string, ownDomains []string) string {
	if labeled := firstLabelMatch(text, emailFieldPatterns); labeled != "" {
		email := NormalizeEmail(labeled)
		if IsValidEmail(email) && !isExcludedEmail(email, ownDomains) {
			return email
		}
	}
	return firstUsableEmail(text, ownDomains)
}
