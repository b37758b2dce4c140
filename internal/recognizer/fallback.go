package recognizer

import (
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

var (
	greetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:hi|hello|olá|oi)[,!]?\s+(?:i'?m|i am|sou o|sou a|sou)\s+([A-Za-zÀ-ÿ]+(?:\s+[A-Za-zÀ-ÿ]+)?)`),
		regexp.MustCompile(`(?i)(?:my name is|meu nome é|me chamo)\s+([A-Za-zÀ-ÿ]+(?:\s+[A-Za-zÀ-ÿ]+)?)`),
	}

	localPartSeparators = regexp.MustCompile(`[._\-]+`)
	digitsOnly          = regexp.MustCompile(`^\d+$`)
)

// RecognizeGeneric é o fallback da cadeia: não tem teste de assinatura,
// mas continua devolvendo no-match se não sobrar nenhum email
// aproveitável depois dos filtros.
func RecognizeGeneric(text, subject string) (*Candidate, bool) {
	email := resolveEmail(text, nil)
	if email == "" {
		return nil, false
	}

	// Ordem de tentativa do nome: campo rotulado, decomposição do local
	// part do email, saudação em texto livre.
	first, last := splitName(firstLabelMatch(text, namePatterns))
	if first == "" {
		first, last = nameFromLocalPart(email)
	}
	if first == "" {
		first, last = splitName(firstLabelMatch(text, greetingPatterns))
	}

	extra := labeledExtras(text)
	if subject != "" {
		extra["subject"] = subject
	}

	return &Candidate{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     bestPhone(firstLabelMatch(text, phonePatterns), text),
		Source:    entity.SourceGeneric,
		Extra:     extra,
	}, true
}

// nameFromLocalPart quebra "joao.silva@..." em tokens de nome. Tokens só
// numéricos (joao.silva99) são descartados.
func nameFromLocalPart(email string) (first, last string) {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "", ""
	}
	var tokens []string
	for _, tok := range localPartSeparators.Split(email[:at], -1) {
		tok = strings.TrimFunc(tok, func(r rune) bool { return r >= '0' && r <= '9' })
		// Token de uma letra só não é nome (iniciais, contas tipo x@).
		if len(tok) < 2 || digitsOnly.MatchString(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return "", ""
	}
	return splitName(strings.Join(tokens, " "))
}
