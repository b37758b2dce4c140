package recognizer

import (
	"regexp"
	"strings"
)

// Endereços de remetente automático que nunca são o lead.
var excludedLocalParts = []string{
	"noreply", "no-reply", "donotreply", "mailer-daemon", "postmaster",
}

var labeledLinePattern = regexp.MustCompile(`(?m)^\s*([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ0-9 ._\-]{0,40})\s*:\s*(.+?)\s*$`)

// firstLabelMatch testa os padrões na ordem de especificidade e devolve o
// primeiro grupo capturado do primeiro que casar.
func firstLabelMatch(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// firstUsableEmail extrai os emails do texto e descarta os que pertencem
// aos domínios do próprio remetente e os endereços de mailer automático.
// Sobra o primeiro que aparece no texto, ou "".
func firstUsableEmail(text string, ownDomains []string) string {
	for _, email := range ExtractEmails(text) {
		if isExcludedEmail(email, ownDomains) {
			continue
		}
		return email
	}
	return ""
}

func isExcludedEmail(email string, ownDomains []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return true
	}
	local, domain := email[:at], email[at+1:]
	for _, ex := range excludedLocalParts {
		if local == ex || strings.HasPrefix(local, ex+"+") {
			return true
		}
	}
	for _, d := range ownDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// splitName separa "João da Silva" em primeiro nome e resto.
func splitName(full string) (first, last string) {
	fields := strings.Fields(NormalizeName(full))
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// bestPhone tenta o campo rotulado primeiro; se não validar, cai para a
// varredura do texto inteiro.
func bestPhone(labeled, text string) string {
	if labeled != "" {
		if p := NormalizePhone(labeled); IsValidPhone(p) {
			return p
		}
	}
	if phones := ExtractPhones(text); len(phones) > 0 {
		return phones[0]
	}
	return ""
}

// labeledExtras coleta oportunisticamente toda linha "rótulo: valor" do
// texto, pulando os campos que já viram atributos estruturados.
func labeledExtras(text string) map[string]string {
	structured := map[string]bool{
		"name": true, "nome": true, "nome completo": true, "full name": true,
		"email": true, "e-mail": true, "phone": true, "telefone": true,
		"celular": true, "tel": true, "phone number": true,
	}
	extras := make(map[string]string)
	for _, m := range labeledLinePattern.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		if structured[key] || m[2] == "" {
			continue
		}
		if _, ok := extras[key]; !ok {
			extras[key] = m[2]
		}
	}
	return extras
}

func containsAny(haystack string, needles ...string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
