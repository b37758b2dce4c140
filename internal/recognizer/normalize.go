package recognizer

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	emailExactPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)+$`)

	// Padrão agrupado estilo US: (11) 99999-9999, 555-123-4567, +1 555.123.4567
	phoneGroupedPattern = regexp.MustCompile(`\+?\d{0,3}[\s.\-]?\(?\d{2,3}\)?[\s.\-]\d{3,5}[\s.\-]?\d{4}`)
	// Sequência crua de 10 a 11 dígitos
	phoneBarePattern = regexp.MustCompile(`\b\d{10,11}\b`)

	nonDigitPattern    = regexp.MustCompile(`\D`)
	spaceRunPattern    = regexp.MustCompile(`[ \t]+`)
	// 3+ linhas em branco consecutivas = 4+ \n seguidos.
	blankRunPattern    = regexp.MustCompile(`\n{4,}`)
	trailingSpacesLine = regexp.MustCompile(`[ \t]+\n`)
)

// NormalizeEmail deixa o email pronto para ser chave natural: sem espaços
// nas pontas e sempre minúsculo.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail aceita o formato "local@dominio.tld": um @, pelo menos um
// ponto no domínio, sem espaços. Não tentamos RFC 5322 completo — aqui o
// objetivo é evitar falso positivo, não cobrir todo edge case.
func IsValidEmail(email string) bool {
	return emailExactPattern.MatchString(NormalizeEmail(email))
}

// ExtractEmails devolve todos os emails encontrados no texto, minúsculos,
// sem duplicados e na ordem em que aparecem.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		e := NormalizeEmail(m)
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// NormalizePhone remove tudo que não for dígito, preservando um único "+"
// inicial quando o original começava com ele.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	digits := nonDigitPattern.ReplaceAllString(trimmed, "")
	if strings.HasPrefix(trimmed, "+") && digits != "" {
		return "+" + digits
	}
	return digits
}

// IsValidPhone: de 7 a 15 dígitos, desconsiderando o "+" inicial.
func IsValidPhone(phone string) bool {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	return len(digits) >= 7 && len(digits) <= 15
}

// FormatPhone devolve a forma de exibição "(AAA) BBB-CCCC" para números de
// 10 dígitos (ou 11 começando com 1). Qualquer outro formato volta como a
// forma normalizada.
func FormatPhone(phone string) string {
	normalized := NormalizePhone(phone)
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return normalized
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}

// ExtractPhones varre o texto com os dois padrões, normaliza e valida cada
// match e remove duplicados preservando a ordem.
func ExtractPhones(text string) []string {
	var matches []string
	matches = append(matches, phoneGroupedPattern.FindAllString(text, -1)...)
	matches = append(matches, phoneBarePattern.FindAllString(text, -1)...)

	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		p := NormalizePhone(m)
		if !IsValidPhone(p) || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// NormalizeName: "  jOÃO da silva " -> "João Da Silva".
func NormalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for i, f := range fields {
		runes := []rune(f)
		fields[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(fields, " ")
}

// NormalizeWhitespace unifica quebras de linha, colapsa sequências de
// espaços/tabs e reduz 3+ linhas em branco consecutivas a uma só. Até duas
// linhas em branco seguidas sobrevivem intactas.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = trailingSpacesLine.ReplaceAllString(text, "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
