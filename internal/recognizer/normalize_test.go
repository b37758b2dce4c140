package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "joao@example.com", NormalizeEmail("  JOAO@Example.COM  "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"joao@example.com",
		"JOAO.SILVA+leads@sub.example.com.br",
		"a@b.co",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}

	invalid := []string{
		"",
		"sem-arroba.com",
		"duas@arrobas@example.com",
		"sem@ponto",
		"com espaco@example.com",
		"@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestExtractEmailsDedupePreservesOrder(t *testing.T) {
	text := "Fale com Maria@example.com ou joao@other.org. De novo: MARIA@example.com"
	assert.Equal(t, []string{"maria@example.com", "joao@other.org"}, ExtractEmails(text))
}

func TestExtractEmailsEmpty(t *testing.T) {
	assert.Empty(t, ExtractEmails("nenhum endereço por aqui"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5551234567", NormalizePhone("(555) 123-4567"))
	assert.Equal(t, "5551234567", NormalizePhone("555-123-4567"))
	assert.Equal(t, "+5511999998888", NormalizePhone("+55 (11) 99999-8888"))
	assert.Equal(t, "", NormalizePhone("sem números"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("5551234567"))
	assert.True(t, IsValidPhone("+5511999998888"))
	assert.True(t, IsValidPhone("1234567")) // mínimo de 7 dígitos
	assert.False(t, IsValidPhone("123456"))
	assert.False(t, IsValidPhone("+1234567890123456")) // 16 dígitos
}

// Round-trip do exemplo canônico: "(555) 123-4567" normaliza, valida e
// volta formatado igual.
func TestPhoneRoundTrip(t *testing.T) {
	normalized := NormalizePhone("(555) 123-4567")
	assert.Equal(t, "5551234567", normalized)
	assert.True(t, IsValidPhone(normalized))
	assert.Equal(t, "(555) 123-4567", FormatPhone(normalized))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", FormatPhone("15551234567"))  // país 1 cai fora
	assert.Equal(t, "+5511999998888", FormatPhone("+5511999998888")) // não-US fica normalizado
}

func TestExtractPhones(t *testing.T) {
	text := "Ligue (555) 123-4567 ou 555.123.4567, fixo 1133334444."
	phones := ExtractPhones(text)
	assert.Contains(t, phones, "5551234567")
	assert.Contains(t, phones, "1133334444")
	// os dois primeiros normalizam igual — dedupe
	count := 0
	for _, p := range phones {
		if p == "5551234567" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "João Da Silva", NormalizeName("  jOÃO da SILVA "))
	assert.Equal(t, "Ana", NormalizeName("ANA"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "linha um\r\n\r\n\r\n\r\nlinha  \t dois\r\n"
	out := NormalizeWhitespace(in)
	assert.Equal(t, "linha um\n\nlinha dois", out)
}

// Só sequências de 3+ linhas em branco colapsam; duas seguidas sobrevivem.
func TestNormalizeWhitespaceKeepsTwoBlankLines(t *testing.T) {
	in := "linha um\n\n\nlinha dois"
	assert.Equal(t, "linha um\n\n\nlinha dois", NormalizeWhitespace(in))
}
