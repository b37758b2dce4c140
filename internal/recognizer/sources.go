package recognizer

import (
	"regexp"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// RecognizeFacebook trata as notificações de lead ads da Meta
// ("Novo lead do formulário ...", remetente @facebookmail.com).
func RecognizeFacebook(text, subject string) (*Candidate, bool) {
	if !containsAny(subject, "facebook", "lead ad") &&
		!containsAny(text, "facebook", "facebookmail.com", "lead ads") {
		return nil, false
	}

	ownDomains := []string{"facebookmail.com", "facebook.com", "meta.com"}
	email := resolveEmail(text, ownDomains)
	if email == "" {
		return nil, false
	}

	first, last := splitName(firstLabelMatch(text, namePatterns))
	extra := map[string]string{}
	if form := firstLabelMatch(text, facebookFormPatterns); form != "" {
		extra["form"] = form
	}
	if campaign := firstLabelMatch(text, facebookCampaignPatterns); campaign != "" {
		extra["campaign"] = campaign
	}

	return &Candidate{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     bestPhone(firstLabelMatch(text, phonePatterns), text),
		Source:    entity.SourceFacebook,
		Extra:     extra,
	}, true
}

var (
	facebookFormPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:formulário|form(?:\s+name)?)\s*[:\-]\s*(.+?)\s*$`),
	}
	facebookCampaignPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:campanha|campaign)\s*[:\-]\s*(.+?)\s*$`),
	}
)

// RecognizeGoogleForms trata o email "Nova resposta" que o Forms dispara
// para o dono da planilha.
func RecognizeGoogleForms(text, subject string) (*Candidate, bool) {
	if !containsAny(subject, "google forms", "nova resposta", "new response") &&
		!containsAny(text, "docs.google.com/forms", "google forms") {
		return nil, false
	}

	ownDomains := []string{"google.com", "googlemail.com"}
	email := resolveEmail(text, ownDomains)
	if email == "" {
		return nil, false
	}

	first, last := splitName(firstLabelMatch(text, namePatterns))

	return &Candidate{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     bestPhone(firstLabelMatch(text, phonePatterns), text),
		Source:    entity.SourceGoogleForms,
		Extra:     labeledExtras(text),
	}, true
}

// RecognizeSiteContact trata o formulário de contato do próprio site
// (assunto "[Site] ..." ou "Contato via site").
func RecognizeSiteContact(text, subject string) (*Candidate, bool) {
	if !containsAny(subject, "[site]", "contato via site", "contato pelo site") &&
		!containsAny(text, "contato via site", "formulário de contato") {
		return nil, false
	}

	// O formulário chega de um remetente do nosso domínio; o email do
	// visitante está sempre num campo rotulado do corpo.
	ownDomains := []string{"liguemedicina.com"}
	email := resolveEmail(text, ownDomains)
	if email == "" {
		return nil, false
	}

	first, last := splitName(firstLabelMatch(text, namePatterns))
	extra := labeledExtras(text)

	return &Candidate{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     bestPhone(firstLabelMatch(text, phonePatterns), text),
		Source:    entity.SourceSite,
		Extra:     extra,
	}, true
}
