package entity

import (
	"context"
	"time"
)

// Fontes conhecidas de leads. UNKNOWN só aparece quando nem o recognizer
// genérico consegue classificar a origem.
const (
	SourceFacebook    = "FACEBOOK"
	SourceGoogleForms = "GOOGLE_FORMS"
	SourceSite        = "SITE"
	SourceGeneric     = "GENERIC"
	SourceUnknown     = "UNKNOWN"
)

type Lead struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"` // chave natural, sempre lowercase
	FirstName       string            `json:"first_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Source          string            `json:"source"`
	Extra           map[string]string `json:"extra,omitempty"`
	AssignedTo      string            `json:"assigned_to,omitempty"`
	AssignedAt      *time.Time        `json:"assigned_at,omitempty"`
	ReplySentAt     *time.Time        `json:"reply_sent_at,omitempty"`
	SourceMessageID string            `json:"source_message_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type LeadRepositoryInterface interface {

	// Upsert grava o lead pela chave natural (email). Campos preenchidos
	// sobrescrevem os existentes; campos vazios preservam o que já estava
	// no banco. Source, AssignedTo e AssignedAt sempre sobrescrevem.
	// Após o retorno, ID, ReplySentAt, CreatedAt e UpdatedAt refletem o
	// registro persistido.
	Upsert(ctx context.Context, lead *Lead) error

	// MarkReplySent só tem efeito se reply_sent_at ainda estiver nulo.
	MarkReplySent(ctx context.Context, email string, at time.Time) error

	List(ctx context.Context, limit int) ([]*Lead, error)
}
