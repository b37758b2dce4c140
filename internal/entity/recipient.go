package entity

import (
	"context"
	"errors"
	"time"
)

var ErrNoActiveRecipient = errors.New("nenhum atendente ativo disponível para receber leads")

// Recipient é um membro do time comercial elegível para receber leads.
type Recipient struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Active          bool       `json:"active"`
	BookingURL      string     `json:"booking_url,omitempty"`
	AssignmentCount int        `json:"assignment_count"`
	LastAssignedAt  *time.Time `json:"last_assigned_at,omitempty"`
}

type RecipientRepositoryInterface interface {

	// SelectNext escolhe o atendente ativo há mais tempo sem receber lead
	// (nunca atribuído vem primeiro) e, no MESMO passo atômico, incrementa
	// o contador e atualiza last_assigned_at. Retorna ErrNoActiveRecipient
	// se o roster ativo estiver vazio.
	SelectNext(ctx context.Context) (*Recipient, error)

	ListActive(ctx context.Context) ([]*Recipient, error)
}
