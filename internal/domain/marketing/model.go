package marketing

import (
	"time"

	"petshop-crm/internal/domain/clients"
)

const DefaultTargetDays = 30

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Campaign es una plantilla de mensaje de recuperación.
// Message admite {nome}, {nome_cliente}, {nome_pet} y {desconto}.
type Campaign struct {
	ID                 string
	Name               string
	Message            string
	DiscountPercent    int
	TargetDaysInactive int
	Status             Status
	SentCount          int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recipient es un cliente inactivo con su link de WhatsApp (vacío si no tiene teléfono).
type Recipient struct {
	Client      clients.Client
	WhatsAppURL string
}
