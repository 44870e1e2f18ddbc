package grooming

import (
	"time"

	"petshop-crm/internal/platform/money"
)

// Appointment es un agendamiento de banho/tosa.
// CheckInToken se genera una sola vez al crear y da acceso público de lectura.
type Appointment struct {
	ID       string
	PetID    string
	ClientID string

	Service ServiceType
	Status  Status

	ScheduledAt time.Time
	CompletedAt *time.Time

	Price   money.Cents
	Notes   string
	Groomer string

	CheckInToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tracking es la vista pública del token: agendamiento + datos de mascota y tutor.
type Tracking struct {
	Appointment Appointment

	PetName    string
	PetSpecies string
	PetBreed   string
	ClientName string
}
