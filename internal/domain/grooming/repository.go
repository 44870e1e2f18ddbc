package grooming

import (
	"context"
	"time"
)

type Repository interface {
	// CreateWithVisit inserta el agendamiento y actualiza last_visit del cliente
	// en una sola transacción.
	CreateWithVisit(ctx context.Context, a Appointment, visitAt time.Time) error
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	// GetByToken devuelve ErrNotFound si el token no existe.
	GetByToken(ctx context.Context, token string) (Tracking, error)
	// ListInRange: rango inclusivo sobre scheduled_at, ascendente. nil = sin límite.
	ListInRange(ctx context.Context, from, to *time.Time) ([]Appointment, error)
	// ListByClient: scheduled_at descendente.
	ListByClient(ctx context.Context, clientID string) ([]Appointment, error)
	Delete(ctx context.Context, id string) error
}
