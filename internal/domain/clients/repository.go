package clients

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	// List busca en nombre, teléfono y email.
	List(ctx context.Context, search string) ([]Client, error)
	// Delete devuelve ErrConflict si el cliente todavía tiene mascotas o agendamientos.
	Delete(ctx context.Context, id string) error
	// Inactive: last_visit < cutoff o sin visitas.
	Inactive(ctx context.Context, cutoff time.Time) ([]Client, error)
	Exists(ctx context.Context, id string) (bool, error)
}
