package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, search string) ([]Pet, error)
	ListByClient(ctx context.Context, clientID string) ([]Pet, error)
	// Delete devuelve ErrConflict si la mascota tiene agendamientos.
	Delete(ctx context.Context, id string) error
}
