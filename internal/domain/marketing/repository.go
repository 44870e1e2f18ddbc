package marketing

import "context"

type Repository interface {
	Create(ctx context.Context, c Campaign) error
	Update(ctx context.Context, c Campaign) error
	GetByID(ctx context.Context, id string) (Campaign, error)
	// List ordena por fecha de creación desc.
	List(ctx context.Context) ([]Campaign, error)
	Delete(ctx context.Context, id string) error
}
