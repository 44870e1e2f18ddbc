package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByOpenID(ctx context.Context, openID string) (User, error)
}
