package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
)

type Service struct {
	repo        Repository
	ownerOpenID string
	loginMethod string
	log         logger.Logger
	now         func() time.Time
}

// NewService: ownerOpenID se promueve a admin la primera vez que aparece.
func NewService(repo Repository, ownerOpenID, loginMethod string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:        repo,
		ownerOpenID: strings.TrimSpace(ownerOpenID),
		loginMethod: loginMethod,
		log:         log.With(map[string]any{"module": "users"}),
		now:         time.Now,
	}
}

// Touch crea o actualiza el usuario de las claims y marca last_signed_in.
func (s *Service) Touch(ctx context.Context, c auth.Claims) (User, error) {
	openID := strings.TrimSpace(c.UserID)
	if openID == "" {
		return User{}, apperr.Invalid("open id is required")
	}
	now := s.now()

	u, err := s.repo.GetByOpenID(ctx, openID)
	if errors.Is(err, apperr.ErrNotFound) {
		u = User{
			ID:          uuid.NewString(),
			OpenID:      openID,
			Name:        strings.TrimSpace(c.Name),
			Email:       strings.TrimSpace(c.Email),
			LoginMethod: s.loginMethod,
			Role:        auth.RoleUser,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if c.IsAdmin() || s.isOwner(openID) {
			u.Role = auth.RoleAdmin
		}
		u.LastSignedIn = now

		err = s.repo.Create(ctx, u)
		if err == nil {
			s.log.Info("user created", map[string]any{"open_id": openID, "role": string(u.Role)})
			return u, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return User{}, err
		}
		// Otro request lo creó primero.
		u, err = s.repo.GetByOpenID(ctx, openID)
	}
	if err != nil {
		return User{}, err
	}

	if name := strings.TrimSpace(c.Name); name != "" {
		u.Name = name
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		u.Email = email
	}
	if s.isOwner(openID) {
		u.Role = auth.RoleAdmin
	}
	u.LoginMethod = s.loginMethod
	u.LastSignedIn = now
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) isOwner(openID string) bool {
	return s.ownerOpenID != "" && openID == s.ownerOpenID
}
