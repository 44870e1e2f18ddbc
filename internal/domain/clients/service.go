package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrConflict     = apperr.ErrConflict
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "clients"}),
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	TaxID   string
	Notes   string
}

type UpdateInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	TaxID   *string
	Notes   *string
	Active  *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Client{}, apperr.Invalid("name is required")
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		TaxID:     strings.TrimSpace(in.TaxID),
		Notes:     strings.TrimSpace(in.Notes),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Update no toca LastVisit.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Client{}, apperr.Invalid("name is required")
		}
		c.Name = name
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	if strings.TrimSpace(id) == "" {
		return Client{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) []Client {
	items, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		s.log.Warn("list clients failed", map[string]any{"error": err})
		return []Client{}
	}
	return items
}

// Delete: con historial (mascotas o agendamientos) devuelve ErrConflict;
// en ese caso hay que desactivar el cliente con Update(active=false).
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Inactive devuelve los clientes sin visita en los últimos days días (o sin visitas).
func (s *Service) Inactive(ctx context.Context, days int) ([]Client, error) {
	if days < 1 {
		return nil, apperr.Invalid("days must be >= 1")
	}
	cutoff := s.now().AddDate(0, 0, -days)

	items, err := s.repo.Inactive(ctx, cutoff)
	if err != nil {
		s.log.Warn("list inactive clients failed", map[string]any{"error": err, "days": days})
		return []Client{}, nil
	}
	return items, nil
}

// Exists lo usan pets y grooming para validar referencias.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}
