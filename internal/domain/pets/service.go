package pets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrConflict     = apperr.ErrConflict
)

// ClientDirectory valida que el cliente exista sin importar el paquete clients.
type ClientDirectory interface {
	Exists(ctx context.Context, clientID string) (bool, error)
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, clients ClientDirectory, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		clients: clients,
		log:     log.With(map[string]any{"module": "pets"}),
		now:     time.Now,
	}
}

type CreateInput struct {
	ClientID     string
	Name         string
	Species      string // vacío => dog
	Breed        string
	Size         string // vacío => medium
	Weight       *decimal.Decimal
	BirthDate    *time.Time
	Color        string
	Observations string
	Vaccinations string
	ImageURL     string
}

// PatchBirthDate distingue "no enviado" de "enviado en null" (limpiar).
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

type UpdateInput struct {
	Name         *string
	Species      *string
	Breed        *string
	Size         *string
	Weight       *decimal.Decimal
	BirthDate    PatchBirthDate
	Color        *string
	Observations *string
	Vaccinations *string
	ImageURL     *string
	Active       *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return Pet{}, apperr.Invalid("client_id is required")
	}
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return Pet{}, err
	}
	if !ok {
		return Pet{}, apperr.Invalid("client %s does not exist", clientID)
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Name:         strings.TrimSpace(in.Name),
		Species:      Species(strings.TrimSpace(in.Species)),
		Breed:        strings.TrimSpace(in.Breed),
		Size:         Size(strings.TrimSpace(in.Size)),
		Weight:       in.Weight,
		BirthDate:    in.BirthDate,
		Color:        strings.TrimSpace(in.Color),
		Observations: strings.TrimSpace(in.Observations),
		Vaccinations: strings.TrimSpace(in.Vaccinations),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Species == "" {
		p.Species = SpeciesDog
	}
	if p.Size == "" {
		p.Size = SizeMedium
	}
	if err := validate(p); err != nil {
		return Pet{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Update aplica un PATCH; el dueño (client_id) no se cambia por acá.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		p.Species = Species(strings.TrimSpace(*in.Species))
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Size != nil {
		p.Size = Size(strings.TrimSpace(*in.Size))
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if in.BirthDate.Present {
		p.BirthDate = in.BirthDate.Value
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Observations != nil {
		p.Observations = strings.TrimSpace(*in.Observations)
	}
	if in.Vaccinations != nil {
		p.Vaccinations = strings.TrimSpace(*in.Vaccinations)
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := validate(p); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	if strings.TrimSpace(id) == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) []Pet {
	items, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		s.log.Warn("list pets failed", map[string]any{"error": err})
		return []Pet{}
	}
	return items
}

func (s *Service) ByClient(ctx context.Context, clientID string) []Pet {
	items, err := s.repo.ListByClient(ctx, strings.TrimSpace(clientID))
	if err != nil {
		s.log.Warn("list pets by client failed", map[string]any{"error": err, "client_id": clientID})
		return []Pet{}
	}
	return items
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validate(p Pet) error {
	switch {
	case p.Name == "":
		return apperr.Invalid("name is required")
	case !p.Species.Valid():
		return apperr.Invalid("species must be one of dog, cat, bird, other")
	case !p.Size.Valid():
		return apperr.Invalid("size must be one of small, medium, large, giant")
	case p.Weight != nil && !p.Weight.IsPositive():
		return apperr.Invalid("weight must be > 0")
	}
	return nil
}
