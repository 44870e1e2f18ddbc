package marketing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/domain/clients"
	"petshop-crm/internal/domain/pets"
	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
)

const defaultPetName = "seu pet"

type ClientFinder interface {
	Inactive(ctx context.Context, days int) ([]clients.Client, error)
}

type PetFinder interface {
	ByClient(ctx context.Context, clientID string) []pets.Pet
}

type MessageGenerator interface {
	GenerateMarketingMessage(ctx context.Context, in assistant.MessageRequest) assistant.Message
}

type Service struct {
	repo        Repository
	clients     ClientFinder
	pets        PetFinder
	gen         MessageGenerator
	countryCode string
	log         logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, cf ClientFinder, pf PetFinder, gen MessageGenerator, countryCode string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:        repo,
		clients:     cf,
		pets:        pf,
		gen:         gen,
		countryCode: strings.TrimSpace(countryCode),
		log:         log.With(map[string]any{"module": "marketing"}),
		now:         time.Now,
	}
}

type CreateInput struct {
	Name               string
	Message            string
	DiscountPercent    int
	TargetDaysInactive *int    // nil => DefaultTargetDays
	Status             *Status // nil => draft
}

// UpdateInput: nil = no tocar. SentCount no se edita.
type UpdateInput struct {
	Name               *string
	Message            *string
	DiscountPercent    *int
	TargetDaysInactive *int
	Status             *Status
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Campaign, error) {
	now := s.now()
	c := Campaign{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Message:            strings.TrimSpace(in.Message),
		DiscountPercent:    in.DiscountPercent,
		TargetDaysInactive: DefaultTargetDays,
		Status:             StatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.TargetDaysInactive != nil {
		c.TargetDaysInactive = *in.TargetDaysInactive
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if err := validate(c); err != nil {
		return Campaign{}, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Campaign, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Message != nil {
		c.Message = strings.TrimSpace(*in.Message)
	}
	if in.DiscountPercent != nil {
		c.DiscountPercent = *in.DiscountPercent
	}
	if in.TargetDaysInactive != nil {
		c.TargetDaysInactive = *in.TargetDaysInactive
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if err := validate(c); err != nil {
		return Campaign{}, err
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Campaign, error) {
	if strings.TrimSpace(id) == "" {
		return Campaign{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) []Campaign {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("list campaigns failed", map[string]any{"error": err})
		return []Campaign{}
	}
	return items
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// InactiveClients lista los clientes sin visita en days días con su link de WhatsApp.
// Con campaignID el link lleva el mensaje de la campaña ya renderizado.
func (s *Service) InactiveClients(ctx context.Context, days int, campaignID string) ([]Recipient, error) {
	var campaign *Campaign
	if id := strings.TrimSpace(campaignID); id != "" {
		c, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		campaign = &c
	}

	list, err := s.clients.Inactive(ctx, days)
	if err != nil {
		return nil, err
	}

	out := make([]Recipient, 0, len(list))
	for _, c := range list {
		text := ""
		if campaign != nil {
			text = renderMessage(campaign.Message, c.Name, s.petNameFor(ctx, campaign.Message, c.ID), campaign.DiscountPercent)
		}
		out = append(out, Recipient{
			Client:      c,
			WhatsAppURL: whatsAppURL(c.Phone, s.countryCode, text),
		})
	}
	return out, nil
}

// petNameFor solo consulta mascotas si la plantilla las usa.
func (s *Service) petNameFor(ctx context.Context, tpl, clientID string) string {
	if s.pets == nil || !strings.Contains(tpl, "{nome_pet}") {
		return defaultPetName
	}
	for _, p := range s.pets.ByClient(ctx, clientID) {
		if p.Active {
			return p.Name
		}
	}
	return defaultPetName
}

type GenerateMessageInput struct {
	PetName         string
	DiscountPercent int
	DaysInactive    int // 0 => DefaultTargetDays
}

// GenerateMessage delega en el asistente; nunca falla por la IA.
func (s *Service) GenerateMessage(ctx context.Context, in GenerateMessageInput) (assistant.Message, error) {
	name := strings.TrimSpace(in.PetName)
	days := in.DaysInactive
	if days == 0 {
		days = DefaultTargetDays
	}
	switch {
	case name == "":
		return assistant.Message{}, apperr.Invalid("pet_name is required")
	case in.DiscountPercent < 0 || in.DiscountPercent > 100:
		return assistant.Message{}, apperr.Invalid("discount_percent must be between 0 and 100")
	case days < 1:
		return assistant.Message{}, apperr.Invalid("days_inactive must be >= 1")
	}

	return s.gen.GenerateMarketingMessage(ctx, assistant.MessageRequest{
		PetName:         name,
		DiscountPercent: in.DiscountPercent,
		DaysInactive:    days,
	}), nil
}

func validate(c Campaign) error {
	switch {
	case c.Name == "":
		return apperr.Invalid("name is required")
	case c.Message == "":
		return apperr.Invalid("message is required")
	case c.DiscountPercent < 0 || c.DiscountPercent > 100:
		return apperr.Invalid("discount_percent must be between 0 and 100")
	case c.TargetDaysInactive < 1:
		return apperr.Invalid("target_days_inactive must be >= 1")
	case !c.Status.Valid():
		return apperr.Invalid("status must be one of draft, active, paused, completed")
	}
	return nil
}
