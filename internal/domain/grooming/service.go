package grooming

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrInvalidState = apperr.ErrInvalidState
)

// tokenBytes: 24 bytes => 32 caracteres base64url.
const tokenBytes = 24

// PetDirectory resuelve el dueño de una mascota (pets.Service.OwnerOf).
type PetDirectory interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// ClientDirectory (clients.Service.Exists).
type ClientDirectory interface {
	Exists(ctx context.Context, clientID string) (bool, error)
}

type Service struct {
	repo    Repository
	pets    PetDirectory
	clients ClientDirectory
	log     logger.Logger

	publicBaseURL string

	now      func() time.Time
	newToken func() (string, error)
}

func NewService(repo Repository, pets PetDirectory, clients ClientDirectory, publicBaseURL string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:          repo,
		pets:          pets,
		clients:       clients,
		log:           log.With(map[string]any{"module": "grooming"}),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		now:           time.Now,
		newToken:      newCheckInToken,
	}
}

type CreateInput struct {
	PetID       string
	ClientID    string
	Service     ServiceType
	ScheduledAt time.Time
	Price       *money.Cents
	Notes       string
	Groomer     string
}

// UpdateInput: nil = no tocar. El status no se edita por acá.
type UpdateInput struct {
	Service     *ServiceType
	ScheduledAt *time.Time
	CompletedAt *time.Time
	Price       *money.Cents
	Notes       *string
	Groomer     *string
}

// Create valida referencias, genera el token y marca la visita del cliente.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	petID := strings.TrimSpace(in.PetID)
	clientID := strings.TrimSpace(in.ClientID)
	switch {
	case petID == "":
		return Appointment{}, apperr.Invalid("pet_id is required")
	case clientID == "":
		return Appointment{}, apperr.Invalid("client_id is required")
	case !in.Service.Valid():
		return Appointment{}, apperr.Invalid("service must be one of bath, grooming, bath_grooming, nail, ear, full")
	case in.ScheduledAt.IsZero():
		return Appointment{}, apperr.Invalid("scheduled_at is required")
	case in.Price != nil && *in.Price < 0:
		return Appointment{}, apperr.Invalid("price must be >= 0")
	}

	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return Appointment{}, err
	}
	if !ok {
		return Appointment{}, apperr.Invalid("client %s does not exist", clientID)
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Appointment{}, apperr.Invalid("pet %s does not exist", petID)
	}
	if err != nil {
		return Appointment{}, err
	}
	if owner != clientID {
		return Appointment{}, apperr.Invalid("pet %s does not belong to client %s", petID, clientID)
	}

	token, err := s.newToken()
	if err != nil {
		return Appointment{}, fmt.Errorf("generate check-in token: %w", err)
	}

	now := s.now()
	a := Appointment{
		ID:           uuid.NewString(),
		PetID:        petID,
		ClientID:     clientID,
		Service:      in.Service,
		Status:       StatusScheduled,
		ScheduledAt:  in.ScheduledAt,
		Notes:        strings.TrimSpace(in.Notes),
		Groomer:      strings.TrimSpace(in.Groomer),
		CheckInToken: token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Price != nil {
		a.Price = *in.Price
	}

	if err := s.repo.CreateWithVisit(ctx, a, now); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return Appointment{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if in.Service != nil {
		if !in.Service.Valid() {
			return Appointment{}, apperr.Invalid("service must be one of bath, grooming, bath_grooming, nail, ear, full")
		}
		a.Service = *in.Service
	}
	if in.ScheduledAt != nil {
		a.ScheduledAt = *in.ScheduledAt
	}
	if in.CompletedAt != nil {
		a.CompletedAt = in.CompletedAt
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return Appointment{}, apperr.Invalid("price must be >= 0")
		}
		a.Price = *in.Price
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Groomer != nil {
		a.Groomer = strings.TrimSpace(*in.Groomer)
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Advance mueve al siguiente estado de la tabla. En terminal devuelve ErrInvalidState
// y no escribe. Sin control de concurrencia: gana la última escritura.
func (s *Service) Advance(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	next, ok := a.Status.Next()
	if !ok {
		return Appointment{}, apperr.InvalidState("appointment is %s", a.Status)
	}
	return s.setStatus(ctx, a, next)
}

// ForceSetStatus es el atajo administrativo: acepta cualquier estado conocido, sin orden.
func (s *Service) ForceSetStatus(ctx context.Context, id string, status Status, actor string) (Appointment, error) {
	if !status.Valid() {
		return Appointment{}, apperr.Invalid("unknown status %q", status)
	}
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	from := a.Status
	updated, err := s.setStatus(ctx, a, status)
	if err != nil {
		return Appointment{}, err
	}
	s.log.Warn("appointment status forced", map[string]any{
		"appointment_id": id,
		"from":           string(from),
		"to":             string(status),
		"actor":          actor,
	})
	return updated, nil
}

// Cancel pasa a cancelled sin borrar la fila.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status.Terminal() {
		return Appointment{}, apperr.InvalidState("appointment is %s", a.Status)
	}
	return s.setStatus(ctx, a, StatusCancelled)
}

// Delete borra la fila. Solo para limpieza administrativa.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Warn("appointment deleted", map[string]any{"appointment_id": id, "actor": actor})
	return nil
}

// LookupByToken: token desconocido => (nil, nil).
func (s *Service) LookupByToken(ctx context.Context, token string) (*Tracking, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	t, err := s.repo.GetByToken(ctx, token)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) ListInRange(ctx context.Context, from, to *time.Time) []Appointment {
	items, err := s.repo.ListInRange(ctx, from, to)
	if err != nil {
		s.log.Warn("list appointments failed", map[string]any{"error": err})
		return []Appointment{}
	}
	return items
}

func (s *Service) ListByClient(ctx context.Context, clientID string) []Appointment {
	items, err := s.repo.ListByClient(ctx, strings.TrimSpace(clientID))
	if err != nil {
		s.log.Warn("list client appointments failed", map[string]any{"error": err, "client_id": clientID})
		return []Appointment{}
	}
	return items
}

// TrackingURL arma el link público para compartir con el tutor.
func (s *Service) TrackingURL(token string) string {
	return s.publicBaseURL + "/public/grooming/" + url.PathEscape(token)
}

// setStatus sella completed_at al entrar en completed y lo limpia al salir.
func (s *Service) setStatus(ctx context.Context, a Appointment, to Status) (Appointment, error) {
	now := s.now()
	switch {
	case to == StatusCompleted && a.CompletedAt == nil:
		a.CompletedAt = &now
	case a.Status == StatusCompleted && to != StatusCompleted:
		a.CompletedAt = nil
	}
	a.Status = to
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func newCheckInToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
