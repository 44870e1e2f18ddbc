package grooming

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/middleware"
	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

func RegisterRoutes(r chi.Router, svc *Service, loc *time.Location, log logger.Logger) {
	r.Route("/grooming", func(gr chi.Router) {
		gr.Get("/", listAppointmentsHandler(svc, loc, log))
		gr.Post("/", createAppointmentHandler(svc, log))

		gr.Get("/{appointmentID}", getAppointmentHandler(svc, log))
		gr.Patch("/{appointmentID}", updateAppointmentHandler(svc, log))
		gr.Delete("/{appointmentID}", deleteAppointmentHandler(svc, log))

		gr.Post("/{appointmentID}/advance", advanceStatusHandler(svc, log))
		gr.Put("/{appointmentID}/status", setStatusHandler(svc, log))
		gr.Post("/{appointmentID}/cancel", cancelAppointmentHandler(svc, log))
	})

	// Historial del cliente
	r.Get("/clients/{clientID}/appointments", listClientAppointmentsHandler(svc))
}

// RegisterPublicRoutes monta la consulta por token, sin auth.
func RegisterPublicRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/public/grooming/{token}", trackingHandler(svc, log))
}

type createAppointmentRequest struct {
	PetID       string       `json:"pet_id"`
	ClientID    string       `json:"client_id"`
	Service     ServiceType  `json:"service"`
	ScheduledAt string       `json:"scheduled_at"` // RFC3339
	Price       *money.Cents `json:"price" swaggertype:"string" example:"70.00"`
	Notes       string       `json:"notes"`
	Groomer     string       `json:"groomer"`
}

type updateAppointmentRequest struct {
	Service     *ServiceType `json:"service"`
	ScheduledAt *string      `json:"scheduled_at"`
	CompletedAt *string      `json:"completed_at"`
	Price       *money.Cents `json:"price" swaggertype:"string"`
	Notes       *string      `json:"notes"`
	Groomer     *string      `json:"groomer"`
}

type setStatusRequest struct {
	Status Status `json:"status"`
}

type appointmentResponse struct {
	ID           string      `json:"id"`
	PetID        string      `json:"pet_id"`
	ClientID     string      `json:"client_id"`
	Service      ServiceType `json:"service"`
	Status       Status      `json:"status"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	CompletedAt  *time.Time  `json:"completed_at"`
	Price        money.Cents `json:"price" swaggertype:"string"`
	Notes        string      `json:"notes"`
	Groomer      string      `json:"groomer"`
	CheckInToken string      `json:"check_in_token"`
	TrackingURL  string      `json:"tracking_url"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type trackingResponse struct {
	ID          string      `json:"id"`
	Service     ServiceType `json:"service"`
	Status      Status      `json:"status"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	CompletedAt *time.Time  `json:"completed_at"`
	Groomer     string      `json:"groomer"`
	PetName     string      `json:"pet_name"`
	PetSpecies  string      `json:"pet_species"`
	PetBreed    string      `json:"pet_breed"`
	ClientName  string      `json:"client_name"`
}

// @Summary Listar agendamientos
// @Description Agendamientos con scheduled_at dentro del rango inclusivo [from, to], ordenados ascendente. Un `to` con solo fecha cubre el día completo.
// @Tags grooming
// @Produce json
// @Param from query string false "RFC3339 o YYYY-MM-DD"
// @Param to query string false "RFC3339 o YYYY-MM-DD"
// @Success 200 {array} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /grooming [get]
func listAppointmentsHandler(svc *Service, loc *time.Location, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := httpx.RangeParams(r, loc)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		writeAppointments(w, svc, svc.ListInRange(r.Context(), from, to))
	}
}

func listClientAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeAppointments(w, svc, svc.ListByClient(r.Context(), chi.URLParam(r, "clientID")))
	}
}

// @Summary Crear agendamiento
// @Description Crea un agendamiento en estado scheduled, genera el token de check-in y actualiza last_visit del cliente en la misma transacción. La mascota debe pertenecer al cliente.
// @Tags grooming
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Agendamiento; scheduled_at en RFC3339"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody "json inválido / mascota o cliente inexistente / servicio inválido"
// @Router /grooming [post]
func createAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		scheduledAt, err := httpx.RequiredTime("scheduled_at", req.ScheduledAt)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:       req.PetID,
			ClientID:    req.ClientID,
			Service:     req.Service,
			ScheduledAt: scheduledAt,
			Price:       req.Price,
			Notes:       req.Notes,
			Groomer:     req.Groomer,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAppointmentResponse(svc, a))
	}
}

func getAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

func updateAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		scheduledAt, err := httpx.OptionalTime("scheduled_at", req.ScheduledAt)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		completedAt, err := httpx.OptionalTime("completed_at", req.CompletedAt)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), UpdateInput{
			Service:     req.Service,
			ScheduledAt: scheduledAt,
			CompletedAt: completedAt,
			Price:       req.Price,
			Notes:       req.Notes,
			Groomer:     req.Groomer,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// @Summary Avanzar estado
// @Description scheduled → arrived → bathing → grooming → ready → completed. En completed o cancelled responde 409 y no modifica nada.
// @Tags grooming
// @Produce json
// @Param appointmentID path string true "ID del agendamiento"
// @Success 200 {object} appointmentResponse
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody "estado terminal"
// @Router /grooming/{appointmentID}/advance [post]
func advanceStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Advance(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// @Summary Forzar estado
// @Description Atajo administrativo: fija cualquier estado conocido sin respetar el orden. Queda registrado en el log con el usuario.
// @Tags grooming
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID del agendamiento"
// @Param payload body setStatusRequest true "Nuevo estado"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorBody "estado desconocido"
// @Failure 404 {object} httpx.ErrorBody
// @Router /grooming/{appointmentID}/status [put]
func setStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setStatusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.ForceSetStatus(r.Context(), chi.URLParam(r, "appointmentID"), req.Status, claims.UserID)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

func cancelAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Cancel(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(svc, a))
	}
}

// @Summary Borrar agendamiento
// @Description Borrado físico, solo rol admin. Para cancelar usar POST /grooming/{appointmentID}/cancel.
// @Tags grooming
// @Param appointmentID path string true "ID del agendamiento"
// @Success 204
// @Failure 403 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /grooming/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.IsAdmin() {
			httpx.WriteError(w, log, apperr.ErrForbidden)
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Seguimiento público
// @Description Consulta sin autenticación por token de check-in. Token desconocido responde 200 con null.
// @Tags public
// @Produce json
// @Param token path string true "Token de check-in"
// @Success 200 {object} trackingResponse
// @Router /public/grooming/{token} [get]
func trackingHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.LookupByToken(r.Context(), strings.TrimSpace(chi.URLParam(r, "token")))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		if t == nil {
			httpx.WriteJSON(w, http.StatusOK, nil)
			return
		}
		a := t.Appointment
		httpx.WriteJSON(w, http.StatusOK, trackingResponse{
			ID:          a.ID,
			Service:     a.Service,
			Status:      a.Status,
			ScheduledAt: a.ScheduledAt,
			CompletedAt: a.CompletedAt,
			Groomer:     a.Groomer,
			PetName:     t.PetName,
			PetSpecies:  t.PetSpecies,
			PetBreed:    t.PetBreed,
			ClientName:  t.ClientName,
		})
	}
}

func writeAppointments(w http.ResponseWriter, svc *Service, items []Appointment) {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(svc, a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toAppointmentResponse(svc *Service, a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:           a.ID,
		PetID:        a.PetID,
		ClientID:     a.ClientID,
		Service:      a.Service,
		Status:       a.Status,
		ScheduledAt:  a.ScheduledAt,
		CompletedAt:  a.CompletedAt,
		Price:        a.Price,
		Notes:        a.Notes,
		Groomer:      a.Groomer,
		CheckInToken: a.CheckInToken,
		TrackingURL:  svc.TrackingURL(a.CheckInToken),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
