package marketing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/domain/clients"
	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/marketing", func(mr chi.Router) {
		mr.Get("/campaigns", listCampaignsHandler(svc))
		mr.Post("/campaigns", createCampaignHandler(svc, log))
		mr.Get("/campaigns/{campaignID}", getCampaignHandler(svc, log))
		mr.Patch("/campaigns/{campaignID}", updateCampaignHandler(svc, log))
		mr.Delete("/campaigns/{campaignID}", deleteCampaignHandler(svc, log))

		mr.Get("/inactive-clients", inactiveClientsHandler(svc, log))
		mr.Post("/generate-message", generateMessageHandler(svc, log))
	})
}

type createCampaignRequest struct {
	Name               string  `json:"name"`
	Message            string  `json:"message" example:"Oi {nome}! Sentimos falta do {nome_pet}. {desconto}% de desconto no próximo banho."`
	DiscountPercent    int     `json:"discount_percent"`
	TargetDaysInactive *int    `json:"target_days_inactive"`
	Status             *Status `json:"status"`
}

type updateCampaignRequest struct {
	Name               *string `json:"name"`
	Message            *string `json:"message"`
	DiscountPercent    *int    `json:"discount_percent"`
	TargetDaysInactive *int    `json:"target_days_inactive"`
	Status             *Status `json:"status"`
}

type campaignResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Message            string    `json:"message"`
	DiscountPercent    int       `json:"discount_percent"`
	TargetDaysInactive int       `json:"target_days_inactive"`
	Status             Status    `json:"status"`
	SentCount          int       `json:"sent_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type recipientResponse struct {
	clients.ClientResponse
	WhatsAppURL string `json:"whatsapp_url"`
}

type generateMessageRequest struct {
	PetName         string `json:"pet_name"`
	DiscountPercent int    `json:"discount_percent"`
	DaysInactive    int    `json:"days_inactive"`
}

type messageResponse struct {
	Message     string `json:"message"`
	AIGenerated bool   `json:"ai_generated"`
}

// @Summary Listar campañas
// @Tags marketing
// @Produce json
// @Success 200 {array} campaignResponse
// @Router /marketing/campaigns [get]
func listCampaignsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := svc.List(r.Context())
		out := make([]campaignResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaignResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Crear campaña
// @Description name y message obligatorios; discount_percent 0..100; target_days_inactive >= 1 (default 30); status draft por defecto.
// @Tags marketing
// @Accept json
// @Produce json
// @Param payload body createCampaignRequest true "Campaña"
// @Success 201 {object} campaignResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /marketing/campaigns [post]
func createCampaignHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCampaignRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:               req.Name,
			Message:            req.Message,
			DiscountPercent:    req.DiscountPercent,
			TargetDaysInactive: req.TargetDaysInactive,
			Status:             req.Status,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toCampaignResponse(c))
	}
}

func getCampaignHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toCampaignResponse(c))
	}
}

// @Summary Editar campaña
// @Description Parcial. sent_count no se puede editar.
// @Tags marketing
// @Accept json
// @Produce json
// @Param campaignID path string true "ID de la campaña"
// @Param payload body updateCampaignRequest true "Campos a cambiar"
// @Success 200 {object} campaignResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody
// @Router /marketing/campaigns/{campaignID} [patch]
func updateCampaignHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateCampaignRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "campaignID"), UpdateInput{
			Name:               req.Name,
			Message:            req.Message,
			DiscountPercent:    req.DiscountPercent,
			TargetDaysInactive: req.TargetDaysInactive,
			Status:             req.Status,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toCampaignResponse(c))
	}
}

func deleteCampaignHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "campaignID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Clientes inactivos con link de WhatsApp
// @Description Clientes sin visita en los últimos days días (o sin visitas). Con campaign_id el link lleva el mensaje de la campaña.
// @Tags marketing
// @Produce json
// @Param days query int false "Días sin visita (default 30)"
// @Param campaign_id query string false "Campaña para pre-cargar el mensaje"
// @Success 200 {array} recipientResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 404 {object} httpx.ErrorBody "campaña inexistente"
// @Router /marketing/inactive-clients [get]
func inactiveClientsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := httpx.IntParam(r, "days", clients.DefaultInactiveDays)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		items, err := svc.InactiveClients(r.Context(), days, httpx.StringParam(r, "campaign_id"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		out := make([]recipientResponse, 0, len(items))
		for _, it := range items {
			out = append(out, recipientResponse{
				ClientResponse: clients.ToResponse(it.Client),
				WhatsAppURL:    it.WhatsAppURL,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Generar mensaje de recuperación con IA
// @Description Si la IA falla devuelve un mensaje fijo con ai_generated=false.
// @Tags marketing
// @Accept json
// @Produce json
// @Param payload body generateMessageRequest true "Mascota, descuento y días de inactividad"
// @Success 200 {object} messageResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /marketing/generate-message [post]
func generateMessageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateMessageRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		msg, err := svc.GenerateMessage(r.Context(), GenerateMessageInput{
			PetName:         req.PetName,
			DiscountPercent: req.DiscountPercent,
			DaysInactive:    req.DaysInactive,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: msg.Text, AIGenerated: msg.AIGenerated})
	}
}

func toCampaignResponse(c Campaign) campaignResponse {
	return campaignResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Message:            c.Message,
		DiscountPercent:    c.DiscountPercent,
		TargetDaysInactive: c.TargetDaysInactive,
		Status:             c.Status,
		SentCount:          c.SentCount,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
