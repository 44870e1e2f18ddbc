package clients

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/clients", listClientsHandler(svc))
	r.Post("/clients", createClientHandler(svc, log))
	r.Get("/clients/inactive", inactiveClientsHandler(svc, log))
	r.Get("/clients/{clientID}", getClientHandler(svc, log))
	r.Patch("/clients/{clientID}", updateClientHandler(svc, log))
	r.Delete("/clients/{clientID}", deleteClientHandler(svc, log))
}

type createClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	TaxID   string `json:"cpf"`
	Notes   string `json:"notes"`
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	TaxID   *string `json:"cpf"`
	Notes   *string `json:"notes"`
	Active  *bool   `json:"active"`
}

// ClientResponse lo reutiliza marketing.
type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	TaxID     string     `json:"cpf"`
	Notes     string     `json:"notes"`
	Active    bool       `json:"active"`
	LastVisit *time.Time `json:"last_visit"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// @Summary Listar clientes
// @Tags clients
// @Produce json
// @Param search query string false "Nombre, teléfono o email"
// @Success 200 {array} ClientResponse
// @Router /clients [get]
func listClientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := svc.List(r.Context(), httpx.StringParam(r, "search"))
		out := make([]ClientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			TaxID:   req.TaxID,
			Notes:   req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToResponse(c))
	}
}

// @Summary Clientes inactivos
// @Description Clientes sin visita en los últimos `days` días o que nunca vinieron.
// @Tags clients
// @Produce json
// @Param days query int false "Días de inactividad (default 30)"
// @Success 200 {array} ClientResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /clients/inactive [get]
func inactiveClientsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := httpx.IntParam(r, "days", DefaultInactiveDays)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		items, err := svc.Inactive(r.Context(), days)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		out := make([]ClientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(c))
	}
}

func updateClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateClientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clientID"), UpdateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			TaxID:   req.TaxID,
			Notes:   req.Notes,
			Active:  req.Active,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(c))
	}
}

// @Summary Borrar cliente
// @Description Borra el cliente. Si tiene mascotas o agendamientos responde 409; en ese caso desactivarlo con PATCH active=false.
// @Tags clients
// @Param clientID path string true "ID del cliente"
// @Success 204
// @Failure 404 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody
// @Router /clients/{clientID} [delete]
func deleteClientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "clientID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToResponse(c Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		TaxID:     c.TaxID,
		Notes:     c.Notes,
		Active:    c.Active,
		LastVisit: c.LastVisit,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
