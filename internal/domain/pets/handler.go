package pets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})

	// Mascotas de un cliente
	r.Get("/clients/{clientID}/pets", listClientPetsHandler(svc))
}

type createPetRequest struct {
	ClientID     string           `json:"client_id"`
	Name         string           `json:"name"`
	Species      string           `json:"species"`
	Breed        string           `json:"breed"`
	Size         string           `json:"size"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"string" example:"12.5"`
	BirthDate    string           `json:"birth_date"` // YYYY-MM-DD opcional
	Color        string           `json:"color"`
	Observations string           `json:"observations"`
	Vaccinations string           `json:"vaccinations"`
	ImageURL     string           `json:"image_url"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string          `json:"name"`
	Species      *string          `json:"species"`
	Breed        *string          `json:"breed"`
	Size         *string          `json:"size"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"string"`
	Color        *string          `json:"color"`
	Observations *string          `json:"observations"`
	Vaccinations *string          `json:"vaccinations"`
	ImageURL     *string          `json:"image_url"`
	Active       *bool            `json:"active"`
	// birth_date se lee aparte: YYYY-MM-DD o null para limpiar.
}

type petResponse struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	Name         string           `json:"name"`
	Species      Species          `json:"species"`
	Breed        string           `json:"breed"`
	Size         Size             `json:"size"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"string"`
	BirthDate    *string          `json:"birth_date"`
	Color        string           `json:"color"`
	Observations string           `json:"observations"`
	Vaccinations string           `json:"vaccinations"`
	ImageURL     string           `json:"image_url"`
	Active       bool             `json:"active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writePets(w, svc.List(r.Context(), httpx.StringParam(r, "search")))
	}
}

func listClientPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writePets(w, svc.ByClient(r.Context(), chi.URLParam(r, "clientID")))
	}
}

// @Summary Crear mascota
// @Description Crea una mascota para un cliente existente. species: dog|cat|bird|other (default dog); size: small|medium|large|giant (default medium).
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Mascota; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.ErrorBody "json inválido / cliente inexistente / enum inválido"
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				httpx.WriteError(w, log, apperr.Invalid("birth_date must be YYYY-MM-DD"))
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ClientID:     req.ClientID,
			Name:         req.Name,
			Species:      req.Species,
			Breed:        req.Breed,
			Size:         req.Size,
			Weight:       req.Weight,
			BirthDate:    bd,
			Color:        req.Color,
			Observations: req.Observations,
			Vaccinations: req.Vaccinations,
			ImageURL:     req.ImageURL,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Para soportar birth_date: null, necesitamos detectar presencia del campo.
		// Decodificamos a map primero y después al struct con los tags.
		var raw map[string]json.RawMessage
		if err := httpx.DecodeJSON(r, &raw); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpx.WriteError(w, log, apperr.Invalid("invalid json: %s", err.Error()))
				return
			}
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.WriteError(w, log, apperr.Invalid("birth_date must be YYYY-MM-DD or null"))
					return
				}
				if strings.TrimSpace(s) != "" {
					t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
					if err != nil {
						httpx.WriteError(w, log, apperr.Invalid("birth_date must be YYYY-MM-DD or null"))
						return
					}
					bd.Value = &t
				}
			}
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), UpdateInput{
			Name:         req.Name,
			Species:      req.Species,
			Breed:        req.Breed,
			Size:         req.Size,
			Weight:       req.Weight,
			BirthDate:    bd,
			Color:        req.Color,
			Observations: req.Observations,
			Vaccinations: req.Vaccinations,
			ImageURL:     req.ImageURL,
			Active:       req.Active,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writePets(w http.ResponseWriter, items []Pet) {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toPetResponse(p Pet) petResponse {
	var bd *string
	if p.BirthDate != nil {
		s := p.BirthDate.Format("2006-01-02")
		bd = &s
	}
	return petResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		Size:         p.Size,
		Weight:       p.Weight,
		BirthDate:    bd,
		Color:        p.Color,
		Observations: p.Observations,
		Vaccinations: p.Vaccinations,
		ImageURL:     p.ImageURL,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
