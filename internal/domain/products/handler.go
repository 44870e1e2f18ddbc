package products

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", listProductsHandler(svc))
		pr.Post("/", createProductHandler(svc, log))
		pr.Get("/low-stock", lowStockHandler(svc))
		pr.Post("/generate-ai", generateAIHandler(svc, log))

		pr.Get("/{productID}", getProductHandler(svc, log))
		pr.Patch("/{productID}", updateProductHandler(svc, log))
		pr.Delete("/{productID}", deleteProductHandler(svc, log))
	})
}

type createProductRequest struct {
	Name        string      `json:"name"`
	SKU         string      `json:"sku"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand"`
	Price       money.Cents `json:"price" swaggertype:"string" example:"89.90"`
	CostPrice   money.Cents `json:"cost_price" swaggertype:"string" example:"50.00"`
	Stock       int         `json:"stock"`
	MinStock    *int        `json:"min_stock"`
	Unit        string      `json:"unit"`
	Tags        string      `json:"tags"`
	ImageURL    string      `json:"image_url"`
	Active      *bool       `json:"active"`
	AIGenerated bool        `json:"ai_generated"`
}

type updateProductRequest struct {
	Name        *string      `json:"name"`
	SKU         *string      `json:"sku"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Brand       *string      `json:"brand"`
	Price       *money.Cents `json:"price" swaggertype:"string"`
	CostPrice   *money.Cents `json:"cost_price" swaggertype:"string"`
	Stock       *int         `json:"stock"`
	MinStock    *int         `json:"min_stock"`
	Unit        *string      `json:"unit"`
	Tags        *string      `json:"tags"`
	ImageURL    *string      `json:"image_url"`
	Active      *bool        `json:"active"`
}

type productResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	SKU         string      `json:"sku"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand"`
	Price       money.Cents `json:"price" swaggertype:"string"`
	CostPrice   money.Cents `json:"cost_price" swaggertype:"string"`
	Stock       int         `json:"stock"`
	MinStock    int         `json:"min_stock"`
	Unit        string      `json:"unit"`
	Tags        string      `json:"tags"`
	ImageURL    string      `json:"image_url"`
	Active      bool        `json:"active"`
	AIGenerated bool        `json:"ai_generated"`
	LowStock    bool        `json:"low_stock"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type generateAIRequest struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
}

type productInfoResponse struct {
	Name           string       `json:"name"`
	SKU            string       `json:"sku"`
	Category       string       `json:"category"`
	Brand          string       `json:"brand"`
	Description    string       `json:"description"`
	SuggestedPrice *money.Cents `json:"suggested_price" swaggertype:"string"`
	EstimatedCost  *money.Cents `json:"estimated_cost" swaggertype:"string"`
	MinStock       int          `json:"min_stock"`
	Unit           string       `json:"unit"`
	Tags           []string     `json:"tags"`
	TargetAnimals  string       `json:"target_animals"`
	AIGenerated    bool         `json:"ai_generated"`
}

// @Summary Listar productos
// @Description Lista el catálogo ordenado por fecha de creación (más nuevos primero). Si la base falla devuelve una lista vacía.
// @Tags products
// @Produce json
// @Param search query string false "Texto a buscar en nombre o SKU"
// @Param category query string false "Categoría exacta"
// @Success 200 {array} productResponse
// @Failure 401 {object} httpx.ErrorBody
// @Router /products [get]
func listProductsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := svc.List(r.Context(), ListFilter{
			Search:   httpx.StringParam(r, "search"),
			Category: httpx.StringParam(r, "category"),
		})
		httpx.WriteJSON(w, http.StatusOK, toProductResponses(items))
	}
}

// @Summary Crear producto
// @Description Crea un producto. name y sku son obligatorios; el SKU se guarda en mayúsculas y debe ser único. Montos como string decimal.
// @Tags products
// @Accept json
// @Produce json
// @Param payload body createProductRequest true "Producto"
// @Success 201 {object} productResponse
// @Failure 400 {object} httpx.ErrorBody
// @Failure 409 {object} httpx.ErrorBody "SKU duplicado"
// @Router /products [post]
func createProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			SKU:         req.SKU,
			Description: req.Description,
			Category:    req.Category,
			Brand:       req.Brand,
			Price:       req.Price,
			CostPrice:   req.CostPrice,
			Stock:       req.Stock,
			MinStock:    req.MinStock,
			Unit:        req.Unit,
			Tags:        req.Tags,
			ImageURL:    req.ImageURL,
			Active:      req.Active,
			AIGenerated: req.AIGenerated,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toProductResponse(p))
	}
}

// @Summary Productos con stock bajo
// @Description Productos con stock <= min_stock.
// @Tags products
// @Produce json
// @Success 200 {array} productResponse
// @Router /products/low-stock [get]
func lowStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, toProductResponses(svc.LowStock(r.Context())))
	}
}

// @Summary Generar ficha de producto con IA
// @Description Sugiere SKU, categoría, descripción, precios y tags. Si el backend de IA falla devuelve una ficha de respaldo con ai_generated=false (nunca 5xx por la IA).
// @Tags products
// @Accept json
// @Produce json
// @Param payload body generateAIRequest true "Nombre del producto y pistas opcionales"
// @Success 200 {object} productInfoResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /products/generate-ai [post]
func generateAIHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateAIRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		info, err := svc.GenerateAI(r.Context(), assistant.ProductRequest{
			Name:     req.ProductName,
			Category: req.Category,
			Brand:    req.Brand,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, productInfoResponse{
			Name:           info.Name,
			SKU:            info.SKU,
			Category:       info.Category,
			Brand:          info.Brand,
			Description:    info.Description,
			SuggestedPrice: info.SuggestedPrice,
			EstimatedCost:  info.EstimatedCost,
			MinStock:       info.MinStock,
			Unit:           info.Unit,
			Tags:           info.Tags,
			TargetAnimals:  info.TargetAnimals,
			AIGenerated:    info.AIGenerated,
		})
	}
}

func getProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
	}
}

func updateProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProductRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "productID"), UpdateInput{
			Name:        req.Name,
			SKU:         req.SKU,
			Description: req.Description,
			Category:    req.Category,
			Brand:       req.Brand,
			Price:       req.Price,
			CostPrice:   req.CostPrice,
			Stock:       req.Stock,
			MinStock:    req.MinStock,
			Unit:        req.Unit,
			Tags:        req.Tags,
			ImageURL:    req.ImageURL,
			Active:      req.Active,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
	}
}

func deleteProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toProductResponses(items []Product) []productResponse {
	out := make([]productResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		CostPrice:   p.CostPrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Tags:        p.Tags,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		AIGenerated: p.AIGenerated,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
