package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrConflict     = apperr.ErrConflict
)

// InfoGenerator completa la ficha de un producto a partir del nombre.
type InfoGenerator interface {
	GenerateProductInfo(ctx context.Context, in assistant.ProductRequest) assistant.ProductInfo
}

type Service struct {
	repo Repository
	gen  InfoGenerator
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, gen InfoGenerator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		gen:  gen,
		log:  log.With(map[string]any{"module": "products"}),
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	SKU         string
	Description string
	Category    string
	Brand       string
	Price       money.Cents
	CostPrice   money.Cents
	Stock       int
	MinStock    *int // nil => DefaultMinStock
	Unit        string
	Tags        string
	ImageURL    string
	Active      *bool // nil => true
	AIGenerated bool
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name        *string
	SKU         *string
	Description *string
	Category    *string
	Brand       *string
	Price       *money.Cents
	CostPrice   *money.Cents
	Stock       *int
	MinStock    *int
	Unit        *string
	Tags        *string
	ImageURL    *string
	Active      *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	now := s.now()
	p := Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		SKU:         normalizeSKU(in.SKU),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Brand:       strings.TrimSpace(in.Brand),
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Stock:       in.Stock,
		MinStock:    DefaultMinStock,
		Unit:        strings.TrimSpace(in.Unit),
		Tags:        strings.TrimSpace(in.Tags),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      true,
		AIGenerated: in.AIGenerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	if err := validate(p); err != nil {
		return Product{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		p.SKU = normalizeSKU(*in.SKU)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
		if p.Unit == "" {
			p.Unit = DefaultUnit
		}
	}
	if in.Tags != nil {
		p.Tags = strings.TrimSpace(*in.Tags)
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := validate(p); err != nil {
		return Product{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List degrada a lista vacía si el store falla.
func (s *Service) List(ctx context.Context, f ListFilter) []Product {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)

	items, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Warn("list products failed", map[string]any{"error": err})
		return []Product{}
	}
	return items
}

func (s *Service) LowStock(ctx context.Context) []Product {
	items, err := s.repo.LowStock(ctx)
	if err != nil {
		s.log.Warn("list low stock failed", map[string]any{"error": err})
		return []Product{}
	}
	return items
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// GenerateAI nunca falla: si el backend no responde devuelve la ficha de respaldo.
func (s *Service) GenerateAI(ctx context.Context, in assistant.ProductRequest) (assistant.ProductInfo, error) {
	if strings.TrimSpace(in.Name) == "" {
		return assistant.ProductInfo{}, apperr.Invalid("product_name is required")
	}
	return s.gen.GenerateProductInfo(ctx, in), nil
}

func validate(p Product) error {
	switch {
	case p.Name == "":
		return apperr.Invalid("name is required")
	case p.SKU == "":
		return apperr.Invalid("sku is required")
	case p.Price < 0:
		return apperr.Invalid("price must be >= 0")
	case p.CostPrice < 0:
		return apperr.Invalid("cost_price must be >= 0")
	case p.Stock < 0:
		return apperr.Invalid("stock must be >= 0")
	case p.MinStock < 0:
		return apperr.Invalid("min_stock must be >= 0")
	}
	return nil
}

func normalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
