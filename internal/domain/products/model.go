package products

import (
	"time"

	"petshop-crm/internal/platform/money"
)

const (
	DefaultMinStock = 5
	DefaultUnit     = "un"
)

// Product es un ítem del catálogo. SKU se guarda en mayúsculas y es único.
type Product struct {
	ID          string
	Name        string
	SKU         string
	Description string
	Category    string
	Brand       string

	Price     money.Cents
	CostPrice money.Cents

	Stock    int
	MinStock int
	Unit     string

	// Tags separados por coma, tal como los carga el usuario.
	Tags     string
	ImageURL string

	Active      bool
	AIGenerated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLowStock: stock en o por debajo del mínimo.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

type ListFilter struct {
	Search   string // nombre o SKU
	Category string
}
