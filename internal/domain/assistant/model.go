package assistant

import "petshop-crm/internal/platform/money"

type ProductRequest struct {
	Name     string
	Category string
	Brand    string
}

// ProductInfo es la ficha sugerida. Todos los campos quedan poblados;
// los precios son nil cuando el modelo no dio un valor positivo.
type ProductInfo struct {
	Name           string
	SKU            string
	Category       string
	Brand          string
	Description    string
	SuggestedPrice *money.Cents
	EstimatedCost  *money.Cents
	MinStock       int
	Unit           string
	Tags           []string
	TargetAnimals  string

	// false cuando se devolvió la ficha de respaldo.
	AIGenerated bool
}

type MessageRequest struct {
	PetName         string
	DiscountPercent int
	DaysInactive    int
}

type Message struct {
	Text        string
	AIGenerated bool
}
