package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"petshop-crm/internal/platform/money"
)

const (
	defaultName     = "Produto sem nome"
	defaultCategory = "Outros"
	defaultBrand    = "Genérica"
	defaultUnit     = "un"
	defaultMinStock = 5
	// Por encima se ignora la sugerencia y queda el default.
	maxMinStock = 1_000_000
)

var ErrMalformedOutput = errors.New("malformed model output")

// parseObject localiza y decodifica el objeto JSON de la respuesta.
func parseObject(text string) (map[string]any, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no json object", ErrMalformedOutput)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return obj, nil
}

// validateProductInfo arma la ficha a partir del objeto del modelo.
// Acepta claves en portugués e inglés; lo que falta se completa con la entrada o defaults.
func validateProductInfo(obj map[string]any, req ProductRequest, suffix string) ProductInfo {
	info := ProductInfo{
		Name:          firstString(obj, "nomeProduto", "productName", "nome", "name"),
		Category:      firstString(obj, "categoria", "category"),
		Brand:         firstString(obj, "marca", "brand"),
		Description:   firstString(obj, "descricao", "description"),
		Unit:          firstString(obj, "unidade", "unit"),
		Tags:          sanitizeTags(obj["tags"]),
		TargetAnimals: firstString(obj, "animaisAlvo", "targetAnimals"),
		AIGenerated:   true,
	}

	if info.Name == "" {
		info.Name = orDefault(sanitizeString(req.Name), defaultName)
	}
	if info.Category == "" {
		info.Category = orDefault(sanitizeString(req.Category), defaultCategory)
	}
	if info.Brand == "" {
		info.Brand = orDefault(sanitizeString(req.Brand), defaultBrand)
	}
	if utf8.RuneCountInString(info.Description) < 10 {
		info.Description = info.Name + " - Descrição não disponível"
	}
	if info.Unit == "" {
		info.Unit = defaultUnit
	}
	if len(info.Tags) == 0 {
		info.Tags = tagsFromName(info.Name)
	}

	info.SuggestedPrice = positiveCents(firstNumber(obj, "precoSugerido", "suggestedPrice", "preco", "price"))
	info.EstimatedCost = positiveCents(firstNumber(obj, "custoEstimado", "estimatedCost", "costPrice"))

	info.MinStock = defaultMinStock
	if n := firstNumber(obj, "estoqueMinimoSugerido", "minStock"); n != nil && math.Abs(*n) <= maxMinStock {
		info.MinStock = max(1, int(math.Round(*n)))
	}

	info.SKU = cleanSKU(firstString(obj, "sku"))
	if info.SKU == "" {
		info.SKU = generateSKU(info.Category, info.Name, suffix)
	}
	return info
}

// fallbackProductInfo se deriva solo de la entrada.
func fallbackProductInfo(req ProductRequest, suffix string) ProductInfo {
	name := orDefault(sanitizeString(req.Name), defaultName)
	category := orDefault(sanitizeString(req.Category), defaultCategory)
	return ProductInfo{
		Name:        name,
		SKU:         generateSKU(sanitizeString(req.Category), name, suffix),
		Category:    category,
		Brand:       orDefault(sanitizeString(req.Brand), defaultBrand),
		Description: name + " - Descrição não disponível",
		MinStock:    defaultMinStock,
		Unit:        defaultUnit,
		Tags:        tagsFromName(name),
		AIGenerated: false,
	}
}

func positiveCents(f *float64) *money.Cents {
	if f == nil || *f <= 0 {
		return nil
	}
	c, err := money.FromFloat(*f)
	if err != nil || c <= 0 {
		return nil
	}
	return &c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
