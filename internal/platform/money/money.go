// Package money representa montos como centavos enteros.
// En la API viajan como string decimal ("89.90"); en la base como BIGINT.
package money

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Cents es un monto en centavos.
type Cents int64

// Parse acepta "89.90", "89,90" o "89". Redondea a 2 decimales (half-up).
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// FromFloat se usa solo para valores que vienen de fuentes externas (LLM).
func FromFloat(f float64) (Cents, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// FromDecimal falla con ErrInvalidAmount si el monto no entra en int64 centavos.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2).Round(0)
	if shifted.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return Cents(shifted.IntPart()), nil
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String siempre con 2 decimales.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON acepta string o número.
func (c *Cents) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*c = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrInvalidAmount
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
