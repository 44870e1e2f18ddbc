package assistant

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxFieldRunes   = 500
	maxMessageRunes = 1000
	maxTags         = 10
)

// sanitizeString quita caracteres de control, recorta y limita a maxFieldRunes.
// Valores que no son string dan "".
func sanitizeString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return capRunes(strings.TrimSpace(stripControl(s, false)), maxFieldRunes)
}

// sanitizeMessage conserva saltos de línea y tabs.
func sanitizeMessage(s string) string {
	return capRunes(strings.TrimSpace(stripControl(s, true)), maxMessageRunes)
}

func stripControl(s string, keepLayout bool) string {
	return strings.Map(func(r rune) rune {
		if keepLayout && (r == '\n' || r == '\t') {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

// safeNumber nunca falla: nil si el valor no es un número finito.
func safeNumber(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(x), "R$"))
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// firstString devuelve el primer campo no vacío entre los alias dados.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := sanitizeString(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(obj map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if n := safeNumber(obj[k]); n != nil {
			return n
		}
	}
	return nil
}

// sanitizeTags acepta un array o un string separado por comas.
func sanitizeTags(v any) []string {
	var raw []any
	switch x := v.(type) {
	case []any:
		raw = x
	case string:
		for _, part := range strings.Split(x, ",") {
			raw = append(raw, part)
		}
	}

	out := make([]string, 0, len(raw))
	for _, t := range raw {
		s := sanitizeString(t)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

// tagsFromName usa las primeras 5 palabras del nombre.
func tagsFromName(name string) []string {
	words := strings.Fields(name)
	if len(words) > 5 {
		words = words[:5]
	}
	if len(words) == 0 {
		return []string{"produto"}
	}
	return words
}
