package assistant

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSKULen = 40

// skuCode pasa a mayúsculas sin acentos y deja solo [A-Z0-9].
func skuCode(s string, n int) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(folded) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == n {
				break
			}
		}
	}
	return b.String()
}

// generateSKU arma CAT(3)-NOME(4)-RAND(4). Categoria vacía => PET.
func generateSKU(category, name, suffix string) string {
	cat := skuCode(category, 3)
	if cat == "" {
		cat = "PET"
	}
	code := skuCode(name, 4)
	if code == "" {
		code = "ITEM"
	}
	return cat + "-" + code + "-" + suffix
}

// cleanSKU normaliza un SKU sugerido por el modelo. "" si no queda nada útil.
func cleanSKU(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxSKULen {
		out = strings.TrimRight(out[:maxSKULen], "-")
	}
	return out
}

// randomSuffix: 4 caracteres de base32 (A-Z, 2-7).
func randomSuffix() string {
	return rand.Text()[:4]
}
