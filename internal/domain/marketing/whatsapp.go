package marketing

import (
	"net/url"
	"strconv"
	"strings"
)

// localNumberMaxDigits: DDD + celular en Brasil.
const localNumberMaxDigits = 11

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// whatsAppURL arma https://wa.me/<número>[?text=...]. Sin dígitos => "".
func whatsAppURL(phone, countryCode, text string) string {
	number := digitsOnly(phone)
	if number == "" {
		return ""
	}
	cc := digitsOnly(countryCode)
	if cc != "" && !(strings.HasPrefix(number, cc) && len(number) > localNumberMaxDigits) {
		number = cc + number
	}

	link := "https://wa.me/" + number
	if strings.TrimSpace(text) != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}

// renderMessage reemplaza las variables de la plantilla.
func renderMessage(tpl, clientName, petName string, discount int) string {
	firstName := clientName
	if f := strings.Fields(clientName); len(f) > 0 {
		firstName = f[0]
	}
	return strings.NewReplacer(
		"{nome_cliente}", clientName,
		"{nome_pet}", petName,
		"{nome}", firstName,
		"{desconto}", strconv.Itoa(discount),
	).Replace(tpl)
}
