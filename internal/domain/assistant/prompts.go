package assistant

import (
	"fmt"
	"strings"
)

const productSystemPrompt = `Você é um especialista em produtos para pet shops no mercado brasileiro. ` +
	`Analise o nome do produto e gere informações completas e realistas, otimizadas para venda. ` +
	`Responda somente com um objeto JSON.`

const marketingSystemPrompt = `Você é um especialista em marketing para pet shops. ` +
	`Crie mensagens de WhatsApp amigáveis, curtas e persuasivas para recuperar clientes inativos. ` +
	`Use emojis com moderação. Responda somente com o texto da mensagem.`

func productPrompt(req ProductRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analise este produto para pet shop: %q.", req.Name)
	if c := strings.TrimSpace(req.Category); c != "" {
		fmt.Fprintf(&b, " Categoria sugerida: %s.", c)
	}
	if m := strings.TrimSpace(req.Brand); m != "" {
		fmt.Fprintf(&b, " Marca: %s.", m)
	}
	b.WriteString(`

Retorne JSON com as chaves:
- nomeProduto: nome comercial do produto
- sku: código curto em maiúsculas (letras, números e hífen)
- categoria: uma de Alimentação, Higiene, Acessórios, Medicamentos, Brinquedos, Camas e Casinhas, Coleiras e Guias, Outros
- marca: marca do produto
- descricao: descrição persuasiva (máximo 200 caracteres)
- precoSugerido: preço de venda sugerido em reais (número)
- custoEstimado: custo estimado em reais (número)
- estoqueMinimoSugerido: estoque mínimo sugerido (inteiro >= 1)
- unidade: unidade de venda (un, kg, g, ml, l, pacote, caixa)
- tags: array de até 5 tags
- targetAnimals: animais-alvo (cachorro, gato, pássaro, outros)`)
	return b.String()
}

func marketingPrompt(req MessageRequest) string {
	return fmt.Sprintf(
		"Crie uma mensagem de WhatsApp para recuperar um cliente cujo pet se chama %q, "+
			"que não vem há %d dias, oferecendo %d%% de desconto no próximo banho/tosa.",
		req.PetName, req.DaysInactive, req.DiscountPercent,
	)
}

func fallbackMessage(req MessageRequest) string {
	pet := strings.TrimSpace(req.PetName)
	if pet == "" {
		pet = "seu pet"
	}
	return fmt.Sprintf(
		"Olá! 🐾 Sentimos falta do %s por aqui! Já faz %d dias desde a última visita. "+
			"Agende o próximo banho e tosa e ganhe %d%% de desconto. Esperamos vocês!",
		pet, req.DaysInactive, req.DiscountPercent,
	)
}
