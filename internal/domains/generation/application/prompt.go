package application

import (
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

// DefaultNameCount is how many names a generation returns unless configured otherwise.
const DefaultNameCount = 8

// SystemPrompt frames the model as a JSON-emitting name generator.
const SystemPrompt = "You are a brand name generator. Generate unique names and return them in JSON format. Always include the word 'json' in your responses."

// BuildPrompt renders the user prompt for a request. It is pure: the same inputs yield the same text.
func BuildPrompt(category string, keywords []string, lang domain.Language, count int) string {
	if count <= 0 {
		count = DefaultNameCount
	}
	label := domain.DescribeCategory(category, lang)
	joined := strings.Join(keywords, ", ")
	placeholders := make([]string, count)
	if lang == domain.LanguageTurkish {
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("%q", fmt.Sprintf("isim%d", i+1))
		}
		return fmt.Sprintf(
			"Bu anahtar kelimeleri kullanarak \"%s\" kategorisi için %d tamamen farklı marka ismi üret: %s.\n"+
				"Her isim diğerlerinden tamamen farklı olmalı.\n"+
				"İsimler arasında aynı ön ek veya son ek kullanma.\n"+
				"İsimler Türkçe olmalı.\n"+
				"Yanıtı tam olarak bu JSON formatında ver: {\"names\": [%s]}",
			label, count, joined, strings.Join(placeholders, ", "),
		)
	}
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("%q", fmt.Sprintf("name%d", i+1))
	}
	return fmt.Sprintf(
		"Generate %d unique and diverse brand names for the \"%s\" category using these keywords: %s.\n"+
			"Each name must be completely different from the others.\n"+
			"Never use the same prefix or suffix between names.\n"+
			"Names must be in English.\n"+
			"Respond with valid JSON using exactly this structure: {\"names\": [%s]}",
		count, label, joined, strings.Join(placeholders, ", "),
	)
}

// BuildCompletion pairs the system prompt with the request prompt.
func BuildCompletion(req domain.Request, count int) ports.CompletionRequest {
	return ports.CompletionRequest{
		System: SystemPrompt,
		Prompt: BuildPrompt(req.Category, req.Keywords, req.Language, count),
	}
}
