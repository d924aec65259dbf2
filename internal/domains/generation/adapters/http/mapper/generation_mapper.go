package mapper

import (
	"strings"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

// GenerateRequest is the body of POST /api/generate-names.
type GenerateRequest struct {
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
	Language string   `json:"language"`
}

// GenerateResponse carries exactly the configured number of names.
type GenerateResponse struct {
	Names []string `json:"names"`
}

// BrandName is one stored history record.
type BrandName struct {
	ID             int64     `json:"id"`
	Keywords       []string  `json:"keywords"`
	Category       string    `json:"category"`
	GeneratedNames []string  `json:"generatedNames"`
	Language       string    `json:"language"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// ToGenerateInput converts the transport request into the application command.
func ToGenerateInput(req GenerateRequest) types.GenerateInput {
	return types.GenerateInput{Keywords: req.Keywords, Category: req.Category, Language: req.Language}
}

func FromResult(result *types.GenerateResult) GenerateResponse {
	if result == nil || result.Record == nil || result.Record.Entity == nil {
		return GenerateResponse{Names: []string{}}
	}
	return GenerateResponse{Names: append([]string{}, result.Record.Entity.Names...)}
}

// FromRecord converts a history record into its transport representation.
func FromRecord(record *types.GenerationRecord) BrandName {
	if record == nil || record.Entity == nil {
		return BrandName{}
	}
	gen := record.Entity
	return BrandName{
		ID:             gen.ID,
		Keywords:       append([]string{}, gen.Request.Keywords...),
		Category:       gen.Request.Category,
		GeneratedNames: append([]string{}, gen.Names...),
		Language:       string(gen.Request.Language),
		CreatedAt:      record.Metadata.CreatedAt,
	}
}

func FromRecords(records []*types.GenerationRecord) []BrandName {
	out := make([]BrandName, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromCategories labels the catalog in the requested language, defaulting to English.
func FromCategories(categories []domain.Category, language string) []Category {
	lang, err := domain.ParseLanguage(strings.TrimSpace(language))
	if err != nil {
		lang = domain.LanguageEnglish
	}
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		subs := make([]Subcategory, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			subs = append(subs, Subcategory{ID: s.ID, Name: s.Label(lang)})
		}
		out = append(out, Category{ID: c.ID, Name: c.Label(lang), Subcategories: subs})
	}
	return out
}
