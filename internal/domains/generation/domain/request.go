package domain

import (
	"errors"
	"strings"
)

const (
	MinKeywords = 3
	MaxKeywords = 5
)

var (
	ErrKeywordCount    = errors.New("between 3 and 5 keywords are required")
	ErrBlankKeyword    = errors.New("keywords must not be blank")
	ErrEmptyCategory   = errors.New("category is required")
	ErrUnknownLanguage = errors.New("language must be one of: en, tr")
	ErrMissingLanguage = errors.New("language is required")
)

// Language selects the language the names and prompt are produced in.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
)

// ParseLanguage accepts en/tr case-insensitively; blank defaults to English for lookups
// such as the category catalog. Generation requests must name their language.
func ParseLanguage(raw string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageTurkish:
		return LanguageTurkish, nil
	default:
		return "", ErrUnknownLanguage
	}
}

// Request is a validated brand-name generation request.
type Request struct {
	Keywords []string
	Category string
	Language Language
}

// NewRequest trims inputs and enforces keyword, category, and language invariants.
func NewRequest(keywords []string, category string, language string) (Request, error) {
	if len(keywords) < MinKeywords || len(keywords) > MaxKeywords {
		return Request{}, ErrKeywordCount
	}
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return Request{}, ErrBlankKeyword
		}
		cleaned = append(cleaned, kw)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Request{}, ErrEmptyCategory
	}
	if strings.TrimSpace(language) == "" {
		return Request{}, ErrMissingLanguage
	}
	lang, err := ParseLanguage(language)
	if err != nil {
		return Request{}, err
	}
	return Request{Keywords: cleaned, Category: category, Language: lang}, nil
}

// Validate re-applies invariants for requests rebuilt from storage or workflow payloads.
func (r Request) Validate() error {
	_, err := NewRequest(r.Keywords, r.Category, string(r.Language))
	return err
}
