package application

import (
	"errors"
	"fmt"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid generation request")
	// ErrGenerationFailed covers upstream transport and content failures. Clients only ever see this.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrPersistence wraps history storage failures.
	ErrPersistence = errors.New("failed to persist generation")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrKeywordCount) ||
		errors.Is(err, domain.ErrBlankKeyword) ||
		errors.Is(err, domain.ErrEmptyCategory) ||
		errors.Is(err, domain.ErrUnknownLanguage) ||
		errors.Is(err, domain.ErrMissingLanguage) ||
		errors.Is(err, entdomain.ErrInvalidCount) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// mapPipelineError folds pipeline failures into the two client-facing buckets.
func mapPipelineError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) || errors.Is(err, ErrGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
