package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
)

// ErrInvalidInput signals an unknown key or a malformed value.
var ErrInvalidInput = errors.New("invalid setting")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownKey) || errors.Is(err, domain.ErrInvalidValue) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
