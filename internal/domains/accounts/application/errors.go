package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps failed logins.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnauthenticated is returned for missing, unknown, or expired session tokens.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrConflict signals the email is already registered.
	ErrConflict = errors.New("account already exists")
)

var errInvalidCredentials = errors.New("invalid email or password")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrEmailTaken) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if errors.Is(err, ports.ErrSessionNotFound) {
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return err
}
