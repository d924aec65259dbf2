package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts bearer-token persistence.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	// Lookup returns ErrSessionNotFound for unknown or expired tokens.
	Lookup(ctx context.Context, token string, now time.Time) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
