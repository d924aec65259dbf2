package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	if strings.TrimSpace(session.Token) == "" {
		return errors.New("session token is required")
	}
	s.session.Store(session.Token, session)
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string, now time.Time) (domain.Session, error) {
	value, ok := s.session.Load(token)
	if !ok {
		return domain.Session{}, ports.ErrSessionNotFound
	}
	session := value.(domain.Session)
	if session.ExpiredAt(now) {
		return domain.Session{}, ports.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.session.Delete(token)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	s.session.Range(func(key, value any) bool {
		if value.(domain.Session).ExpiredAt(now) {
			s.session.Delete(key)
			n++
		}
		return true
	})
	return n, nil
}
