package domain

import "time"

// Session binds an opaque bearer token to an account.
type Session struct {
	Token     string
	AccountID int64
	ExpiresAt time.Time
}

func (s Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
