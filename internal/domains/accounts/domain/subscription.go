package domain

import "time"

// Subscription grants the premium tier while active and unexpired.
type Subscription struct {
	ID        int64
	AccountID int64
	Active    bool
	// ExpiresAt is nil for open-ended subscriptions.
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// EffectiveAt reports whether the subscription confers premium at now.
func (s Subscription) EffectiveAt(now time.Time) bool {
	if !s.Active {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
