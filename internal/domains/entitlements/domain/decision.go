package domain

import (
	"errors"
	"fmt"
	"time"
)

// Reason is a machine-readable denial code returned to clients.
type Reason string

const (
	ReasonGuestTokenMissing Reason = "GUEST_TOKEN_MISSING"
	ReasonGuestLimitReached Reason = "GUEST_LIMIT_REACHED"
	ReasonUpgradeRequired   Reason = "UPGRADE_REQUIRED"
	ReasonCooldownActive    Reason = "COOLDOWN_ACTIVE"
)

var (
	// ErrDenied matches every DeniedError via errors.Is.
	ErrDenied = errors.New("generation not permitted")
	// ErrInvalidCount rejects negative client-supplied guest counts.
	ErrInvalidCount = errors.New("guest generation count must be a non-negative integer")
)

// Decision is the gate outcome for one generation attempt.
type Decision struct {
	Allowed bool
	// UpdatedCount is the guest generation count to echo back; zero for accounts.
	UpdatedCount int
	Reason       Reason
	// RetryAfter is set for cooldown denials.
	RetryAfter time.Duration
	// Consumed reports whether a credit or ledger slot was reserved and must be released on failure.
	Consumed bool
	// CooldownStarted reports whether this attempt opened a cooldown window that must be cancelled on failure.
	CooldownStarted bool
}

// Allow builds an allowing decision.
func Allow(updatedCount int, consumed bool) Decision {
	return Decision{Allowed: true, UpdatedCount: updatedCount, Consumed: consumed}
}

// Deny builds a denying decision.
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into a DeniedError; allowed decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason, RetryAfter: d.RetryAfter}
}

// DeniedError carries the denial reason through error returns.
type DeniedError struct {
	Reason     Reason
	RetryAfter time.Duration
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDenied.Error(), e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}
