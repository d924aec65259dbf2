package domain

import (
	"errors"
	"strings"
	"time"
)

// Well-known actions.
const (
	ActionAccountRegistered   = "account.registered"
	ActionGenerationCompleted = "generation.completed"
	ActionSettingsUpdated     = "settings.updated"
)

var ErrEmptyAction = errors.New("activity action is required")

// Entry is one append-only activity log row. AccountID is nil for system events.
type Entry struct {
	ID        int64
	AccountID *int64
	Action    string
	Metadata  map[string]string
	CreatedAt time.Time
}

func NewEntry(accountID int64, action string, metadata map[string]string) (*Entry, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrEmptyAction
	}
	entry := &Entry{Action: action, Metadata: map[string]string{}}
	if accountID > 0 {
		id := accountID
		entry.AccountID = &id
	}
	for k, v := range metadata {
		entry.Metadata[k] = v
	}
	return entry, nil
}
