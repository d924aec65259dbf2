package application

import "errors"

// ErrNotConfigured signals a gate collaborator was not wired.
var ErrNotConfigured = errors.New("entitlement gate not configured")
