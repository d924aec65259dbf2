package ports

import (
	"context"
	"errors"
)

var (
	// ErrUpstreamUnavailable marks transport-level upstream failures that are worth retrying.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamRejected marks requests the provider refused outright; retrying cannot help.
	ErrUpstreamRejected = errors.New("upstream rejected request")
)

// CompletionRequest is the provider-neutral prompt sent to an LLM.
type CompletionRequest struct {
	System string
	Prompt string
}

// NameGenerator calls a third-party LLM and returns its raw text response.
type NameGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}
