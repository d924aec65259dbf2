package domain

import "errors"

var ErrNameCount = errors.New("generation must carry at least one name")

// Generation is an accepted, normalized result of one request. Stored generations are never mutated.
// IdempotencyKey makes a repeated Append return the first stored record; empty disables it.
type Generation struct {
	ID             int64
	Request        Request
	Names          []string
	FromCache      bool
	IdempotencyKey string
}

// NewGeneration binds normalized names to the request that produced them.
func NewGeneration(req Request, names []string) (*Generation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNameCount
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return &Generation{Request: req, Names: cp}, nil
}
