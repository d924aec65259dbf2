package ports

import "context"

// UsageEvent describes one successful account generation.
type UsageEvent struct {
	AccountID int64
	Category  string
	Language  string
	Keywords  []string
	FromCache bool
}

// UsageRecorder appends durable usage events.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, event UsageEvent) error
}

// NoopUsageRecorder drops events; used when no activity log is wired.
var NoopUsageRecorder UsageRecorder = noopUsageRecorder{}

type noopUsageRecorder struct{}

func (noopUsageRecorder) RecordUsage(context.Context, UsageEvent) error { return nil }
