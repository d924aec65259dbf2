package ports

import "context"

// Limits supplies the number of credits granted at registration.
type Limits interface {
	FreeUserLimit(ctx context.Context) int
}

// ActivityRecorder appends account lifecycle events to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, accountID int64, action string, metadata map[string]string) error
}

// NoopActivityRecorder drops events.
var NoopActivityRecorder ActivityRecorder = noopActivityRecorder{}

type noopActivityRecorder struct{}

func (noopActivityRecorder) Record(context.Context, int64, string, map[string]string) error {
	return nil
}
