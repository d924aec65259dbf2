package activity

import (
	"context"
	"strconv"
	"strings"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

const actionGenerationCompleted = "generation.completed"

// Recorder is the slice of the activity service the usage log needs.
type Recorder interface {
	Record(ctx context.Context, accountID int64, action string, metadata map[string]string) error
}

// UsageRecorder writes one generation.completed activity entry per account generation.
type UsageRecorder struct {
	recorder Recorder
}

func NewUsageRecorder(recorder Recorder) *UsageRecorder {
	return &UsageRecorder{recorder: recorder}
}

func (u *UsageRecorder) RecordUsage(ctx context.Context, event ports.UsageEvent) error {
	return u.recorder.Record(ctx, event.AccountID, actionGenerationCompleted, map[string]string{
		"category":  event.Category,
		"language":  event.Language,
		"keywords":  strings.Join(event.Keywords, ","),
		"fromCache": strconv.FormatBool(event.FromCache),
	})
}

var _ ports.UsageRecorder = (*UsageRecorder)(nil)
