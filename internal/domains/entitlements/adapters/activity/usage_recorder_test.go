package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

type captured struct {
	accountID int64
	action    string
	metadata  map[string]string
}

type captureRecorder struct{ calls []captured }

func (c *captureRecorder) Record(_ context.Context, accountID int64, action string, metadata map[string]string) error {
	c.calls = append(c.calls, captured{accountID: accountID, action: action, metadata: metadata})
	return nil
}

func TestUsageRecorder_WritesGenerationCompleted(t *testing.T) {
	rec := &captureRecorder{}
	err := NewUsageRecorder(rec).RecordUsage(context.Background(), ports.UsageEvent{
		AccountID: 12,
		Category:  "finance.crypto",
		Language:  "tr",
		Keywords:  []string{"coin", "safe", "fast"},
		FromCache: true,
	})
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	call := rec.calls[0]
	require.Equal(t, int64(12), call.accountID)
	require.Equal(t, "generation.completed", call.action)
	require.Equal(t, "coin,safe,fast", call.metadata["keywords"])
	require.Equal(t, "true", call.metadata["fromCache"])
}
