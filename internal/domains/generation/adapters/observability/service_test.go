package observability

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
)

type stubService struct {
	err error
}

func (s stubService) Generate(context.Context, entdomain.Identity, int, types.GenerateInput) (*types.GenerateResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.GenerateResult{Record: &types.GenerationRecord{Entity: &domain.Generation{Names: []string{"A"}}}}, nil
}

func (stubService) History(context.Context, int) ([]*types.GenerationRecord, error) { return nil, nil }

func (stubService) Categories(context.Context, string, string) ([]domain.Category, error) {
	return nil, nil
}

func TestService_LogsRawUpstreamPayloadOnContentErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	reg := metrics.New()
	contentErr := &application.ContentError{Kind: application.ErrParse, Raw: "I'm sorry, I can't"}
	svc := New(stubService{err: fmt.Errorf("%w: %w", application.ErrGenerationFailed, contentErr)}, WithLogger(logger), WithMetrics(reg))

	_, err := svc.Generate(context.Background(), entdomain.Guest("g"), 0, types.GenerateInput{})
	require.ErrorIs(t, err, application.ErrGenerationFailed)
	require.Contains(t, buf.String(), `"upstream.raw":"I'm sorry, I can't"`)
	require.Contains(t, buf.String(), `"outcome":"upstream_error"`)
}

func TestService_DenialsAreNotLoggedAsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
	denied := entdomain.Deny(entdomain.ReasonGuestLimitReached).Err()
	svc := New(stubService{err: denied}, WithLogger(logger))

	_, err := svc.Generate(context.Background(), entdomain.Guest("g"), 5, types.GenerateInput{})
	require.ErrorIs(t, err, entdomain.ErrDenied)
	require.Empty(t, buf.String())
}

func TestCache_CountsHitsAndMisses(t *testing.T) {
	reg := metrics.New()
	cache := NewCache(genmemory.NewCache(0, 0), reg)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.Put(ctx, "k", []string{"A"}))
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	expected := `
# HELP namegen_cache_lookups_total Response cache lookups by result.
# TYPE namegen_cache_lookups_total counter
namegen_cache_lookups_total{result="hit"} 1
namegen_cache_lookups_total{result="miss"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg.Gatherer(), strings.NewReader(expected), "namegen_cache_lookups_total"))
}
