package namegenserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	generationhttpmapper "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/http/mapper"
	generationports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

func TestGenerateNames_GuestEchoesUpdatedCount(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{
		HeaderGuestToken:       "guest-1",
		HeaderGuestGenerations: "2",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get(HeaderGuestGenerations))
	var resp generationhttpmapper.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Lumen", "Vesta", "Orbit"}, resp.Names)
}

func TestGenerateNames_MissingHeaderCountsAsZero(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{HeaderGuestToken: "guest-1"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get(HeaderGuestGenerations))
}

func TestGenerateNames_GuestWithoutToken(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "GUEST_TOKEN_MISSING", decodeProblem(t, rec).Code)
	assert.Zero(t, h.generator.calls.Load())
}

func TestGenerateNames_MissingTokenWinsOverBadCount(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{HeaderGuestGenerations: "abc"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "GUEST_TOKEN_MISSING", decodeProblem(t, rec).Code)
	assert.Zero(t, h.generator.calls.Load())
}

func TestGenerateNames_GuestLimitReached(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{
		HeaderGuestToken:       "guest-1",
		HeaderGuestGenerations: "5",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "GUEST_LIMIT_REACHED", decodeProblem(t, rec).Code)
	assert.Empty(t, rec.Header().Get(HeaderGuestGenerations))
	assert.Zero(t, h.generator.calls.Load())
}

func TestGenerateNames_InvalidGuestCount(t *testing.T) {
	h := newHarness(t)

	for _, raw := range []string{"abc", "-1", "1.5"} {
		rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{
			HeaderGuestToken:       "guest-1",
			HeaderGuestGenerations: raw,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Equal(t, "INVALID_GUEST_COUNT", decodeProblem(t, rec).Code)
	}
	assert.Zero(t, h.generator.calls.Load())
}

func TestGenerateNames_ValidationFailsBeforeGate(t *testing.T) {
	h := newHarness(t)

	body := map[string]any{"keywords": []string{}, "category": "ecommerce", "language": "en"}
	rec := h.do(t, http.MethodPost, "/api/generate-names", body, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeProblem(t, rec).Code)
}

func TestGenerateNames_LanguageIsRequired(t *testing.T) {
	h := newHarness(t)

	body := map[string]any{"keywords": []string{"bright", "future", "nest"}, "category": "ecommerce"}
	rec := h.do(t, http.MethodPost, "/api/generate-names", body, map[string]string{HeaderGuestToken: "guest-1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeProblem(t, rec).Code)
	assert.Zero(t, h.generator.calls.Load())
}

func TestGenerateNames_FreeAccountRunsOutOfCredits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.settings.Update(ctx, 0, "free_user_limit", 1)
	require.NoError(t, err)
	token := h.register(t, "ada@example.com")

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get(HeaderGuestGenerations))

	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UPGRADE_REQUIRED", decodeProblem(t, rec).Code)

	entries, err := h.activity.List(ctx, 0)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "generation.completed")
}

func TestGenerateNames_UpstreamFailureRefundsCredit(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "ada@example.com")
	h.generator.err = generationports.ErrUpstreamUnavailable

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, "GENERATION_FAILED", problem.Code)
	assert.NotContains(t, rec.Body.String(), "upstream unavailable")

	me := h.do(t, http.MethodGet, "/api/auth/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, me.Code)
	var profile struct {
		Credits int `json:"credits"`
	}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &profile))
	assert.Equal(t, 10, profile.Credits)
}

func TestGenerateNames_CooldownSetsRetryAfter(t *testing.T) {
	h := newHarness(t)
	_, err := h.settings.Update(context.Background(), 0, "generation_cooldown", 30)
	require.NoError(t, err)
	headers := map[string]string{HeaderGuestToken: "guest-1"}

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, headers)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "COOLDOWN_ACTIVE", decodeProblem(t, rec).Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestGenerateNames_FailedGenerationDoesNotStartCooldown(t *testing.T) {
	h := newHarness(t)
	_, err := h.settings.Update(context.Background(), 0, "generation_cooldown", 30)
	require.NoError(t, err)
	token := h.register(t, "ada@example.com")
	h.generator.err = generationports.ErrUpstreamUnavailable

	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	h.generator.err = nil
	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(token))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "COOLDOWN_ACTIVE", decodeProblem(t, rec).Code)
}

func TestListBrandNames_NewestFirstWithLimit(t *testing.T) {
	h := newHarness(t)
	for _, category := range []string{"ecommerce", "saas", "fintech"} {
		body := map[string]any{"keywords": []string{"nest", "bright", "coin"}, "category": category, "language": "en"}
		rec := h.do(t, http.MethodPost, "/api/generate-names", body, map[string]string{HeaderGuestToken: "guest-1"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := h.do(t, http.MethodGet, "/api/brand-names?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []generationhttpmapper.BrandName
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "fintech", records[0].Category)
	assert.Equal(t, "saas", records[1].Category)

	rec = h.do(t, http.MethodGet, "/api/brand-names?limit=-3", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories_Turkish(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/categories?language=tr&q=ticaret", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var categories []generationhttpmapper.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.NotEmpty(t, categories)
	assert.Equal(t, "ecommerce", categories[0].ID)
	assert.Equal(t, "E-Ticaret ve Online İşletme", categories[0].Name)
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	rec = h.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
