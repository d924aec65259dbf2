package namegenserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounthttpmapper "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/http/mapper"
)

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.accounts.EnsureAdmin(context.Background(), "root@example.com", "password123"))
	return h.login(t, "root@example.com")
}

func TestAdminRoutes_Guarded(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "ada@example.com")

	rec := h.do(t, http.MethodGet, "/api/admin/settings", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeProblem(t, rec).Code)

	rec = h.do(t, http.MethodGet, "/api/admin/statistics", nil, bearer(user))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ADMIN_REQUIRED", decodeProblem(t, rec).Code)
}

func TestAdminSettings_ListAndUpdate(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)

	rec := h.do(t, http.MethodGet, "/api/admin/settings", nil, bearer(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var settings []Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	values := map[string]int{}
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	assert.Equal(t, map[string]int{"guest_limit": 5, "free_user_limit": 10, "generation_cooldown": 0}, values)

	rec = h.do(t, http.MethodPost, "/api/admin/settings", map[string]any{"key": "guest_limit", "value": "2"}, bearer(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, 2, saved.Value)

	// The new limit applies to the very next guest request.
	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, map[string]string{
		HeaderGuestToken:       "guest-1",
		HeaderGuestGenerations: "2",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "GUEST_LIMIT_REACHED", decodeProblem(t, rec).Code)
}

func TestAdminSettings_RejectsUnknownKeyAndNegativeValue(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)

	rec := h.do(t, http.MethodPost, "/api/admin/settings", map[string]any{"key": "max_users", "value": 3}, bearer(admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeProblem(t, rec).Code)

	rec = h.do(t, http.MethodPost, "/api/admin/settings", map[string]any{"key": "guest_limit", "value": -1}, bearer(admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminStatisticsAndActivity(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	user := h.register(t, "ada@example.com")
	rec := h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(user))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/admin/statistics", nil, bearer(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalGenerations)
	assert.GreaterOrEqual(t, stats.ActiveUsers, int64(1))

	rec = h.do(t, http.MethodGet, "/api/admin/activity?limit=1", nil, bearer(admin))
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []ActivityLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "generation.completed", logs[0].Action)
	assert.Equal(t, "ecommerce.shopify", logs[0].Metadata["category"])
}

func TestAdminActivatePremium(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	user := h.register(t, "ada@example.com")
	me := h.do(t, http.MethodGet, "/api/auth/me", nil, bearer(user))
	var account accounthttpmapper.Account
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &account))

	path := fmt.Sprintf("/api/admin/accounts/%d/premium", account.ID)
	rec := h.do(t, http.MethodPost, path, map[string]int{"days": 30}, bearer(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var upgraded accounthttpmapper.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upgraded))
	assert.Equal(t, "premium", upgraded.Tier)
	require.NotNil(t, upgraded.PremiumUntil)

	// Premium generations leave the credit balance untouched.
	rec = h.do(t, http.MethodPost, "/api/generate-names", generateBody, bearer(user))
	require.Equal(t, http.StatusOK, rec.Code)
	me = h.do(t, http.MethodGet, "/api/auth/me", nil, bearer(user))
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &account))
	assert.Equal(t, 10, account.Credits)

	rec = h.do(t, http.MethodPost, "/api/admin/accounts/9999/premium", nil, bearer(admin))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", decodeProblem(t, rec).Code)
}
