package namegenserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	activitymemory "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/adapters/memory"
	activityapp "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/application"
	adminapp "github.com/Apurer/go-gin-namegen-server/internal/domains/admin/application"
	entactivity "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/activity"
	entmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/memory"
	entapp "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/application"
	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/workflows"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	generationports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	settingsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/adapters/memory"
	settingsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/application"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
	apierrors "github.com/Apurer/go-gin-namegen-server/internal/shared/errors"
)

type stubGenerator struct {
	calls atomic.Int32
	reply string
	err   error
}

func (g *stubGenerator) Provider() string { return "stub" }

func (g *stubGenerator) Complete(context.Context, generationports.CompletionRequest) (string, error) {
	g.calls.Add(1)
	if g.err != nil {
		return "", g.err
	}
	if g.reply != "" {
		return g.reply, nil
	}
	return `{"names":["Lumen","Vesta","Orbit"]}`, nil
}

type harness struct {
	router    *gin.Engine
	generator *stubGenerator
	accounts  *accountsapp.Service
	credits   *entmemory.CreditStore
	settings  *settingsapp.Service
	activity  *activityapp.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{generator: &stubGenerator{}, credits: entmemory.NewCreditStore()}
	h.activity = activityapp.NewService(activitymemory.NewRepository())
	settingsRepo := settingsmemory.NewRepository()
	provider := settingsapp.NewProvider(settingsRepo)
	h.settings = settingsapp.NewService(settingsRepo, provider, settingsapp.WithActivityRecorder(h.activity))

	accountRepo := accountsmemory.NewRepository()
	h.accounts = accountsapp.NewService(
		accountRepo,
		accountsmemory.NewSubscriptionRepository(),
		accountsmemory.NewSessionStore(),
		h.credits,
		accountsapp.WithLimits(provider),
		accountsapp.WithActivityRecorder(h.activity),
	)

	gate := entapp.NewGate(h.credits, entapp.NewClientCounterPolicy(), provider,
		entapp.WithCooldowns(entmemory.NewCooldowns()),
		entapp.WithUsageRecorder(entactivity.NewUsageRecorder(h.activity)),
	)
	history := genmemory.NewHistoryRepository()
	generation := generationapp.NewService(
		gate,
		genmemory.NewCache(genmemory.DefaultCacheTTL, genmemory.DefaultCacheCapacity),
		workflows.NewInlineGeneration(generationapp.NewPipeline(h.generator, history)),
		history,
		generationapp.WithNameCount(3),
	)
	admin := adminapp.NewService(accountRepo, history, h.activity, h.settings)

	h.router = NewRouter(ApiHandleFunctions{
		GenerationAPI: NewGenerationAPI(generation),
		AuthAPI:       NewAuthAPI(h.accounts),
		AdminAPI:      NewAdminAPI(admin, h.accounts),
		Middleware:    NewMiddleware(h.accounts, nil),
		Metrics:       metrics.New().Handler(),
	})
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T, email string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	return session.Token
}

func (h *harness) register(t *testing.T, email string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": "password123"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return h.login(t, email)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

var generateBody = map[string]any{
	"keywords": []string{"bright", "future", "nest"},
	"category": "ecommerce.shopify",
	"language": "en",
}
