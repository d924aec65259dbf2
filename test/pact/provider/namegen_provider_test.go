//go:build pact
// +build pact

package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	pacttest "github.com/Apurer/go-gin-namegen-server/test/pact"

	namegenserver "github.com/Apurer/go-gin-namegen-server/go"
	accountsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	activitymemory "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/adapters/memory"
	activityapp "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/application"
	adminapp "github.com/Apurer/go-gin-namegen-server/internal/domains/admin/application"
	entmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/memory"
	entobs "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/observability"
	entapp "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/application"
	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	genobs "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/observability"
	genworkflows "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/workflows"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	generationports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	settingsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/adapters/memory"
	settingsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

type cannedGenerator struct{}

func (cannedGenerator) Provider() string { return "pact" }

func (cannedGenerator) Complete(context.Context, generationports.CompletionRequest) (string, error) {
	raw, err := json.Marshal(map[string][]string{"names": pacttest.ExampleNames})
	return string(raw), err
}

func TestNamegenProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	var app *contractProviderApp
	reset := func() { app = newContractProviderApp(t, app) }
	reset()

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateGuestBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			reset()
			return nil, nil
		},
		pacttest.StateCatalog: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

// contractProviderApp serves the real router over in-memory adapters and a canned upstream.
// The HTTP server is kept across resets so the verifier's base URL stays valid.
type contractProviderApp struct {
	server  *httptest.Server
	handler *swappableHandler
}

type swappableHandler struct {
	engine atomic.Pointer[gin.Engine]
}

func (h *swappableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.Load().ServeHTTP(w, r)
}

func newContractProviderApp(t testing.TB, previous *contractProviderApp) *contractProviderApp {
	t.Helper()

	activity := activityapp.NewService(activitymemory.NewRepository())
	settingsRepo := settingsmemory.NewRepository()
	provider := settingsapp.NewProvider(settingsRepo)
	settings := settingsapp.NewService(settingsRepo, provider)
	credits := entmemory.NewCreditStore()
	accountRepo := accountsmemory.NewRepository()
	accounts := accountsapp.NewService(accountRepo, accountsmemory.NewSubscriptionRepository(), accountsmemory.NewSessionStore(), credits,
		accountsapp.WithLimits(provider),
		accountsapp.WithActivityRecorder(activity),
	)
	gate := entobs.New(entapp.NewGate(credits, entapp.NewClientCounterPolicy(), provider))
	history := genmemory.NewHistoryRepository()
	generation := genobs.New(generationapp.NewService(
		gate,
		genmemory.NewCache(genmemory.DefaultCacheTTL, genmemory.DefaultCacheCapacity),
		genworkflows.NewInlineGeneration(generationapp.NewPipeline(cannedGenerator{}, history)),
		history,
		generationapp.WithNameCount(len(pacttest.ExampleNames)),
	))

	handlers := namegenserver.ApiHandleFunctions{
		GenerationAPI: namegenserver.NewGenerationAPI(generation),
		AuthAPI:       namegenserver.NewAuthAPI(accounts),
		AdminAPI:      namegenserver.NewAdminAPI(adminapp.NewService(accountRepo, history, activity, settings), accounts),
		Middleware:    namegenserver.NewMiddleware(accounts, nil),
	}
	engine := namegenserver.NewRouter(handlers)

	if previous != nil {
		previous.handler.engine.Store(engine)
		return previous
	}
	handler := &swappableHandler{}
	handler.engine.Store(engine)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &contractProviderApp{server: server, handler: handler}
}
