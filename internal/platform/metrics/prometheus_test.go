package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CountsAndServes(t *testing.T) {
	r := New()
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)
	r.GateDecision("guest", "deny", "GUEST_LIMIT_REACHED")

	require.Equal(t, float64(1), testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	require.Equal(t, float64(2), testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `namegen_gate_decisions_total{identity="guest",outcome="deny",reason="GUEST_LIMIT_REACHED"} 1`)
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	r.CacheLookup(true)
	r.Generation("ok")
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
