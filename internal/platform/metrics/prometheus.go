// Package metrics exposes the Prometheus counters scraped from /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "namegen"

// Registry owns a private Prometheus registry and the counters the service reports.
// A nil *Registry is valid and records nothing.
type Registry struct {
	registry         *prometheus.Registry
	gateDecisions    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	upstreamAttempts *prometheus.CounterVec
	generations      *prometheus.CounterVec
}

// New builds a registry with Go runtime and process collectors attached.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Entitlement gate decisions by identity kind, outcome and reason.",
		}, []string{"identity", "outcome", "reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
		upstreamAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_attempts_total",
			Help:      "Upstream LLM call attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Completed generation requests by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gateDecisions,
		r.cacheLookups,
		r.upstreamAttempts,
		r.generations,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

func (r *Registry) GateDecision(identity, outcome, reason string) {
	if r == nil {
		return
	}
	r.gateDecisions.WithLabelValues(identity, outcome, reason).Inc()
}

func (r *Registry) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Registry) UpstreamAttempt(provider, outcome string) {
	if r == nil {
		return
	}
	r.upstreamAttempts.WithLabelValues(provider, outcome).Inc()
}

func (r *Registry) Generation(outcome string) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(outcome).Inc()
}
