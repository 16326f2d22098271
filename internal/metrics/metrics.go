// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeRetried  = "retried"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	registry       *prometheus.Registry
	routeLookups   *prometheus.CounterVec
	geocodes       *prometheus.CounterVec
	storeMutations *prometheus.CounterVec
	persistWrites  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		routeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futsapp",
			Name:      "route_lookups_total",
			Help:      "Directions lookups by outcome.",
		}, []string{"outcome"}),
		geocodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futsapp",
			Name:      "geocode_lookups_total",
			Help:      "Venue address geocoding attempts by outcome.",
		}, []string{"outcome"}),
		storeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futsapp",
			Name:      "store_mutations_total",
			Help:      "Store mutations by store and operation.",
		}, []string{"store", "op"}),
		persistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futsapp",
			Name:      "persist_writes_total",
			Help:      "Background persistence writes by key and result.",
		}, []string{"key", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		m.routeLookups,
		m.geocodes,
		m.storeMutations,
		m.persistWrites,
	)
	return m
}

func (m *Metrics) RouteLookup(outcome string) {
	if m == nil {
		return
	}
	m.routeLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Geocode(outcome string) {
	if m == nil {
		return
	}
	m.geocodes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StoreMutation(store, op string) {
	if m == nil {
		return
	}
	m.storeMutations.WithLabelValues(store, op).Inc()
}

func (m *Metrics) PersistWrite(key string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistWrites.WithLabelValues(key, result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
