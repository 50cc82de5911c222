// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locname

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback reasons as reported by the fallbacks metric
const (
	reasonInvalidCoordinates = "invalid_coordinates"
	reasonNoResults          = "no_results"
	reasonNoComponent        = "no_component"
	reasonProviderStatus     = "provider_status"
	reasonHTTPStatus         = "http_status"
	reasonTimeout            = "timeout"
	reasonCanceled           = "canceled"
	reasonRateLimited        = "rate_limited"
	reasonRequestFailed      = "request_failed"
)

// Metrics holds the resolver's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	fallbacks *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates the resolver collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "placename_resolver_cache_hits_total",
			Help: "Number of place name lookups served from the cache",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "placename_resolver_cache_misses_total",
			Help: "Number of place name lookups not found in the cache",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "placename_resolver_cache_evictions_total",
			Help: "Number of stale cache entries removed by sweeps",
		}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "placename_resolver_fallbacks_total",
			Help: "Number of lookups answered with the fallback name, by reason",
		}, []string{"reason"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "placename_resolver_lookup_duration_seconds",
			Help:    "Duration of reverse geocoding requests in seconds",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) evicted(n int) {
	if m != nil && n > 0 {
		m.evictions.Add(float64(n))
	}
}

func (m *Metrics) fallback(reason string) {
	if m != nil {
		m.fallbacks.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) observe(d time.Duration) {
	if m != nil {
		m.duration.Observe(d.Seconds())
	}
}
