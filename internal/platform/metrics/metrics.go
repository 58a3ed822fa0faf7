package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Services accept
// a nil *Metrics and skip recording, so unit tests never touch the global
// registry.
type Metrics struct {
	Lookups                *prometheus.CounterVec
	NormalizeDuration      prometheus.Histogram
	PartyFetchDegradations prometheus.Counter
	CacheHits              *prometheus.CounterVec
	CacheMisses            *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelview_lookups_total",
			Help: "Property lookups by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		NormalizeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "parcelview_normalize_duration_seconds",
			Help:    "Wall time of transaction normalization including upstream fetches",
			Buckets: prometheus.DefBuckets,
		}),
		PartyFetchDegradations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parcelview_party_fetch_degradations_total",
			Help: "Party fetch failures absorbed as Unknown-party transactions",
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelview_cache_hits_total",
			Help: "Fetch cache hits by record kind",
		}, []string{"kind"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelview_cache_misses_total",
			Help: "Fetch cache misses by record kind",
		}, []string{"kind"}),
	}
}

// RecordLookup counts one lookup for an endpoint with the given outcome.
func (m *Metrics) RecordLookup(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveNormalize records the duration of one normalization pass.
func (m *Metrics) ObserveNormalize(d time.Duration) {
	if m == nil {
		return
	}
	m.NormalizeDuration.Observe(d.Seconds())
}

// RecordPartyFetchDegradation counts one absorbed party-fetch failure.
func (m *Metrics) RecordPartyFetchDegradation() {
	if m == nil {
		return
	}
	m.PartyFetchDegradations.Inc()
}

// RecordCacheHit counts a cache hit for a record kind.
func (m *Metrics) RecordCacheHit(kind string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss counts a cache miss for a record kind.
func (m *Metrics) RecordCacheMiss(kind string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(kind).Inc()
}
