// Package metrics exposes Prometheus collectors for rendering and search.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache outcomes recorded by Render.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheNone = "none"
)

// Metrics holds the blog collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	renders       *prometheus.CounterVec
	searches      prometheus.Counter
	searchResults prometheus.Histogram
	postsIndexed  prometheus.Gauge
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "postpilot_renders_total",
			Help: "Post bodies rendered, by fragment cache outcome.",
		}, []string{"cache"}),
		searches: f.NewCounter(prometheus.CounterOpts{
			Name: "postpilot_searches_total",
			Help: "Listing requests that carried a search query.",
		}),
		searchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "postpilot_search_results",
			Help:    "Number of posts matching a search query.",
			Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100},
		}),
		postsIndexed: f.NewGauge(prometheus.GaugeOpts{
			Name: "postpilot_posts_indexed",
			Help: "Published posts in the current snapshot.",
		}),
	}
}

// Render records one post render with the given cache outcome.
func (m *Metrics) Render(cache string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(cache).Inc()
}

// Search records a search that matched n posts.
func (m *Metrics) Search(n int) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchResults.Observe(float64(n))
}

// Indexed sets the number of posts in the snapshot.
func (m *Metrics) Indexed(n int) {
	if m == nil {
		return
	}
	m.postsIndexed.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
