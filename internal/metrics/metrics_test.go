package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.Render(CacheHit)
	m.Render(CacheHit)
	m.Render(CacheMiss)
	m.Search(3)
	m.Indexed(12)

	if got := testutil.ToFloat64(m.renders.WithLabelValues(CacheHit)); got != 2 {
		t.Errorf("hit renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues(CacheMiss)); got != 1 {
		t.Errorf("miss renders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.searches); got != 1 {
		t.Errorf("searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.postsIndexed); got != 12 {
		t.Errorf("posts indexed = %v, want 12", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Render(CacheNone)
	m.Search(1)
	m.Indexed(1)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Search(0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"postpilot_searches_total 1", "postpilot_search_results_bucket", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %q", name)
		}
	}
}
