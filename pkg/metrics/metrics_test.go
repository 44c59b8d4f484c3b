package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounterGetOrCreate(t *testing.T) {
	r := New()
	c := r.Counter("stores_total", "Store operations.")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Fatalf("value = %d, want 5", c.Value())
	}
	if r.Counter("stores_total", "") != c {
		t.Fatal("second lookup returned a different counter")
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("inflight", "")
	g.Set(3)
	g.Inc()
	g.Dec()
	g.Dec()
	if g.Value() != 2 {
		t.Fatalf("value = %d, want 2", g.Value())
	}
}

func TestHistogramBuckets(t *testing.T) {
	r := New()
	h := r.Histogram("match_duration_seconds", "", []float64{0.1, 0.5, 1.0})
	for _, v := range []float64{0.05, 0.3, 0.9, 4.0} {
		h.Observe(v)
	}

	bounds, counts, sum, total := h.snapshot()
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
	if len(bounds) != 3 {
		t.Fatalf("bounds = %v", bounds)
	}
	want := []uint64{1, 1, 1} // 4.0 exceeds every bound
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
	if sum != 0.05+0.3+0.9+4.0 {
		t.Fatalf("sum = %f", sum)
	}
}

func TestHistogramSince(t *testing.T) {
	r := New()
	h := r.Histogram("latency_seconds", "", nil)
	h.Since(time.Now().Add(-50 * time.Millisecond))
	if _, _, _, total := h.snapshot(); total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}

func TestLabels(t *testing.T) {
	got := Labels("hits_total", "kind", "job", "cached", "true")
	want := `hits_total{kind="job",cached="true"}`
	if got != want {
		t.Fatalf("Labels = %q, want %q", got, want)
	}
	if Labels("plain") != "plain" {
		t.Fatal("no pairs should leave the name unchanged")
	}
	if Labels("odd", "k") != "odd" {
		t.Fatal("odd pair count should leave the name unchanged")
	}
}

func TestBaseName(t *testing.T) {
	if baseName(`hits_total{kind="job"}`) != "hits_total" {
		t.Fatal("labels not stripped")
	}
	if baseName("hits_total") != "hits_total" {
		t.Fatal("plain name changed")
	}
}

func TestRender(t *testing.T) {
	r := New()
	r.Counter("requests_total", "Total requests.").Add(10)
	r.Counter(Labels("requests_total", "method", "GET"), "").Add(7)
	r.Gauge("active", "Active requests.").Set(2)
	h := r.Histogram("duration_seconds", "Latency.", []float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.7)

	out := r.Render()

	for _, line := range []string{
		"# HELP requests_total Total requests.",
		"# TYPE requests_total counter",
		"requests_total 10",
		`requests_total{method="GET"} 7`,
		"# TYPE active gauge",
		"active 2",
		"# TYPE duration_seconds histogram",
		`duration_seconds_bucket{le="0.1"} 1`,
		`duration_seconds_bucket{le="1"} 2`,
		`duration_seconds_bucket{le="+Inf"} 2`,
		"duration_seconds_count 2",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("render missing %q:\n%s", line, out)
		}
	}
}

func TestRenderLabeledHistogram(t *testing.T) {
	r := New()
	h := r.Histogram(Labels("op_seconds", "op", "embed"), "", []float64{1})
	h.Observe(0.5)

	out := r.Render()
	if !strings.Contains(out, `op_seconds_bucket{op="embed",le="1"} 1`) {
		t.Fatalf("labeled bucket missing:\n%s", out)
	}
	if !strings.Contains(out, `op_seconds_count{op="embed"} 1`) {
		t.Fatalf("labeled count missing:\n%s", out)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("probe_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "probe_total 1") {
		t.Fatalf("body missing metric:\n%s", rec.Body)
	}
}
