package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("yahoo", "bars", time.Now(), nil)
	m.ObserveCache("bars", true)
	m.ObserveDashboard(time.Now(), errors.New("x"))
	m.ObserveNews(nil)
	m.ObserveHTTP("/", 200)
}

func TestObserveFetch(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("yahoo", "bars", time.Now(), nil)
	m.ObserveFetch("yahoo", "bars", time.Now(), errors.New("boom"))
	m.ObserveFetch("yahoo", "bars", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("yahoo", "bars", "ok")); got != 1 {
		t.Errorf("expected 1 ok fetch, got %.0f", got)
	}
	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("yahoo", "bars", "error")); got != 2 {
		t.Errorf("expected 2 failed fetches, got %.0f", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveCache("bars", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `twstockdesk_cache_total{kind="bars",result="miss"} 1`) {
		t.Errorf("cache counter missing from output:\n%s", rec.Body.String())
	}
}
