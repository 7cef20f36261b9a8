package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/collector"
	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/model"
	"TWStockDesk/internal/recorder"
)

func risingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, 0, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for len(bars) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			c := 100 + float64(len(bars))
			bars = append(bars, model.OHLCV{Time: d, Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

type stubNews struct{ items []model.NewsItem }

func (n stubNews) Latest(context.Context) []model.NewsItem { return n.items }

type testEnv struct {
	server  *Server
	metrics *metrics.Metrics
	rec     recorder.Recorder
}

func newTestEnv(t *testing.T, rec recorder.Recorder) *testEnv {
	t.Helper()
	logger := arbor.NewLogger()
	m := metrics.NewMetrics()
	symbols := collector.NewSymbols([]collector.Symbol{
		{Code: "2330", Name: "台積電"},
		{Code: "0050", Name: "元大台灣50"},
	}, ".TW", ".TWO")
	mock := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"2330.TW": risingBars(30),
			"0050.TW": risingBars(5),
		},
		Dividends: map[string][]model.DividendPayment{
			"2330.TW": {{Date: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), Amount: 3.5}},
		},
	}
	news := stubNews{items: []model.NewsItem{{
		Headline:  model.Headline{Title: "台積電強攻", Link: "https://example.com/a"},
		Sentiment: model.Sentiment{Kind: model.SentimentBullish, Label: "🔥 利多", Color: "#FF4B4B"},
	}}}

	srv, err := New(Deps{
		Builder:  collector.NewCollector(mock, symbols, collector.DefaultOptions, m, logger),
		News:     news,
		Symbols:  symbols,
		Recorder: rec,
		Metrics:  m,
		Logger:   logger,
	}, "127.0.0.1:0")
	require.NoError(t, err)
	return &testEnv{server: srv, metrics: m, rec: rec}
}

func (e *testEnv) get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPage_DefaultSymbol(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, body := env.get(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	assert.Contains(t, body, "📊 2330 台積電")
	assert.Contains(t, body, "收盤價")
	assert.Contains(t, body, "129.0", "latest close with one decimal")
	assert.Contains(t, body, "color:red", "rising close is red")
	assert.Contains(t, body, "3.50 元")
	assert.Contains(t, body, "📈 上升趨勢")
	assert.Contains(t, body, "未來預測軌道")
	assert.Contains(t, body, "月線")
	assert.Contains(t, body, "台積電強攻")
	assert.Contains(t, body, "🔥 利多")
	assert.NotContains(t, body, "找不到資料")
}

func TestPage_ShortHistory(t *testing.T) {
	env := newTestEnv(t, nil)
	_, body := env.get(t, "/?symbol=0050")

	assert.Contains(t, body, "📊 0050 元大台灣50")
	assert.Contains(t, body, "104.0")
	assert.NotContains(t, body, "AI 趨勢預測", "no forecast with 5 bars")
	assert.NotContains(t, body, "未來預測軌道")
}

func TestPage_CustomOverridesSelect(t *testing.T) {
	env := newTestEnv(t, nil)
	_, body := env.get(t, "/?symbol=0050&custom=2330")
	assert.Contains(t, body, "📊 2330 台積電")
}

func TestPage_NoData(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, body := env.get(t, "/?custom=9999")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "找不到資料")
	assert.Contains(t, body, `value="9999"`)
	assert.NotContains(t, body, "Plotly.newPlot")
}

func TestDashboardAPI(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.get(t, "/api/dashboard?symbol=2330")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d model.Dashboard
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, "2330.TW", d.Symbol)
	assert.Equal(t, 30, d.Series.Len())
	require.NotNil(t, d.Indicators)
	assert.False(t, d.Indicators.MA[18].Valid)
	assert.True(t, d.Indicators.MA[19].Valid)
	require.NotNil(t, d.Projection)
	assert.Len(t, d.Projection.Points, 5)
	assert.Equal(t, model.TrendUp, d.Projection.Trend)
}

func TestDashboardAPI_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.get(t, "/api/dashboard?symbol=9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "invalid symbol")

	resp, _ = env.get(t, "/api/dashboard")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewsAndSymbolsAPI(t *testing.T) {
	env := newTestEnv(t, nil)

	_, body := env.get(t, "/api/news")
	var items []model.NewsItem
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 1)
	assert.Equal(t, model.SentimentBullish, items[0].Sentiment.Kind)

	_, body = env.get(t, "/api/symbols")
	var symbols []collector.Symbol
	require.NoError(t, json.Unmarshal([]byte(body), &symbols))
	assert.Equal(t, []collector.Symbol{{Code: "2330", Name: "台積電"}, {Code: "0050", Name: "元大台灣50"}}, symbols)
}

func TestHistoryAPI(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "h.db"), arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	env := newTestEnv(t, rec)

	d, err := env.server.deps.Builder.Build(context.Background(), "2330")
	require.NoError(t, err)
	require.NoError(t, rec.RecordSnapshot(d))

	resp, body := env.get(t, "/api/history?symbol=2330")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []recorder.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2330.TW", rows[0].Symbol)
	assert.Equal(t, 129.0, rows[0].Close)

	_, body = env.get(t, "/api/history?symbol=0050")
	assert.Equal(t, "[]", strings.TrimSpace(body))

	resp, _ = env.get(t, "/api/history?symbol=2330&limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	env.get(t, "/api/dashboard?symbol=2330")
	_, body = env.get(t, "/metrics")
	assert.Contains(t, body, `twstockdesk_http_requests_total{code="200",route="healthz"} 1`)
	assert.Contains(t, body, `twstockdesk_dashboard_builds_total{result="ok"} 1`)
}

func TestRequestIDPropagated(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, _ := env.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
