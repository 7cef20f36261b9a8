package collector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/model"
)

var fixtureCloses = []float64{
	100, 102, 101, 105, 107, 106, 108, 110, 109, 111,
	115, 114, 113, 116, 118, 117, 119, 121, 120, 122,
	125, 124, 126, 128, 127,
}

func fixtureBars(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	d := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // Monday
	for i, c := range closes {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		bars[i] = model.OHLCV{Time: d, Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

func newTestCollector(f Fetcher) *Collector {
	return NewCollector(f, testSymbols(), DefaultOptions, nil, arbor.NewLogger())
}

// referenceRSI recomputes RSI14 of the last bar by hand.
func referenceRSI(closes []float64) float64 {
	var gain, loss float64
	for i := len(closes) - 14; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	return 100 - 100/(1+(gain/14)/(loss/14))
}

func TestCollector_BuildEndToEnd(t *testing.T) {
	mock := &MockFetcher{
		Bars: map[string][]model.OHLCV{"2330.TW": fixtureBars(fixtureCloses)},
		Dividends: map[string][]model.DividendPayment{"2330.TW": {
			{Date: time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC), Amount: 2.75},
			{Date: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), Amount: 3},
			{Date: time.Date(2023, 9, 14, 0, 0, 0, 0, time.UTC), Amount: 3},
			{Date: time.Date(2023, 12, 14, 0, 0, 0, 0, time.UTC), Amount: 3.5},
			{Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Amount: 3.5},
		}},
	}

	dash, err := newTestCollector(mock).Build(context.Background(), "2330")
	require.NoError(t, err)

	assert.Equal(t, "2330.TW", dash.Symbol)
	assert.Equal(t, "2330 台積電", dash.Title())

	require.NotNil(t, dash.Quote)
	assert.Equal(t, 127.0, dash.Quote.Close)
	assert.Equal(t, -1.0, dash.Quote.Change)

	require.NotNil(t, dash.Indicators)
	require.True(t, dash.Indicators.LatestRSI.Valid)
	assert.InDelta(t, referenceRSI(fixtureCloses), dash.Indicators.LatestRSI.Value, 1e-9)
	sum := 0.0
	for _, c := range fixtureCloses[5:] {
		sum += c
	}
	require.True(t, dash.Indicators.LatestMA.Valid)
	assert.InDelta(t, sum/20, dash.Indicators.LatestMA.Value, 1e-9)

	require.NotNil(t, dash.Projection)
	assert.Equal(t, model.TrendUp, dash.Projection.Trend)
	assert.Len(t, dash.Projection.Points, 5)
	assert.Greater(t, dash.Projection.Slope, 0.0)

	// last four payments: 3 + 3 + 3.5 + 3.5
	assert.InDelta(t, 13.0, dash.Dividends.TrailingSum, 1e-9)
	assert.InDelta(t, 13.0/127*100, dash.Dividends.YieldPct, 1e-9)

	require.NotNil(t, dash.Range)
	assert.Equal(t, 129.0, dash.Range.High)
	assert.Equal(t, 99.0, dash.Range.Low)
}

func TestCollector_ShortHistoryOmitsIndicators(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"2330.TW": fixtureBars(fixtureCloses[:10])}}

	dash, err := newTestCollector(mock).Build(context.Background(), "2330")
	require.NoError(t, err)
	assert.NotNil(t, dash.Quote)
	assert.Nil(t, dash.Indicators)
	assert.Nil(t, dash.Projection)
	assert.Zero(t, dash.Dividends.TrailingSum)
}

func TestCollector_ForecastNeedsMoreThanFitWindow(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"2330.TW": fixtureBars(fixtureCloses[:20])}}

	dash, err := newTestCollector(mock).Build(context.Background(), "2330")
	require.NoError(t, err)
	require.NotNil(t, dash.Indicators)
	assert.True(t, dash.Indicators.LatestMA.Valid)
	assert.Nil(t, dash.Projection)
}

func TestCollector_DividendFailureDegrades(t *testing.T) {
	mock := &MockFetcher{
		Bars:   map[string][]model.OHLCV{"2330.TW": fixtureBars(fixtureCloses)},
		DivErr: errors.New("timeout"),
	}
	dash, err := newTestCollector(mock).Build(context.Background(), "2330")
	require.NoError(t, err)
	assert.Equal(t, model.DividendSummary{}, dash.Dividends)
}

func TestCollector_UnknownCodeFallsBackToOTC(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"6488.TWO": fixtureBars(fixtureCloses)}}

	dash, err := newTestCollector(mock).Build(context.Background(), "6488")
	require.NoError(t, err)
	assert.Equal(t, "6488.TWO", dash.Symbol)
	assert.Equal(t, "6488", dash.Title())
	assert.Equal(t, 2, mock.Calls)
}

func TestCollector_Errors(t *testing.T) {
	t.Run("unknown symbol", func(t *testing.T) {
		mock := &MockFetcher{Bars: map[string][]model.OHLCV{}}
		_, err := newTestCollector(mock).Build(context.Background(), "9999")
		assert.True(t, errors.Is(err, model.ErrInvalidSymbol), "got %v", err)
	})

	t.Run("known symbol, network error", func(t *testing.T) {
		mock := &MockFetcher{BarsErr: errors.New("connection refused")}
		_, err := newTestCollector(mock).Build(context.Background(), "2330")
		assert.True(t, errors.Is(err, model.ErrDataUnavailable), "got %v", err)
		assert.False(t, errors.Is(err, model.ErrInvalidSymbol))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := newTestCollector(&MockFetcher{}).Build(context.Background(), "  ")
		assert.True(t, errors.Is(err, model.ErrInvalidSymbol))
	})
}

func TestCollector_MockGeneratorIsUsable(t *testing.T) {
	dash, err := newTestCollector(&MockFetcher{Price: 600, Days: 60}).Build(context.Background(), "2330")
	require.NoError(t, err)
	assert.Len(t, dash.Series.Bars, 60)
	require.NotNil(t, dash.Indicators)
	v := dash.Indicators.LatestRSI.Value
	assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
}
