package web

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TWStockDesk/internal/calculator"
	"TWStockDesk/internal/model"
)

func TestBuildChart_Traces(t *testing.T) {
	bars := risingBars(25)
	snap, err := calculator.ComputeIndicators(bars, calculator.DefaultIndicatorParams)
	require.NoError(t, err)
	proj, ok := calculator.Forecast(bars, calculator.DefaultFitWindow, calculator.DefaultHorizon)
	require.True(t, ok)

	fig := buildChart(&model.Dashboard{
		Series:     &model.PriceSeries{Bars: bars},
		Indicators: snap,
		Projection: proj,
	})
	require.Len(t, fig.Data, 3)

	candles, ma, forecast := fig.Data[0], fig.Data[1], fig.Data[2]
	assert.Equal(t, "candlestick", candles.Type)
	assert.Len(t, candles.X, 25)
	assert.Equal(t, "月線", ma.Name)
	assert.Equal(t, "orange", ma.Line.Color)
	assert.Equal(t, "dot", forecast.Line.Dash)
	assert.Equal(t, "yellow", forecast.Line.Color)

	// forecast starts at the last close and adds five business days
	require.Len(t, forecast.X, 6)
	assert.Equal(t, candles.X[24], forecast.X[0])
	assert.Equal(t, bars[24].Close, forecast.Y.([]float64)[0])

	b, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `{"data":[{"type":"candlestick"`))
	assert.Contains(t, string(b), `"y":[null,`, "MA warm-up values are null")
}

func TestChartJS_EmptySeries(t *testing.T) {
	js, err := chartJS(&model.Dashboard{Series: &model.PriceSeries{}})
	require.NoError(t, err)
	assert.Empty(t, js)

	js, err = chartJS(nil)
	require.NoError(t, err)
	assert.Empty(t, js)
}

func TestTemplateFuncs(t *testing.T) {
	f1 := templateFuncs["f1"].(func(float64) string)
	f2 := templateFuncs["f2"].(func(float64) string)
	color := templateFuncs["changeColor"].(func(float64) string)

	assert.Equal(t, "593.0", f1(593))
	assert.Equal(t, "2.46", f2(2.456))
	assert.Equal(t, "red", color(1))
	assert.Equal(t, "green", color(-1))
	assert.Equal(t, "green", color(0))
}
