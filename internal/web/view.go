package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"TWStockDesk/internal/collector"
	"TWStockDesk/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	"f1":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	// Taiwan convention: red for up, green for down.
	"changeColor": func(change float64) string {
		if change > 0 {
			return "red"
		}
		return "green"
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// pageData is the view model of the dashboard page.
type pageData struct {
	Symbols   []collector.Symbol
	Selected  string
	Custom    string
	News      []model.NewsItem
	Dashboard *model.Dashboard
	Chart     template.JS
	RequestID string
}

type plotLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash,omitempty"`
}

type plotTrace struct {
	Type  string    `json:"type"`
	Name  string    `json:"name"`
	X     []string  `json:"x"`
	Open  []float64 `json:"open,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	Close []float64 `json:"close,omitempty"`
	Y     any       `json:"y,omitempty"`
	Mode  string    `json:"mode,omitempty"`
	Line  *plotLine `json:"line,omitempty"`
}

type plotFigure struct {
	Data   []plotTrace    `json:"data"`
	Layout map[string]any `json:"layout"`
}

// buildChart lays out the candlestick, the MA line and, when present, the
// dashed forecast line anchored at the last close.
func buildChart(d *model.Dashboard) plotFigure {
	bars := d.Series.Bars
	candles := plotTrace{
		Type:  "candlestick",
		Name:  "K線",
		X:     make([]string, len(bars)),
		Open:  make([]float64, len(bars)),
		High:  make([]float64, len(bars)),
		Low:   make([]float64, len(bars)),
		Close: make([]float64, len(bars)),
	}
	for i, b := range bars {
		candles.X[i] = b.Time.Format(dateLayout)
		candles.Open[i] = b.Open
		candles.High[i] = b.High
		candles.Low[i] = b.Low
		candles.Close[i] = b.Close
	}
	fig := plotFigure{
		Data: []plotTrace{candles},
		Layout: map[string]any{
			"height":     400,
			"xaxis":      map[string]any{"rangeslider": map[string]any{"visible": true}},
			"margin":     map[string]any{"t": 30, "l": 40, "r": 20, "b": 20},
			"showlegend": true,
		},
	}

	if d.Indicators != nil {
		name := fmt.Sprintf("MA%d", d.Indicators.MAPeriod)
		if d.Indicators.MAPeriod == 20 {
			name = "月線"
		}
		fig.Data = append(fig.Data, plotTrace{
			Type: "scatter",
			Mode: "lines",
			Name: name,
			X:    candles.X,
			Y:    d.Indicators.MA,
			Line: &plotLine{Color: "orange", Width: 1.5},
		})
	}

	if d.Projection != nil {
		line := d.Projection.Line()
		xs := make([]string, len(line))
		ys := make([]float64, len(line))
		for i, p := range line {
			xs[i] = p.Date.Format(dateLayout)
			ys[i] = p.Price
		}
		fig.Data = append(fig.Data, plotTrace{
			Type: "scatter",
			Mode: "lines",
			Name: "未來預測軌道",
			X:    xs,
			Y:    ys,
			Line: &plotLine{Color: "yellow", Width: 3, Dash: "dot"},
		})
	}
	return fig
}

func chartJS(d *model.Dashboard) (template.JS, error) {
	if d == nil || d.Series.Len() == 0 {
		return "", nil
	}
	b, err := json.Marshal(buildChart(d))
	if err != nil {
		return "", err
	}
	// encoding/json escapes <, > and & so the figure is safe inside <script>.
	return template.JS(b), nil
}
