package model

import "time"

// Trend is the direction of a fitted line.
type Trend string

const (
	TrendUp         Trend = "UP"
	TrendDownOrFlat Trend = "DOWN_OR_FLAT"
)

// Label is the display text for the trend direction.
func (t Trend) Label() string {
	if t == TrendUp {
		return "📈 上升趨勢"
	}
	return "📉 下降趨勢"
}

// ProjectedPoint is one (date, price) pair on the forecast line.
type ProjectedPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// TrendProjection is a least-squares line over the recent closes and its projection.
type TrendProjection struct {
	Slope     float64          `json:"slope"`
	Intercept float64          `json:"intercept"`
	Trend     Trend            `json:"trend"`
	FitWindow int              `json:"fit_window"`
	Anchor    ProjectedPoint   `json:"anchor"` // last actual close
	Points    []ProjectedPoint `json:"points"`
}

// Line returns the anchor followed by the projected points, so a chart
// connects the forecast to the last observed close.
func (p *TrendProjection) Line() []ProjectedPoint {
	line := make([]ProjectedPoint, 0, len(p.Points)+1)
	line = append(line, p.Anchor)
	return append(line, p.Points...)
}
