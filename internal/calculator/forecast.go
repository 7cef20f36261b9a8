package calculator

import (
	"time"

	"TWStockDesk/internal/model"
)

// Default forecast windows.
const (
	DefaultFitWindow = 20
	DefaultHorizon   = 5
)

// FitLine fits y = slope*x + intercept by ordinary least squares with x = 0..len(ys)-1.
// Fewer than two points yield a flat line through the only value (or zero).
func FitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if len(ys) == 0 {
		return 0, 0
	}
	if len(ys) == 1 {
		return 0, ys[0]
	}

	var sumX, sumY float64
	for i, y := range ys {
		sumX += float64(i)
		sumY += y
	}
	meanX, meanY := sumX/n, sumY/n

	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}
	slope = sxy / sxx
	intercept = meanY - slope*meanX
	return slope, intercept
}

// NextBusinessDays returns n consecutive Mon-Fri dates starting the day after `after`.
func NextBusinessDays(after time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := after
	for len(days) < n {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Forecast fits a line to the last fitWindow closes and projects horizon
// business days ahead. It returns false when the series is not longer than
// fitWindow or the windows are not positive.
func Forecast(bars []model.OHLCV, fitWindow, horizon int) (*model.TrendProjection, bool) {
	if fitWindow < 2 || horizon <= 0 || len(bars) <= fitWindow {
		return nil, false
	}

	recent := extractCloses(bars[len(bars)-fitWindow:])
	slope, intercept := FitLine(recent)

	last := bars[len(bars)-1]
	dates := NextBusinessDays(last.Time, horizon)
	points := make([]model.ProjectedPoint, horizon)
	for i := range points {
		x := float64(fitWindow + i)
		points[i] = model.ProjectedPoint{Date: dates[i], Price: slope*x + intercept}
	}

	trend := model.TrendDownOrFlat
	if slope > 0 {
		trend = model.TrendUp
	}

	return &model.TrendProjection{
		Slope:     slope,
		Intercept: intercept,
		Trend:     trend,
		FitWindow: fitWindow,
		Anchor:    model.ProjectedPoint{Date: last.Time, Price: last.Close},
		Points:    points,
	}, true
}
