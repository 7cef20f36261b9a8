package calculator

import (
	"math"
	"time"

	"TWStockDesk/internal/model"
)

const eps = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// barsFromCloses builds one bar per business day starting Monday 2024-01-01.
func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		bars[i] = model.OHLCV{Time: d, Open: c, High: c + 1, Low: c - 1, Close: c}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
