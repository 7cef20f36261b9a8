package calculator

import (
	"errors"
	"fmt"

	"TWStockDesk/internal/model"
)

// RSISeries computes the RSI for every bar using a simple rolling mean of the
// trailing `period` gains and losses. Entries before index `period` are undefined.
func RSISeries(closes []float64, period int) []model.NullFloat {
	out := make([]model.NullFloat, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		out[i] = model.Some(rsiFromAverages(sumGain/float64(period), sumLoss/float64(period)))
	}
	return out
}

// CalculateRSI returns the RSI of the latest bar. Requires at least period+1 bars.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("RSI%d needs %d bars, have %d: %w", period, period+1, len(bars), model.ErrInsufficientHistory)
	}
	series := RSISeries(extractCloses(bars), period)
	return series[len(series)-1].Value, nil
}

// rsiFromAverages maps average gain/loss to 0..100.
// No losses reads as 100; a window with neither gains nor losses reads as 50.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
