package calculator

import (
	"errors"
	"fmt"

	"TWStockDesk/internal/model"
)

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("SMA%d needs %d prices, have %d: %w", period, period, len(prices), model.ErrInsufficientHistory)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the rolling simple moving average aligned with prices.
// Entries before index period-1 are undefined.
func SMASeries(prices []float64, period int) []model.NullFloat {
	out := make([]model.NullFloat, len(prices))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		ma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			continue
		}
		out[i] = model.Some(ma)
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
