package calculator

import (
	"errors"
	"math"

	"TWStockDesk/internal/model"
)

// CalculateRange scans the most recent `lookback` bars and returns the high and low.
// A lookback <= 0 scans the whole series.
func CalculateRange(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := len(bars)
	start := 0
	if lookback > 0 && lookback < n {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where the current price sits within the range (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// CalculatePriceRange combines CalculateRange and CalculatePosition for the latest close.
func CalculatePriceRange(bars []model.OHLCV, lookback int) (*model.PriceRange, error) {
	high, low, err := CalculateRange(bars, lookback)
	if err != nil {
		return nil, err
	}
	pos, err := CalculatePosition(bars[len(bars)-1].Close, high, low)
	if err != nil {
		return nil, err
	}
	return &model.PriceRange{High: high, Low: low, Position: pos}, nil
}
