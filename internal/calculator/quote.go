package calculator

import (
	"fmt"

	"TWStockDesk/internal/model"
)

// CalculateQuote returns the latest close and its change. Requires at least 2 bars.
func CalculateQuote(bars []model.OHLCV) (*model.Quote, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("change needs 2 bars, have %d: %w", len(bars), model.ErrInsufficientHistory)
	}
	last, prev := bars[len(bars)-1], bars[len(bars)-2]
	q := &model.Quote{
		Date:      last.Time,
		Close:     last.Close,
		PrevClose: prev.Close,
		Change:    last.Close - prev.Close,
	}
	if prev.Close != 0 {
		q.ChangePct = q.Change / prev.Close * 100
	}
	return q, nil
}
