package calculator

import (
	"fmt"

	"TWStockDesk/internal/model"
)

// IndicatorParams sets the indicator windows.
type IndicatorParams struct {
	MAPeriod  int
	RSIPeriod int
}

// DefaultIndicatorParams is MA20 / RSI14.
var DefaultIndicatorParams = IndicatorParams{MAPeriod: 20, RSIPeriod: 14}

// MinBars is the shortest series ComputeIndicators accepts.
func (p IndicatorParams) MinBars() int {
	return p.RSIPeriod + 1
}

// ComputeIndicators derives the moving average and RSI series and the latest
// summary values from bars. Bars must be ascending by date.
func ComputeIndicators(bars []model.OHLCV, params IndicatorParams) (*model.IndicatorSnapshot, error) {
	if params.MAPeriod <= 0 || params.RSIPeriod <= 0 {
		return nil, fmt.Errorf("invalid indicator params %+v", params)
	}
	if len(bars) < params.MinBars() {
		return nil, fmt.Errorf("indicators need %d bars, have %d: %w", params.MinBars(), len(bars), model.ErrInsufficientHistory)
	}

	closes := extractCloses(bars)
	n := len(closes)
	snap := &model.IndicatorSnapshot{
		MA:          SMASeries(closes, params.MAPeriod),
		RSI:         RSISeries(closes, params.RSIPeriod),
		MAPeriod:    params.MAPeriod,
		RSIPeriod:   params.RSIPeriod,
		LatestClose: closes[n-1],
		PrevClose:   closes[n-2],
	}
	snap.Change = snap.LatestClose - snap.PrevClose
	if snap.PrevClose != 0 {
		snap.ChangePct = snap.Change / snap.PrevClose * 100
	}
	snap.LatestMA = snap.MA[n-1]
	snap.LatestRSI = snap.RSI[n-1]
	return snap, nil
}
