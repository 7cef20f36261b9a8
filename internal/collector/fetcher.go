package collector

import (
	"context"
	"sort"
	"time"

	"TWStockDesk/internal/model"
)

// Fetcher defines the interface for fetching market data.
// Symbols carry their market suffix (2330.TW); lookback is a range such as "6mo".
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol, lookback string) ([]model.OHLCV, error)
	FetchDividends(ctx context.Context, symbol, lookback string) ([]model.DividendPayment, error)
	Name() string
}

// normalizeBars sorts bars by date, drops empty bars and keeps the last bar
// of any repeated trading date.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Close == 0 && b.Open == 0 && b.High == 0 && b.Low == 0 {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && sameDay(deduped[n-1].Time, b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
