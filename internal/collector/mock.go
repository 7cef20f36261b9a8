package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"TWStockDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With no Bars set it generates a gently oscillating series around Price.
type MockFetcher struct {
	Price     float64
	Days      int
	Bars      map[string][]model.OHLCV
	Dividends map[string][]model.DividendPayment
	BarsErr   error
	DivErr    error
	Calls     int

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol, _ string) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if m.Bars != nil {
		return m.Bars[symbol], nil
	}
	days := m.Days
	if days == 0 {
		days = 120
	}
	return generateMockBars(m.Price, days, time.Now()), nil
}

func (m *MockFetcher) FetchDividends(_ context.Context, symbol, _ string) ([]model.DividendPayment, error) {
	if m.DivErr != nil {
		return nil, m.DivErr
	}
	if m.Dividends != nil {
		return m.Dividends[symbol], nil
	}
	return nil, nil
}

// generateMockBars produces count business-day bars ending on or before end.
func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	dates := make([]time.Time, 0, count)
	d := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	for len(dates) < count {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, -1)
	}

	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   dates[count-1-i],
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
