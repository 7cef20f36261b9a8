package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/calculator"
	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/model"
)

// Options sets the fetch windows and indicator parameters used by Build.
type Options struct {
	Lookback         string
	DividendLookback string
	Indicators       calculator.IndicatorParams
	FitWindow        int
	Horizon          int
	DividendPayments int
	RangeLookback    int // bars; 0 means the whole fetched window
}

// DefaultOptions matches the classic dashboard: six months of bars, MA20,
// RSI14 and a 5-day projection off the last 20 closes.
var DefaultOptions = Options{
	Lookback:         "6mo",
	DividendLookback: "5y",
	Indicators:       calculator.DefaultIndicatorParams,
	FitWindow:        calculator.DefaultFitWindow,
	Horizon:          calculator.DefaultHorizon,
	DividendPayments: calculator.DefaultDividendPayments,
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Symbols *Symbols
	Options Options
	metrics *metrics.Metrics
	logger  arbor.ILogger
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbols *Symbols, opts Options, m *metrics.Metrics, logger arbor.ILogger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Symbols: symbols,
		Options: opts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Build fetches market data for input and computes every dashboard field in
// one pass. It fails only when no price series could be obtained:
// ErrInvalidSymbol for unknown codes, ErrDataUnavailable otherwise. Dividend
// failures degrade to a zero summary; fields that need more history are nil.
func (c *Collector) Build(ctx context.Context, input string) (dash *model.Dashboard, err error) {
	start := c.now()
	defer func() { c.metrics.ObserveDashboard(start, err) }()

	code, candidates := c.Symbols.Resolve(input)
	if code == "" {
		return nil, fmt.Errorf("empty symbol: %w", model.ErrInvalidSymbol)
	}

	symbol, bars, err := c.fetchBars(ctx, candidates)
	if err != nil {
		if !c.Symbols.Known(code) {
			return nil, fmt.Errorf("%s: %w: %w", code, model.ErrInvalidSymbol, err)
		}
		return nil, fmt.Errorf("%s: %w", code, err)
	}

	dash = &model.Dashboard{
		Symbol: symbol,
		Code:   code,
		Name:   c.Symbols.Name(code),
		Series: &model.PriceSeries{
			Symbol:    symbol,
			Name:      c.Symbols.Name(code),
			Bars:      bars,
			FetchedAt: c.now(),
		},
		BuiltAt: c.now(),
	}

	if q, err := calculator.CalculateQuote(bars); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote unavailable")
	} else {
		dash.Quote = q
	}

	if snap, err := calculator.ComputeIndicators(bars, c.Options.Indicators); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Int("bars", len(bars)).Msg("indicators unavailable")
	} else {
		dash.Indicators = snap
	}

	if proj, ok := calculator.Forecast(bars, c.Options.FitWindow, c.Options.Horizon); ok {
		dash.Projection = proj
	} else {
		c.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("not enough history for forecast")
	}

	if r, err := calculator.CalculatePriceRange(bars, c.Options.RangeLookback); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("range calculation failed")
	} else {
		dash.Range = r
	}

	latestClose := bars[len(bars)-1].Close
	payments, err := c.Fetcher.FetchDividends(ctx, symbol, c.Options.DividendLookback)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("dividend fetch failed, using zero")
		payments = nil
	}
	dash.Dividends = calculator.SummarizeDividends(payments, latestClose, c.Options.DividendPayments)

	return dash, nil
}

// fetchBars tries each candidate symbol until one returns a non-empty series.
func (c *Collector) fetchBars(ctx context.Context, candidates []string) (string, []model.OHLCV, error) {
	var lastErr error
	for _, symbol := range candidates {
		bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Options.Lookback)
		if err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("price fetch failed")
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		bars = normalizeBars(bars)
		if len(bars) == 0 {
			lastErr = fmt.Errorf("%s returned no bars", symbol)
			continue
		}
		return symbol, bars, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate symbols")
	}
	if errors.Is(lastErr, model.ErrDataUnavailable) {
		return "", nil, lastErr
	}
	return "", nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, lastErr)
}
