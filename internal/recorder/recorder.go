package recorder

import (
	"time"

	"TWStockDesk/internal/model"
)

// Snapshot is one persisted dashboard row. Indicator fields that were not
// available when the dashboard was built are stored as NULL.
type Snapshot struct {
	Timestamp   time.Time       `json:"timestamp"`
	Symbol      string          `json:"symbol"`
	Close       float64         `json:"close"`
	Change      float64         `json:"change"`
	RSI         model.NullFloat `json:"rsi"`
	MA          model.NullFloat `json:"ma"`
	Slope       model.NullFloat `json:"slope"`
	Trend       string          `json:"trend,omitempty"`
	DividendSum float64         `json:"dividend_sum"`
	YieldPct    float64         `json:"yield_pct"`
}

// SnapshotFromDashboard flattens a dashboard into a Snapshot.
func SnapshotFromDashboard(d *model.Dashboard) Snapshot {
	s := Snapshot{
		Timestamp:   d.BuiltAt,
		Symbol:      d.Symbol,
		DividendSum: d.Dividends.TrailingSum,
		YieldPct:    d.Dividends.YieldPct,
	}
	if d.Quote != nil {
		s.Close = d.Quote.Close
		s.Change = d.Quote.Change
	}
	if d.Indicators != nil {
		s.RSI = d.Indicators.LatestRSI
		s.MA = d.Indicators.LatestMA
	}
	if d.Projection != nil {
		s.Slope = model.Some(d.Projection.Slope)
		s.Trend = string(d.Projection.Trend)
	}
	return s
}

// Recorder persists dashboard history for later analysis.
type Recorder interface {
	RecordSnapshot(d *model.Dashboard) error
	RecordNews(items []model.NewsItem) error
	RecentSnapshots(symbol string, limit int) ([]Snapshot, error)
	Close() error
}
