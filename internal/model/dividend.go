package model

import "time"

// DividendPayment is a single cash dividend event.
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DividendSummary approximates one trailing year of dividends.
type DividendSummary struct {
	TrailingSum float64 `json:"trailing_sum"`
	YieldPct    float64 `json:"yield_pct"`
	Payments    int     `json:"payments"` // payments included in TrailingSum
}
