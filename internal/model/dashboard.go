package model

import "time"

// Dashboard is everything rendered for one symbol.
// Quote, Indicators, Projection and Range are nil when the history is too short.
type Dashboard struct {
	Symbol     string             `json:"symbol"` // with market suffix, e.g. 2330.TW
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Series     *PriceSeries       `json:"series"`
	Quote      *Quote             `json:"quote,omitempty"`
	Indicators *IndicatorSnapshot `json:"indicators,omitempty"`
	Projection *TrendProjection   `json:"projection,omitempty"`
	Dividends  DividendSummary    `json:"dividends"`
	Range      *PriceRange        `json:"range,omitempty"`
	BuiltAt    time.Time          `json:"built_at"`
}

// Title is "code name" for known symbols, otherwise just the code.
func (d *Dashboard) Title() string {
	if d.Name == "" || d.Name == d.Code {
		return d.Code
	}
	return d.Code + " " + d.Name
}
