package model

import "encoding/json"

// NullFloat is a number that may be undefined.
type NullFloat struct {
	Value float64
	Valid bool
}

// Some returns a defined NullFloat.
func Some(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// MarshalJSON encodes an undefined value as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// IndicatorSnapshot holds per-bar indicator series plus the latest summary scalars.
// MA[i] and RSI[i] line up with the bar at index i.
type IndicatorSnapshot struct {
	MA          []NullFloat `json:"ma"`
	RSI         []NullFloat `json:"rsi"`
	MAPeriod    int         `json:"ma_period"`
	RSIPeriod   int         `json:"rsi_period"`
	LatestClose float64     `json:"latest_close"`
	PrevClose   float64     `json:"prev_close"`
	Change      float64     `json:"change"`
	ChangePct   float64     `json:"change_pct"`
	LatestMA    NullFloat   `json:"latest_ma"`
	LatestRSI   NullFloat   `json:"latest_rsi"`
}
