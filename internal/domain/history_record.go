package domain

import (
	"encoding/json"
	"time"
)

// HistoryRecord is one timestamped market observation of a project.
type HistoryRecord struct {
	Datetime  time.Time `json:"datetime"`
	PriceUSD  Num       `json:"priceUsd"`
	PriceBTC  Num       `json:"priceBtc"`
	Volume    Num       `json:"volume"`
	Marketcap Num       `json:"marketcap"`
}

// UnmarshalJSON leaves Datetime zero when the timestamp is missing, empty or
// not RFC 3339, so one bad row does not fail the whole payload.
func (r *HistoryRecord) UnmarshalJSON(b []byte) error {
	type plain HistoryRecord
	var aux struct {
		plain
		Datetime json.RawMessage `json:"datetime"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = HistoryRecord(aux.plain)
	r.Datetime = time.Time{}

	var s string
	if err := json.Unmarshal(aux.Datetime, &s); err != nil || s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		r.Datetime = t
	}
	return nil
}
