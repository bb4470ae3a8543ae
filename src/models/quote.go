package models

import "time"

// Quote is a point-in-time price snapshot. It is never persisted.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	Currency      string  `json:"currency"`
	MarketCap     float64 `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
}

// ComputeChange derives Change and ChangePercent from the prices.
// A missing previous close leaves both at zero.
func (q *Quote) ComputeChange() {
	if q.PreviousClose <= 0 {
		q.Change = 0
		q.ChangePercent = 0
		return
	}
	q.Change = q.CurrentPrice - q.PreviousClose
	q.ChangePercent = q.Change / q.PreviousClose * 100
}

type HistoryBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
