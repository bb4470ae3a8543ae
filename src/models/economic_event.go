package models

import "time"

// EconomicEvent is the normalized shape every calendar source produces.
// Actual, Forecast and Previous are free-form because sources mix units.
type EconomicEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	Category    string    `json:"category"`
	Importance  string    `json:"importance"`
	Date        time.Time `json:"date"`
	Actual      string    `json:"actual,omitempty"`
	Forecast    string    `json:"forecast,omitempty"`
	Previous    string    `json:"previous,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Source      string    `json:"source"`
}
