package models

import "time"

// Holding is a quantity of one symbol inside a portfolio, with its cost basis.
// (PortfolioID, Symbol) is unique.
type Holding struct {
	ID           int64     `db:"id" json:"id"`
	PortfolioID  int64     `db:"portfolio_id" json:"portfolio_id"`
	Symbol       string    `db:"symbol" json:"symbol"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	AveragePrice float64   `db:"average_price" json:"average_price"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
