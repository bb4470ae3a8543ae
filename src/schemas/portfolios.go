package schemas

type CreatePortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePortfolioRequest leaves fields that are absent from the body untouched.
type UpdatePortfolioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddHoldingRequest struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
}

type UpdateHoldingRequest struct {
	Quantity     *float64 `json:"quantity"`
	AveragePrice *float64 `json:"average_price"`
}

type RebalanceRequest struct {
	TargetAllocation map[string]float64 `json:"target_allocation"`
}
