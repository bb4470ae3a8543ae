package services

import (
	"sort"

	"finboard/src/models"

	"github.com/shopspring/decimal"
)

// rebalanceThreshold is the minimum gap, in percentage points, worth acting on.
const rebalanceThreshold = 1.0

const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

type HoldingValuation struct {
	models.Holding
	CurrentPrice      float64 `json:"current_price"`
	TotalValue        float64 `json:"total_value"`
	TotalCost         float64 `json:"total_cost"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	PriceUnavailable  bool    `json:"price_unavailable,omitempty"`
}

type Performance struct {
	TotalValue           float64            `json:"total_value"`
	TotalCost            float64            `json:"total_cost"`
	TotalGainLoss        float64            `json:"total_gain_loss"`
	TotalGainLossPercent float64            `json:"total_gain_loss_percent"`
	Holdings             []HoldingValuation `json:"holdings"`
	Degraded             bool               `json:"degraded"`
}

type AllocationEntry struct {
	Symbol     string  `json:"symbol"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type RebalanceSuggestion struct {
	Symbol            string  `json:"symbol"`
	CurrentPercentage float64 `json:"current_percentage"`
	TargetPercentage  float64 `json:"target_percentage"`
	Difference        float64 `json:"difference"`
	Action            string  `json:"action"`
}

// MergeHolding folds an additional lot into an existing position using the
// weighted average cost. An empty resulting position takes the new price.
func MergeHolding(quantity, averagePrice, addQuantity, addPrice float64) (float64, float64) {
	oldQty := decimal.NewFromFloat(quantity)
	addQty := decimal.NewFromFloat(addQuantity)
	total := oldQty.Add(addQty)
	if total.IsZero() {
		return 0, addPrice
	}

	cost := oldQty.Mul(decimal.NewFromFloat(averagePrice)).Add(addQty.Mul(decimal.NewFromFloat(addPrice)))
	return total.InexactFloat64(), cost.Div(total).InexactFloat64()
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// ValueHolding prices one holding. ok=false means the quote was unavailable
// and the holding is valued at zero.
func ValueHolding(h models.Holding, price float64, ok bool) HoldingValuation {
	valuation := HoldingValuation{Holding: h, PriceUnavailable: !ok}
	if !ok {
		price = 0
	}

	qty := decimal.NewFromFloat(h.Quantity)
	value := qty.Mul(decimal.NewFromFloat(price))
	cost := qty.Mul(decimal.NewFromFloat(h.AveragePrice))
	gain := value.Sub(cost)

	valuation.CurrentPrice = price
	valuation.TotalValue = value.InexactFloat64()
	valuation.TotalCost = cost.InexactFloat64()
	valuation.ProfitLoss = gain.InexactFloat64()
	valuation.ProfitLossPercent = percentOf(gain, cost).Round(2).InexactFloat64()
	return valuation
}

// ComputePerformance sums valuations. An empty input yields zero totals.
func ComputePerformance(valuations []HoldingValuation) *Performance {
	totalValue := decimal.Zero
	totalCost := decimal.Zero
	degraded := false
	for _, v := range valuations {
		totalValue = totalValue.Add(decimal.NewFromFloat(v.TotalValue))
		totalCost = totalCost.Add(decimal.NewFromFloat(v.TotalCost))
		degraded = degraded || v.PriceUnavailable
	}
	gain := totalValue.Sub(totalCost)

	if valuations == nil {
		valuations = []HoldingValuation{}
	}
	return &Performance{
		TotalValue:           totalValue.InexactFloat64(),
		TotalCost:            totalCost.InexactFloat64(),
		TotalGainLoss:        gain.InexactFloat64(),
		TotalGainLossPercent: percentOf(gain, totalCost).Round(2).InexactFloat64(),
		Holdings:             valuations,
		Degraded:             degraded,
	}
}

// ComputeAllocation returns each holding's share of the portfolio value,
// largest first. A portfolio worth nothing has no allocation.
func ComputeAllocation(valuations []HoldingValuation) []AllocationEntry {
	total := decimal.Zero
	for _, v := range valuations {
		total = total.Add(decimal.NewFromFloat(v.TotalValue))
	}

	allocation := []AllocationEntry{}
	if !total.IsPositive() {
		return allocation
	}
	for _, v := range valuations {
		value := decimal.NewFromFloat(v.TotalValue)
		allocation = append(allocation, AllocationEntry{
			Symbol:     v.Symbol,
			Value:      v.TotalValue,
			Percentage: percentOf(value, total).Round(2).InexactFloat64(),
		})
	}
	sort.SliceStable(allocation, func(i, j int) bool { return allocation[i].Value > allocation[j].Value })
	return allocation
}

// SuggestRebalance compares held symbols against targets. Symbols without a
// target are treated as 0%; targets for symbols not held are ignored.
func SuggestRebalance(allocation []AllocationEntry, targets map[string]float64) []RebalanceSuggestion {
	normalized := make(map[string]float64, len(targets))
	for symbol, target := range targets {
		normalized[NormalizeSymbol(symbol)] = target
	}

	suggestions := []RebalanceSuggestion{}
	for _, entry := range allocation {
		target := normalized[entry.Symbol]
		difference := decimal.NewFromFloat(target).Sub(decimal.NewFromFloat(entry.Percentage))
		if difference.Abs().LessThanOrEqual(decimal.NewFromFloat(rebalanceThreshold)) {
			continue
		}
		action := ActionSell
		if difference.IsPositive() {
			action = ActionBuy
		}
		suggestions = append(suggestions, RebalanceSuggestion{
			Symbol:            entry.Symbol,
			CurrentPercentage: entry.Percentage,
			TargetPercentage:  target,
			Difference:        difference.Round(2).InexactFloat64(),
			Action:            action,
		})
	}
	return suggestions
}

func validateTargets(targets map[string]float64) error {
	if len(targets) == 0 {
		return newValidationError("target_allocation", "at least one target is required")
	}
	for symbol, target := range targets {
		if NormalizeSymbol(symbol) == "" {
			return newValidationError("target_allocation", "symbol is required")
		}
		if target < 0 || target > 100 {
			return newValidationError("target_allocation", "target for %s must be between 0 and 100", symbol)
		}
	}
	return nil
}
