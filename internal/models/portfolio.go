package models

import (
	"github.com/shopspring/decimal"
)

// PortfolioSummary aggregates the asset collection into valuation totals
// and a per-type allocation. Pure derivation of the current asset state.
type PortfolioSummary struct {
	TotalValue       decimal.Decimal               `json:"total_value"`
	TotalCost        decimal.Decimal               `json:"total_cost"`
	TotalGain        decimal.Decimal               `json:"total_gain"`
	TotalGainPercent decimal.Decimal               `json:"total_gain_percent"`
	Allocation       map[AssetType]decimal.Decimal `json:"allocation"`
	AssetsByType     map[AssetType][]*Asset        `json:"assets_by_type"`
}

// AllocationPercent returns the allocation normalized to 0-100 per type.
// A zero total value yields an empty map rather than dividing by zero.
func (s *PortfolioSummary) AllocationPercent() map[AssetType]float64 {
	percents := make(map[AssetType]float64, len(s.Allocation))
	if !s.TotalValue.IsPositive() {
		return percents
	}
	hundred := decimal.NewFromInt(100)
	for t, v := range s.Allocation {
		pct, _ := v.Div(s.TotalValue).Mul(hundred).Float64()
		percents[t] = pct
	}
	return percents
}
