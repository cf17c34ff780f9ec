package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price plus day-change metrics for a symbol
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	DayChange     decimal.Decimal `json:"day_change"`
}

// CompanyProfile holds slow-changing company metadata for a symbol
type CompanyProfile struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Sector      string          `json:"sector"`
	Industry    string          `json:"industry"`
	Country     string          `json:"country"`
	MarketCap   decimal.Decimal `json:"market_cap"`
}

// HistoricalPoint is a single closing price observation
type HistoricalPoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// HistoricalRange is a fixed lookback window for historical price queries
type HistoricalRange string

const (
	Range1M HistoricalRange = "1M"
	Range3M HistoricalRange = "3M"
	Range6M HistoricalRange = "6M"
	Range1Y HistoricalRange = "1Y"
	Range5Y HistoricalRange = "5Y"
)

// Days returns the lookback window in days. An unknown range is a caller bug
// and returns an error rather than silently defaulting.
func (r HistoricalRange) Days() (int, error) {
	switch r {
	case Range1M:
		return 30, nil
	case Range3M:
		return 90, nil
	case Range6M:
		return 180, nil
	case Range1Y:
		return 365, nil
	case Range5Y:
		return 1825, nil
	default:
		return 0, fmt.Errorf("invalid historical range: %q", string(r))
	}
}

// MarketDataRequest asks for a quote on a user-facing symbol
type MarketDataRequest struct {
	Symbol    string    `json:"symbol"`
	AssetType AssetType `json:"asset_type,omitempty"`
}

// MarketData is a quote mapped back to the symbol the caller asked with
type MarketData struct {
	Symbol         string          `json:"symbol"`
	OriginalSymbol string          `json:"original_symbol"`
	Price          decimal.Decimal `json:"price"`
	ChangePercent  decimal.Decimal `json:"change_percent"`
	DayChange      decimal.Decimal `json:"day_change"`
}
