package models

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/lqviet/folio/internal/errors"
)

// AssetType classifies a holding for allocation and risk purposes
type AssetType string

const (
	AssetTypeStock       AssetType = "stock"
	AssetTypeCrypto      AssetType = "crypto"
	AssetTypeCommodity   AssetType = "commodity"
	AssetTypeFixedIncome AssetType = "fixed_income"
	AssetTypeRealEstate  AssetType = "real_estate"
	AssetTypeCash        AssetType = "cash"
	AssetTypeOther       AssetType = "other"
)

// AssetTypes lists all valid asset types in display order
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeCrypto,
	AssetTypeCommodity,
	AssetTypeFixedIncome,
	AssetTypeRealEstate,
	AssetTypeCash,
	AssetTypeOther,
}

// ValidAssetType reports whether t is one of the known asset types
func ValidAssetType(t AssetType) bool {
	for _, at := range AssetTypes {
		if at == t {
			return true
		}
	}
	return false
}

// Connection sources for externally synced assets
const (
	ConnectionSourcePlaid     = "plaid"
	ConnectionSourceSnapTrade = "snaptrade"
	ConnectionSourceCoinbase  = "coinbase"
)

// Asset represents a single holding in the portfolio
type Asset struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	Type          AssetType       `json:"type" gorm:"index"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol,omitempty"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:decimal(24,10)"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(24,10)"`
	CurrentPrice  decimal.Decimal `json:"current_price" gorm:"type:decimal(24,10)"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Optional fields depending on type
	Address        *string          `json:"address,omitempty"`
	MonthlyIncome  *decimal.Decimal `json:"monthly_income,omitempty" gorm:"type:decimal(24,10)"`
	MonthlyRent    *decimal.Decimal `json:"monthly_rent,omitempty" gorm:"type:decimal(24,10)"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty" gorm:"type:decimal(24,10)"`

	// Linkage for bank/brokerage/exchange sourced assets
	ConnectionID     *string `json:"connection_id,omitempty" gorm:"index"`
	ConnectionSource *string `json:"connection_source,omitempty" gorm:"index"`
}

// Value returns quantity * current price
func (a *Asset) Value() decimal.Decimal {
	return a.Quantity.Mul(a.CurrentPrice)
}

// Cost returns quantity * purchase price
func (a *Asset) Cost() decimal.Decimal {
	return a.Quantity.Mul(a.PurchasePrice)
}

// MarketPriced reports whether the asset's current price is driven by market data.
// Only stocks/ETFs and crypto are refreshed from quotes; everything else is
// user-entered or derived.
func (a *Asset) MarketPriced() bool {
	return a.Type == AssetTypeStock || a.Type == AssetTypeCrypto
}

// HasIncome reports whether the asset carries a recurring income stream
func (a *Asset) HasIncome() bool {
	if a.MonthlyIncome != nil && a.MonthlyIncome.IsPositive() {
		return true
	}
	if a.MonthlyRent != nil && a.MonthlyRent.IsPositive() {
		return true
	}
	return false
}

// Validate checks required fields before persisting
func (a *Asset) Validate() error {
	if a.Name == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "name is required"}
	}
	if !ValidAssetType(a.Type) {
		return &apperrors.ErrValidation{Field: "type", Message: "unknown asset type: " + string(a.Type)}
	}
	if a.Quantity.IsNegative() {
		return &apperrors.ErrValidation{Field: "quantity", Message: "quantity cannot be negative"}
	}
	if a.PurchasePrice.IsNegative() {
		return &apperrors.ErrValidation{Field: "purchase_price", Message: "purchase price cannot be negative"}
	}
	if a.CurrentPrice.IsNegative() {
		return &apperrors.ErrValidation{Field: "current_price", Message: "current price cannot be negative"}
	}
	if a.Currency == "" {
		return &apperrors.ErrValidation{Field: "currency", Message: "currency is required"}
	}
	return nil
}
