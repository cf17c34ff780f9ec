package services

import (
	"context"

	"github.com/lqviet/folio/internal/models"
)

// MarketDataProvider is the upstream REST provider boundary
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	Profile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	HistoricalEOD(ctx context.Context, symbol string) ([]models.HistoricalPoint, error)
}

// MarketDataService defines cache-backed market data retrieval and the
// symbol-level aggregation used by the price refresh cycle
type MarketDataService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	GetCompanyProfiles(ctx context.Context, symbols []string) ([]*models.CompanyProfile, error)
	GetHistoricalPrices(ctx context.Context, symbol string, rng models.HistoricalRange) ([]models.HistoricalPoint, error)
	GetMarketDataForSymbols(ctx context.Context, requests []models.MarketDataRequest) ([]models.MarketData, error)
}

// AssetStore is the asset persistence boundary
type AssetStore interface {
	LoadAssets(ctx context.Context) ([]*models.Asset, error)
	SaveAssets(ctx context.Context, assets []*models.Asset) error
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, id string) error
	DeleteByConnectionSource(ctx context.Context, source string) (int64, error)
}

// PortfolioService defines valuation and the market price refresh cycle
type PortfolioService interface {
	Summary(assets []*models.Asset) *models.PortfolioSummary
	GetSummary(ctx context.Context) (*models.PortfolioSummary, error)
	RefreshPrices(ctx context.Context) ([]*models.Asset, error)
}

// RiskService derives the risk fingerprint from the current holdings
type RiskService interface {
	CalculateRiskFingerprint(assets []*models.Asset) *models.RiskFingerprint
}
