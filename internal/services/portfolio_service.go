package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lqviet/folio/internal/models"
)

// PortfolioServiceImpl computes valuation totals from the stored assets and
// runs the market price refresh cycle against the market data service.
type PortfolioServiceImpl struct {
	store      AssetStore
	marketData MarketDataService
	logger     *zap.Logger

	// Guards against overlapping refresh cycles. A refresh requested while
	// one is in flight returns the current stored state instead of racing a
	// second batch of writes.
	refreshing atomic.Bool
}

// NewPortfolioService creates a portfolio service
func NewPortfolioService(store AssetStore, marketData MarketDataService, logger *zap.Logger) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		store:      store,
		marketData: marketData,
		logger:     logger,
	}
}

// Summary derives valuation totals and the per-type allocation from an asset
// collection. Pure function of its input, no I/O.
func (s *PortfolioServiceImpl) Summary(assets []*models.Asset) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{
		TotalValue:   decimal.Zero,
		TotalCost:    decimal.Zero,
		Allocation:   make(map[models.AssetType]decimal.Decimal),
		AssetsByType: make(map[models.AssetType][]*models.Asset),
	}

	for _, asset := range assets {
		value := asset.Value()
		summary.TotalValue = summary.TotalValue.Add(value)
		summary.TotalCost = summary.TotalCost.Add(asset.Cost())
		summary.Allocation[asset.Type] = summary.Allocation[asset.Type].Add(value)
		summary.AssetsByType[asset.Type] = append(summary.AssetsByType[asset.Type], asset)
	}

	summary.TotalGain = summary.TotalValue.Sub(summary.TotalCost)
	// A zero-cost portfolio has no defined percent return; report 0 rather
	// than dividing by zero.
	if summary.TotalCost.IsPositive() {
		summary.TotalGainPercent = summary.TotalGain.
			Div(summary.TotalCost).
			Mul(decimal.NewFromInt(100))
	} else {
		summary.TotalGainPercent = decimal.Zero
	}

	return summary
}

// GetSummary loads the stored assets and returns their valuation summary
func (s *PortfolioServiceImpl) GetSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	assets, err := s.store.LoadAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	return s.Summary(assets), nil
}

// RefreshPrices pulls live quotes for every market-priced, symbol-bearing
// asset and persists any price changes. A failed or partial fetch leaves the
// affected assets at their last known prices; the refresh never fails the
// caller on upstream trouble.
func (s *PortfolioServiceImpl) RefreshPrices(ctx context.Context) ([]*models.Asset, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.logger.Debug("price refresh already in flight, skipping")
		return s.store.LoadAssets(ctx)
	}
	defer s.refreshing.Store(false)

	assets, err := s.store.LoadAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	requests := make([]models.MarketDataRequest, 0, len(assets))
	for _, asset := range assets {
		if asset.Symbol == "" || !asset.MarketPriced() {
			continue
		}
		requests = append(requests, models.MarketDataRequest{
			Symbol:    asset.Symbol,
			AssetType: asset.Type,
		})
	}
	if len(requests) == 0 {
		return assets, nil
	}

	results, err := s.marketData.GetMarketDataForSymbols(ctx, requests)
	if err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}

	updated := s.ApplyQuotes(assets, results)
	if updated == 0 {
		return assets, nil
	}

	if err := s.store.SaveAssets(ctx, assets); err != nil {
		return nil, fmt.Errorf("save refreshed assets: %w", err)
	}
	s.logger.Info("refreshed market prices",
		zap.Int("assets_updated", updated), zap.Int("quotes", len(results)))

	return assets, nil
}

// ApplyQuotes merges a batch of market data results into the asset slice in
// place and returns how many assets changed. Only stock and crypto assets are
// eligible; symbol matching is case-insensitive on the original symbol; a
// price must be positive and different from the stored one to apply.
func (s *PortfolioServiceImpl) ApplyQuotes(assets []*models.Asset, results []models.MarketData) int {
	prices := make(map[string]decimal.Decimal, len(results))
	for _, r := range results {
		prices[strings.ToLower(r.OriginalSymbol)] = r.Price
	}

	updated := 0
	for _, asset := range assets {
		if asset.Symbol == "" || !asset.MarketPriced() {
			continue
		}
		price, ok := prices[strings.ToLower(asset.Symbol)]
		if !ok || !price.IsPositive() || price.Equal(asset.CurrentPrice) {
			continue
		}
		asset.CurrentPrice = price
		asset.UpdatedAt = time.Now()
		updated++
	}
	return updated
}
