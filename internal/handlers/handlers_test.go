package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	apperrors "github.com/lqviet/folio/internal/errors"
	"github.com/lqviet/folio/internal/models"
	"github.com/lqviet/folio/internal/services"
)

type mockStore struct {
	assets  []*models.Asset
	created *models.Asset
	deleted string
}

func (m *mockStore) LoadAssets(_ context.Context) ([]*models.Asset, error) { return m.assets, nil }
func (m *mockStore) SaveAssets(_ context.Context, assets []*models.Asset) error {
	m.assets = assets
	return nil
}
func (m *mockStore) CreateAsset(_ context.Context, asset *models.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	m.created = asset
	return nil
}
func (m *mockStore) GetAsset(_ context.Context, id string) (*models.Asset, error) {
	for _, a := range m.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Entity: "asset", ID: id}
}
func (m *mockStore) UpdateAsset(_ context.Context, asset *models.Asset) error { return nil }
func (m *mockStore) DeleteAsset(_ context.Context, id string) error {
	m.deleted = id
	return nil
}
func (m *mockStore) DeleteByConnectionSource(_ context.Context, source string) (int64, error) {
	return 2, nil
}

var _ services.AssetStore = (*mockStore)(nil)

type mockMarketData struct {
	quote   *models.Quote
	results []models.MarketData
}

func (m *mockMarketData) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	return m.quote, nil
}
func (m *mockMarketData) GetQuotes(_ context.Context, symbols []string) ([]*models.Quote, error) {
	return nil, nil
}
func (m *mockMarketData) GetCompanyProfile(_ context.Context, symbol string) (*models.CompanyProfile, error) {
	return nil, nil
}
func (m *mockMarketData) GetCompanyProfiles(_ context.Context, symbols []string) ([]*models.CompanyProfile, error) {
	return nil, nil
}
func (m *mockMarketData) GetHistoricalPrices(_ context.Context, symbol string, rng models.HistoricalRange) ([]models.HistoricalPoint, error) {
	if _, err := rng.Days(); err != nil {
		return nil, err
	}
	return []models.HistoricalPoint{}, nil
}
func (m *mockMarketData) GetMarketDataForSymbols(_ context.Context, requests []models.MarketDataRequest) ([]models.MarketData, error) {
	return m.results, nil
}

var _ services.MarketDataService = (*mockMarketData)(nil)

type mockPortfolio struct {
	summary   *models.PortfolioSummary
	refreshed []*models.Asset
}

func (m *mockPortfolio) Summary(assets []*models.Asset) *models.PortfolioSummary { return m.summary }
func (m *mockPortfolio) GetSummary(_ context.Context) (*models.PortfolioSummary, error) {
	return m.summary, nil
}
func (m *mockPortfolio) RefreshPrices(_ context.Context) ([]*models.Asset, error) {
	return m.refreshed, nil
}

var _ services.PortfolioService = (*mockPortfolio)(nil)

type mockRisk struct {
	got []*models.Asset
}

func (m *mockRisk) CalculateRiskFingerprint(assets []*models.Asset) *models.RiskFingerprint {
	m.got = assets
	return &models.RiskFingerprint{OverallRiskLevel: models.RiskLevelModerate}
}

var _ services.RiskService = (*mockRisk)(nil)

func TestCreateAsset(t *testing.T) {
	store := &mockStore{}
	h := NewAssetHandler(store)

	body, _ := json.Marshal(map[string]any{
		"type":     "stock",
		"name":     "Apple",
		"symbol":   "AAPL",
		"quantity": "10",
		"currency": "USD",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewReader(body))
	rw := httptest.NewRecorder()
	h.HandleAssets(rw, req)

	if rw.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rw.Code, rw.Body.String())
	}
	if store.created == nil || store.created.Name != "Apple" {
		t.Fatalf("expected store.CreateAsset to be called, got %#v", store.created)
	}
}

func TestCreateAsset_ValidationError(t *testing.T) {
	h := NewAssetHandler(&mockStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewReader([]byte(`{"type":"boat","name":"x","currency":"USD"}`)))
	rw := httptest.NewRecorder()
	h.HandleAssets(rw, req)

	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestGetAsset_NotFound(t *testing.T) {
	h := NewAssetHandler(&mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/assets/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rw := httptest.NewRecorder()
	h.HandleAsset(rw, req)

	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rw.Code)
	}
}

func TestDeleteAsset(t *testing.T) {
	store := &mockStore{}
	h := NewAssetHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/assets/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rw := httptest.NewRecorder()
	h.HandleAsset(rw, req)

	if rw.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rw.Code)
	}
	if store.deleted != "abc" {
		t.Fatalf("expected delete of abc, got %q", store.deleted)
	}
}

func TestDeleteConnectionAssets(t *testing.T) {
	h := NewAssetHandler(&mockStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/assets/connections/plaid", nil)
	req = mux.SetURLVars(req, map[string]string{"source": "plaid"})
	rw := httptest.NewRecorder()
	h.HandleConnectionAssets(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var resp map[string]int64
	if err := json.NewDecoder(rw.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["deleted"] != 2 {
		t.Fatalf("expected 2 deleted, got %d", resp["deleted"])
	}
}

func TestGetQuote(t *testing.T) {
	md := &mockMarketData{quote: &models.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(150)}}
	h := NewMarketDataHandler(md)

	req := httptest.NewRequest(http.MethodGet, "/api/market-data/quote?symbol=AAPL", nil)
	rw := httptest.NewRecorder()
	h.HandleQuote(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var quote models.Quote
	if err := json.NewDecoder(rw.Body).Decode(&quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Fatalf("expected AAPL, got %q", quote.Symbol)
	}
}

func TestGetQuote_NoQuote(t *testing.T) {
	h := NewMarketDataHandler(&mockMarketData{})

	req := httptest.NewRequest(http.MethodGet, "/api/market-data/quote?symbol=NOPE", nil)
	rw := httptest.NewRecorder()
	h.HandleQuote(rw, req)

	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rw.Code)
	}
}

func TestGetQuote_MissingSymbol(t *testing.T) {
	h := NewMarketDataHandler(&mockMarketData{})

	req := httptest.NewRequest(http.MethodGet, "/api/market-data/quote", nil)
	rw := httptest.NewRecorder()
	h.HandleQuote(rw, req)

	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestGetHistorical_BadRange(t *testing.T) {
	h := NewMarketDataHandler(&mockMarketData{})

	req := httptest.NewRequest(http.MethodGet, "/api/market-data/historical?symbol=AAPL&range=2W", nil)
	rw := httptest.NewRecorder()
	h.HandleHistorical(rw, req)

	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestMarketDataBatch(t *testing.T) {
	md := &mockMarketData{results: []models.MarketData{
		{Symbol: "BTCUSD", OriginalSymbol: "BTC", Price: decimal.NewFromInt(65000)},
	}}
	h := NewMarketDataHandler(md)

	body, _ := json.Marshal([]models.MarketDataRequest{{Symbol: "BTC", AssetType: models.AssetTypeCrypto}})
	req := httptest.NewRequest(http.MethodPost, "/api/market-data", bytes.NewReader(body))
	rw := httptest.NewRecorder()
	h.HandleBatch(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}
	var results []models.MarketData
	if err := json.NewDecoder(rw.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 || results[0].OriginalSymbol != "BTC" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestPortfolioSummary(t *testing.T) {
	portfolio := &mockPortfolio{summary: &models.PortfolioSummary{
		TotalValue: decimal.NewFromInt(1500),
		TotalCost:  decimal.NewFromInt(1000),
	}}
	h := NewPortfolioHandler(portfolio, &mockRisk{}, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
	rw := httptest.NewRecorder()
	h.HandleSummary(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var summary models.PortfolioSummary
	if err := json.NewDecoder(rw.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !summary.TotalValue.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected total value: %s", summary.TotalValue)
	}
}

func TestPortfolioRefresh_WrongMethod(t *testing.T) {
	h := NewPortfolioHandler(&mockPortfolio{}, &mockRisk{}, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/refresh", nil)
	rw := httptest.NewRecorder()
	h.HandleRefresh(rw, req)

	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}

func TestPortfolioRisk(t *testing.T) {
	store := &mockStore{assets: []*models.Asset{{ID: "1", Type: models.AssetTypeStock, Name: "Apple"}}}
	risk := &mockRisk{}
	h := NewPortfolioHandler(&mockPortfolio{}, risk, store)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/risk", nil)
	rw := httptest.NewRecorder()
	h.HandleRisk(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	if len(risk.got) != 1 {
		t.Fatalf("expected fingerprint computed over stored assets, got %d", len(risk.got))
	}
}
