package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lqviet/folio/internal/models"
	"github.com/lqviet/folio/internal/services"
)

type MarketDataHandler struct {
	service services.MarketDataService
}

func NewMarketDataHandler(service services.MarketDataService) *MarketDataHandler {
	return &MarketDataHandler{service: service}
}

// HandleBatch resolves quotes for a batch of user-facing symbols
// @Summary Get market data for symbols
// @Tags market-data
// @Accept json
// @Produce json
// @Success 200 {array} models.MarketData
// @Failure 400 {string} string "Invalid request"
// @Router /market-data [post]
func (h *MarketDataHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var requests []models.MarketDataRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	results, err := h.service.GetMarketDataForSymbols(r.Context(), requests)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(results)
}

// HandleQuote returns the current quote for one symbol
// @Summary Get a quote
// @Tags market-data
// @Produce json
// @Param symbol query string true "Symbol"
// @Success 200 {object} models.Quote
// @Failure 404 {string} string "No quote available"
// @Router /market-data/quote [get]
func (h *MarketDataHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	quote, err := h.service.GetQuote(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if quote == nil {
		http.Error(w, "no quote available for "+symbol, http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(quote)
}

// HandleProfile returns company metadata for one symbol
// @Summary Get a company profile
// @Tags market-data
// @Produce json
// @Param symbol query string true "Symbol"
// @Success 200 {object} models.CompanyProfile
// @Failure 404 {string} string "No profile available"
// @Router /market-data/profile [get]
func (h *MarketDataHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	profile, err := h.service.GetCompanyProfile(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "no profile available for "+symbol, http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(profile)
}

// HandleHistorical returns the closing-price series for a symbol and range
// @Summary Get historical prices
// @Tags market-data
// @Produce json
// @Param symbol query string true "Symbol"
// @Param range query string false "Range (1M, 3M, 6M, 1Y, 5Y), default 1Y"
// @Success 200 {array} models.HistoricalPoint
// @Failure 400 {string} string "Invalid range"
// @Router /market-data/historical [get]
func (h *MarketDataHandler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}
	rng := models.HistoricalRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = models.Range1Y
	}

	points, err := h.service.GetHistoricalPrices(r.Context(), symbol, rng)
	if err != nil {
		// The only error path here is a malformed range, which is a bad request
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(points)
}
