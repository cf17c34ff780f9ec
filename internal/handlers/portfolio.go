package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lqviet/folio/internal/services"
)

type PortfolioHandler struct {
	portfolio services.PortfolioService
	risk      services.RiskService
	store     services.AssetStore
}

func NewPortfolioHandler(portfolio services.PortfolioService, risk services.RiskService, store services.AssetStore) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, risk: risk, store: store}
}

// HandleSummary returns valuation totals and allocation for the portfolio
// @Summary Get portfolio summary
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioSummary
// @Failure 500 {string} string "Internal server error"
// @Router /portfolio/summary [get]
func (h *PortfolioHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.portfolio.GetSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}

// HandleRefresh pulls live market prices into the stored assets. A dead
// upstream is not an error: prices simply stay at their last known values.
// @Summary Refresh market prices
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.Asset
// @Failure 500 {string} string "Internal server error"
// @Router /portfolio/refresh [post]
func (h *PortfolioHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assets, err := h.portfolio.RefreshPrices(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(assets)
}

// HandleRisk returns the six-dimension risk fingerprint
// @Summary Get risk fingerprint
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.RiskFingerprint
// @Failure 500 {string} string "Internal server error"
// @Router /portfolio/risk [get]
func (h *PortfolioHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assets, err := h.store.LoadAssets(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(h.risk.CalculateRiskFingerprint(assets))
}
