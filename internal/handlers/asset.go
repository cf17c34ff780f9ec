package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/lqviet/folio/internal/errors"
	"github.com/lqviet/folio/internal/models"
	"github.com/lqviet/folio/internal/services"
)

type AssetHandler struct {
	store services.AssetStore
}

func NewAssetHandler(store services.AssetStore) *AssetHandler {
	return &AssetHandler{store: store}
}

// HandleAssets handles collection-level asset operations
// @Summary List or create assets
// @Tags assets
// @Accept json
// @Produce json
// @Success 200 {array} models.Asset
// @Failure 400 {string} string "Invalid request"
// @Failure 500 {string} string "Internal server error"
// @Router /assets [get]
// @Router /assets [post]
func (h *AssetHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		assets, err := h.store.LoadAssets(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(assets)
	case http.MethodPost:
		var asset models.Asset
		if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := h.store.CreateAsset(r.Context(), &asset); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&asset)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAsset handles item-level asset operations
// @Summary Get, update, or delete an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 404 {string} string "Not found"
// @Router /assets/{id} [get]
// @Router /assets/{id} [put]
// @Router /assets/{id} [delete]
func (h *AssetHandler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	switch r.Method {
	case http.MethodGet:
		asset, err := h.store.GetAsset(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		json.NewEncoder(w).Encode(asset)
	case http.MethodPut:
		var asset models.Asset
		if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		asset.ID = id
		if err := h.store.UpdateAsset(r.Context(), &asset); err != nil {
			writeStoreError(w, err)
			return
		}
		json.NewEncoder(w).Encode(&asset)
	case http.MethodDelete:
		if err := h.store.DeleteAsset(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleConnectionAssets removes every asset synced from an external source
// @Summary Remove all assets for a connection source
// @Tags assets
// @Produce json
// @Param source path string true "Connection source (plaid, snaptrade, coinbase)"
// @Success 200 {object} map[string]int64
// @Router /assets/connections/{source} [delete]
func (h *AssetHandler) HandleConnectionAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := mux.Vars(r)["source"]
	deleted, err := h.store.DeleteByConnectionSource(r.Context(), source)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
}

func writeStoreError(w http.ResponseWriter, err error) {
	var validationErr *apperrors.ErrValidation
	if errors.As(err, &validationErr) {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}
	var notFoundErr *apperrors.ErrNotFound
	if errors.As(err, &notFoundErr) {
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
