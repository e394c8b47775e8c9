package api

import (
	"encoding/json"
	"net/http"

	"appnube-sync-layer/internal/application"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// FavoriteHandler serves the authenticated bookmark endpoints. Every route
// here runs behind AuthHandler.RequireAuth.
type FavoriteHandler struct {
	favorites *application.FavoriteService
	logger    zerolog.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites *application.FavoriteService, logger zerolog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// Routes mounts the favorite endpoints
func (h *FavoriteHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Delete("/{shopID}/{productID}", h.remove)
	return r
}

type favoriteRequest struct {
	StoreID   int64 `json:"store_id"`
	ProductID int64 `json:"product_id"`
}

func (h *FavoriteHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	entries, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	if entries == nil {
		entries = []application.FavoriteEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": entries})
}

func (h *FavoriteHandler) add(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.StoreID == 0 || req.ProductID == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id and product_id are required"})
		return
	}

	if err := h.favorites.Add(r.Context(), userID, req.StoreID, req.ProductID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *FavoriteHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	shopID, ok := int64Param(r, "shopID")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid shop id"})
		return
	}
	productID, ok := int64Param(r, "productID")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, shopID, productID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
