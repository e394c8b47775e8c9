package api

import (
	"encoding/json"
	"net/http"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StoreHandler serves the store management endpoints, including the manual
// sync trigger.
type StoreHandler struct {
	stores *application.StoreService
	sync   *application.SyncService
	logger zerolog.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(stores *application.StoreService, sync *application.SyncService, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{stores: stores, sync: sync, logger: logger}
}

// Routes mounts the store endpoints
func (h *StoreHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/sync", h.syncStore)
	return r
}

type storeRequest struct {
	Name        string `json:"name"`
	URL         string `json:"tiendanubeUrl"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

func (h *StoreHandler) list(w http.ResponseWriter, r *http.Request) {
	stores, pageInfo, err := h.stores.List(r.Context(), paginationFromQuery(r))
	if err != nil {
		respondError(w, err)
		return
	}

	if stores == nil {
		stores = []*domain.Store{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"stores": stores, "pageInfo": pageInfo})
}

func (h *StoreHandler) create(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.URL == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "tiendanubeUrl is required"})
		return
	}

	store, err := h.stores.Create(r.Context(), &domain.Store{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Logo:        req.Logo,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, store)
}

func (h *StoreHandler) get(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) update(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	store, err := h.stores.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description, req.Logo)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// syncStore runs a full sync inline and returns the merged report. Long
// catalogs can take a while; callers are expected to use generous timeouts.
func (h *StoreHandler) syncStore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.sync.SyncStore(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("store_id", id).Msg("Manual sync failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
