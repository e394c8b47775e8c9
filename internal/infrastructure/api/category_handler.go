package api

import (
	"net/http"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CategoryHandler serves read-only category endpoints: flat listings, the
// assembled tree, breadcrumbs, search and stats.
type CategoryHandler struct {
	categories *application.CategoryService
	logger     zerolog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *application.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// Routes mounts the category endpoints
func (h *CategoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/tree", h.tree)
	r.Get("/roots", h.roots)
	r.Get("/search", h.search)
	r.Get("/stats", h.stats)
	r.Get("/{shopID}/{categoryID}", h.get)
	r.Get("/{shopID}/{categoryID}/subcategories", h.subcategories)
	r.Get("/{shopID}/{categoryID}/breadcrumb", h.breadcrumb)
	return r
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	categories, err := h.categories.List(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	if categories == nil {
		categories = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *CategoryHandler) tree(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	tree, err := h.categories.Tree(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	if tree == nil {
		tree = []*domain.CategoryNode{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tree": tree})
}

func (h *CategoryHandler) roots(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	roots, err := h.categories.Roots(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	if roots == nil {
		roots = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": roots})
}

func (h *CategoryHandler) search(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	results, err := h.categories.Search(r.Context(), shopID, r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err)
		return
	}

	if results == nil {
		results = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": results})
}

func (h *CategoryHandler) stats(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	stats, err := h.categories.Stats(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request) {
	shopID, categoryID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Get(r.Context(), shopID, categoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) subcategories(w http.ResponseWriter, r *http.Request) {
	shopID, categoryID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	children, err := h.categories.Subcategories(r.Context(), shopID, categoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	if children == nil {
		children = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": children})
}

func (h *CategoryHandler) breadcrumb(w http.ResponseWriter, r *http.Request) {
	shopID, categoryID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	path, err := h.categories.Breadcrumb(r.Context(), shopID, categoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	if path == nil {
		path = []domain.BreadcrumbEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"breadcrumb": path})
}

func (h *CategoryHandler) pathIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	shopID, ok := int64Param(r, "shopID")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid shop id"})
		return 0, 0, false
	}
	categoryID, ok := int64Param(r, "categoryID")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid category id"})
		return 0, 0, false
	}
	return shopID, categoryID, true
}
