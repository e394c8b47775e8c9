package api

import (
	"net/http"
	"strconv"
	"strings"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler serves read-only product endpoints over the local mirror.
type ProductHandler struct {
	products *application.ProductService
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *application.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// Routes mounts the product endpoints
func (h *ProductHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/tags", h.tags)
	r.Get("/stats", h.stats)
	r.Get("/{shopID}/{productID}", h.detail)
	r.Get("/{shopID}/{productID}/related", h.related)
	return r
}

type productListResponse struct {
	Products []*domain.Product `json:"products"`
	PageInfo *domain.PageInfo  `json:"pageInfo"`
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	filter := filterFromQuery(r, shopID)
	pagination := paginationFromQuery(r)
	sort := domain.ParseSortOption(r.URL.Query().Get("sort"))

	products, pageInfo, err := h.products.Find(r.Context(), filter, pagination, sort)
	if err != nil {
		h.logger.Error().Err(err).Int64("shop_id", shopID).Msg("Product listing failed")
		respondError(w, err)
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, productListResponse{Products: products, PageInfo: pageInfo})
}

// filterFromQuery builds a ProductFilter from list query parameters. Absent
// parameters leave their filter fields nil.
func filterFromQuery(r *http.Request, shopID int64) domain.ProductFilter {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		StoreID:    shopID,
		SearchTerm: strings.TrimSpace(q.Get("q")),
	}

	if v := q.Get("published"); v != "" {
		published := v == "true"
		filter.Published = &published
	}
	if v := q.Get("in_stock"); v != "" {
		inStock := v == "true"
		filter.InStock = &inStock
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v := q.Get("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	return filter
}

func (h *ProductHandler) detail(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.products.Detail(r.Context(), shopID, productID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

func (h *ProductHandler) related(w http.ResponseWriter, r *http.Request) {
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

	related, err := h.products.Related(r.Context(), shopID, productID)
	if err != nil {
		respondError(w, err)
		return
	}

	if related == nil {
		related = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": related})
}

func (h *ProductHandler) tags(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	tags, err := h.products.Tags(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	if tags == nil {
		tags = map[string]int{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

func (h *ProductHandler) stats(w http.ResponseWriter, r *http.Request) {
	shopID, ok := int64Query(r, "store_id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "store_id is required"})
		return
	}

	stats, err := h.products.Stats(r.Context(), shopID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
