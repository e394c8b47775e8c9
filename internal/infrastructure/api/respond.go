package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps service errors onto HTTP statuses. Internal details are
// not leaked for unexpected errors.
func respondError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, application.ErrStoreExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrEmailTaken):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrInvalidCredentials), errors.Is(err, application.ErrInvalidToken):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.As(err, &cfgErr):
		respondJSON(w, http.StatusConflict, errorResponse{Error: cfgErr.Reason})
	default:
		if ue, ok := domain.AsUpstreamError(err); ok {
			if ue.IsAuthorization() {
				respondJSON(w, http.StatusConflict, errorResponse{Error: "store authorization expired"})
				return
			}
			respondJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream api error"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func int64Param(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}

func int64Query(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v, err == nil
}

func paginationFromQuery(r *http.Request) domain.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.Pagination{Page: page, Limit: limit}.Normalize()
}
