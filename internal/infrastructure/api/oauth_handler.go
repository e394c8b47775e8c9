package api

import (
	"net/http"

	"appnube-sync-layer/internal/application"

	"github.com/rs/zerolog"
)

// OAuthHandler completes the Tiendanube install flow at the HTTP boundary.
type OAuthHandler struct {
	oauth      *application.OAuthService
	successURL string
	logger     zerolog.Logger
}

// NewOAuthHandler creates a new OAuth handler. When successURL is set the
// callback redirects the merchant there; otherwise it answers with the
// authorized store.
func NewOAuthHandler(oauth *application.OAuthService, successURL string, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, successURL: successURL, logger: logger}
}

// Callback receives the authorization code redirect from Tiendanube.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}

	store, err := h.oauth.HandleCallback(r.Context(), code)
	if err != nil {
		h.logger.Error().Err(err).Msg("OAuth callback failed")
		respondError(w, err)
		return
	}

	if h.successURL != "" {
		http.Redirect(w, r, h.successURL+"?store_id="+store.ID, http.StatusFound)
		return
	}
	respondJSON(w, http.StatusOK, store)
}
