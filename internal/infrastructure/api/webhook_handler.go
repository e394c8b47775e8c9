package api

import (
	"encoding/json"
	"io"
	"net/http"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/tiendanube"

	"github.com/rs/zerolog"
)

// signatureHeader is where Tiendanube delivers the HMAC of the raw body.
const signatureHeader = "x-linkedstore-hmac-sha256"

// maxWebhookBody caps webhook payload reads. Real payloads are tiny.
const maxWebhookBody = 1 << 20

// WebhookHandler is the HTTP boundary for Tiendanube webhook deliveries:
// verify the signature over the raw body, decode, dispatch, acknowledge.
type WebhookHandler struct {
	verifier   *tiendanube.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(verifier *tiendanube.WebhookVerifier, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, logger: logger}
}

// Receive handles one webhook delivery. A 200 tells Tiendanube to stop
// retrying, so anything past verification acknowledges even when processing
// fails downstream.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	if err := h.verifier.Verify(body, r.Header.Get(signatureHeader)); err != nil {
		h.logger.Warn().Err(err).Msg("Webhook signature rejected")
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
		return
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	if event.Topic == "" || event.StoreID == 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "event and store_id are required"})
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), &event); err != nil {
		// Only unroutable topics land here. Acknowledge anyway; retrying
		// an unknown topic will never succeed.
		h.logger.Warn().Err(err).Str("topic", event.Topic).Msg("Webhook not routed")
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
