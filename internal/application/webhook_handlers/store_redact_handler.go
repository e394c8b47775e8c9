package webhook_handlers

import (
	"context"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/rs/zerolog"
)

// StoreRedactHandler handles the GDPR store/redact webhook by removing the
// store record and every mirrored document that belongs to it.
type StoreRedactHandler struct {
	stores *application.StoreService
	logger zerolog.Logger
}

// NewStoreRedactHandler creates a new store-redact webhook handler
func NewStoreRedactHandler(stores *application.StoreService, logger zerolog.Logger) *StoreRedactHandler {
	return &StoreRedactHandler{
		stores: stores,
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *StoreRedactHandler) CanHandle(topic string) bool {
	return topic == domain.TopicStoreRedact
}

// Handle processes a GDPR store redact request
func (h *StoreRedactHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.logger.Info().
		Int64("store_id", event.StoreID).
		Msg("Processing store redact request")

	return h.stores.Redact(ctx, event.StoreID)
}
