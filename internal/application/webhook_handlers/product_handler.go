package webhook_handlers

import (
	"context"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/debounce"

	"github.com/rs/zerolog"
)

// ProductHandler handles product webhook events. Create and update bursts
// are coalesced by the debouncer into a single resync; deletes apply
// immediately.
type ProductHandler struct {
	sync      *application.ProductSyncService
	debouncer *debounce.Debouncer
	logger    zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(sync *application.ProductSyncService, debouncer *debounce.Debouncer, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		sync:      sync,
		debouncer: debouncer,
		logger:    logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductCreated ||
		topic == domain.TopicProductUpdated ||
		topic == domain.TopicProductDeleted
}

// Handle processes a product webhook event
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.logger.Info().
		Str("topic", event.Topic).
		Int64("store_id", event.StoreID).
		Int64("product_id", event.EntityID).
		Msg("Processing product webhook event")

	switch event.Topic {
	case domain.TopicProductDeleted:
		return h.sync.Delete(ctx, event.StoreID, event.EntityID)
	default:
		h.debouncer.Schedule(event.Topic, event.StoreID, event.EntityID, h.sync.SyncOne)
		return nil
	}
}
