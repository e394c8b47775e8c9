package webhook_handlers

import (
	"context"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/debounce"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category webhook events, mirroring the product
// handler: debounced resync on create/update, immediate delete.
type CategoryHandler struct {
	sync      *application.CategorySyncService
	debouncer *debounce.Debouncer
	logger    zerolog.Logger
}

// NewCategoryHandler creates a new category webhook handler
func NewCategoryHandler(sync *application.CategorySyncService, debouncer *debounce.Debouncer, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		sync:      sync,
		debouncer: debouncer,
		logger:    logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *CategoryHandler) CanHandle(topic string) bool {
	return topic == domain.TopicCategoryCreated ||
		topic == domain.TopicCategoryUpdated ||
		topic == domain.TopicCategoryDeleted
}

// Handle processes a category webhook event
func (h *CategoryHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.logger.Info().
		Str("topic", event.Topic).
		Int64("store_id", event.StoreID).
		Int64("category_id", event.EntityID).
		Msg("Processing category webhook event")

	switch event.Topic {
	case domain.TopicCategoryDeleted:
		return h.sync.Delete(ctx, event.StoreID, event.EntityID)
	default:
		h.debouncer.Schedule(event.Topic, event.StoreID, event.EntityID, h.sync.SyncOne)
		return nil
	}
}
