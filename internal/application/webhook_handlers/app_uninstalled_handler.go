package webhook_handlers

import (
	"context"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler clears the store credential when the merchant
// removes the app. The mirrored data stays so a reinstall resumes cleanly.
type AppUninstalledHandler struct {
	stores *application.StoreService
	logger zerolog.Logger
}

// NewAppUninstalledHandler creates a new app-uninstalled webhook handler
func NewAppUninstalledHandler(stores *application.StoreService, logger zerolog.Logger) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		stores: stores,
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

// Handle processes an app uninstallation
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.logger.Info().
		Int64("store_id", event.StoreID).
		Msg("Processing app uninstall")

	return h.stores.Uninstall(ctx, event.StoreID)
}
