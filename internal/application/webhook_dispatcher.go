package application

import (
	"context"
	"fmt"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/metrics"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// webhookDedupTTL is how long an exact delivery (topic, store, entity) is
// remembered for replay suppression. Tiendanube retries failed deliveries
// within seconds.
const webhookDedupTTL = 10 * time.Second

// dedupable reports whether replay suppression applies to a topic.
// Create/update deliveries carry nothing but ids, so a retry is
// byte-identical to a genuine second change; suppressing those would eat
// real updates for the whole TTL. The debouncer downstream already
// coalesces retry storms for them, so they skip the gate.
func dedupable(topic string) bool {
	switch topic {
	case domain.TopicProductCreated, domain.TopicProductUpdated,
		domain.TopicCategoryCreated, domain.TopicCategoryUpdated:
		return false
	}
	return true
}

// WebhookHandler processes verified webhook events for the topics it claims.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to their handler. Handler
// errors are logged, never propagated: the delivery is acknowledged once it
// is verified and routed.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	cache    ports.Cache
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a dispatcher over the given handlers
func NewWebhookDispatcher(cache ports.Cache, m *metrics.Metrics, logger zerolog.Logger, handlers ...WebhookHandler) *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: handlers,
		cache:    cache,
		metrics:  m,
		logger:   logger,
	}
}

// Dispatch routes one event. Exact duplicate deliveries within the dedup
// window are dropped before any handler runs. An event no handler claims is
// an error; everything else is acknowledged.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	d.metrics.WebhookEvents.WithLabelValues(event.Topic).Inc()

	if dedupable(event.Topic) {
		dedupKey := fmt.Sprintf("webhook:%s:%d:%d", event.Topic, event.StoreID, event.EntityID)
		first, err := d.cache.MarkOnce(ctx, dedupKey, webhookDedupTTL)
		if err != nil {
			// A broken cache must not drop deliveries; process anyway.
			d.logger.Warn().Err(err).Str("topic", event.Topic).Msg("Webhook dedup check failed")
		} else if !first {
			d.logger.Debug().
				Str("topic", event.Topic).
				Int64("store_id", event.StoreID).
				Int64("entity_id", event.EntityID).
				Msg("Duplicate webhook delivery dropped")
			return nil
		}
	}

	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}

		if err := h.Handle(ctx, event); err != nil {
			d.logger.Error().
				Err(err).
				Str("topic", event.Topic).
				Int64("store_id", event.StoreID).
				Int64("entity_id", event.EntityID).
				Msg("Webhook handler failed")
		}
		return nil
	}

	return fmt.Errorf("no handler for webhook topic %q", event.Topic)
}
