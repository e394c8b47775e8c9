package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the sync layer.
type Metrics struct {
	SyncedItems    *prometheus.CounterVec
	SyncErrors     *prometheus.CounterVec
	SyncDuration   *prometheus.HistogramVec
	WebhookEvents  *prometheus.CounterVec
	UpstreamCalls  *prometheus.CounterVec
}

// New registers the collectors on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SyncedItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appnube_sync_items_total",
			Help: "Items mirrored from Tiendanube, by entity type.",
		}, []string{"entity"}),
		SyncErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appnube_sync_errors_total",
			Help: "Per-item sync failures, by entity type.",
		}, []string{"entity"}),
		SyncDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "appnube_sync_duration_seconds",
			Help:    "Duration of full store sync runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"entity"}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appnube_webhook_events_total",
			Help: "Webhook deliveries accepted, by topic.",
		}, []string{"topic"}),
		UpstreamCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appnube_upstream_requests_total",
			Help: "Requests issued to the Tiendanube API, by outcome.",
		}, []string{"outcome"}),
	}
}
