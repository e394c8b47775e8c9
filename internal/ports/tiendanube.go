package ports

import (
	"context"

	"appnube-sync-layer/internal/infrastructure/tiendanube"
)

// TiendanubeClient defines the upstream API operations the application
// layer depends on. Paged fetches return an empty slice when the upstream
// signals "no more pages"; that is the loop-termination signal, not an
// error.
type TiendanubeClient interface {
	// OAuth
	ExchangeCode(ctx context.Context, code string) (*tiendanube.TokenResponse, error)
	GetStore(ctx context.Context, shopID int64, accessToken string) (*tiendanube.StoreInfo, error)

	// Products
	FetchProducts(ctx context.Context, shopID int64, accessToken string, page int) ([]tiendanube.Product, error)
	FetchProduct(ctx context.Context, shopID int64, accessToken string, productID int64) (*tiendanube.Product, error)

	// Categories
	FetchCategories(ctx context.Context, shopID int64, accessToken string, page int) ([]tiendanube.Category, error)
	FetchCategory(ctx context.Context, shopID int64, accessToken string, categoryID int64) (*tiendanube.Category, error)

	// Webhooks
	CreateWebhook(ctx context.Context, shopID int64, accessToken, topic, address string) (*tiendanube.Webhook, error)
	ListWebhooks(ctx context.Context, shopID int64, accessToken string) ([]tiendanube.Webhook, error)
	DeleteWebhook(ctx context.Context, shopID int64, accessToken string, webhookID int64) error
}
