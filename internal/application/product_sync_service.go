package application

import (
	"context"
	"fmt"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/metrics"
	"appnube-sync-layer/internal/infrastructure/tiendanube"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// MaxProductPages caps the product paging loop. Hitting the cap is a normal
// completion, not an error; it bounds a single sync run on very large
// catalogs.
const MaxProductPages = 20

// ProductSyncService mirrors products from the Tiendanube API into MongoDB.
type ProductSyncService struct {
	client     ports.TiendanubeClient
	products   ports.ProductRepository
	stores     ports.StoreRepository
	encryption ports.EncryptionService
	normalizer *Normalizer
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewProductSyncService creates a new product sync service
func NewProductSyncService(
	client ports.TiendanubeClient,
	products ports.ProductRepository,
	stores ports.StoreRepository,
	encryption ports.EncryptionService,
	normalizer *Normalizer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ProductSyncService {
	return &ProductSyncService{
		client:     client,
		products:   products,
		stores:     stores,
		encryption: encryption,
		normalizer: normalizer,
		metrics:    m,
		logger:     logger,
	}
}

// credentials resolves and decrypts a store's API credential. A store that
// never completed OAuth fails here, before any network call.
func (s *ProductSyncService) credentials(store *domain.Store) (int64, string, error) {
	if store == nil {
		return 0, "", domain.ErrNotFound
	}
	if !store.HasCredentials() {
		return 0, "", domain.NewConfigError("store %s has no tiendanube credentials", store.ID)
	}

	token, err := s.encryption.Decrypt(store.AccessToken)
	if err != nil {
		return 0, "", fmt.Errorf("failed to decrypt access token: %w", err)
	}

	return *store.ShopID, token, nil
}

// SyncAll mirrors the store's full product catalog. Per-item failures are
// accumulated into the summary and written back onto the record; fetch
// failures abort the run.
func (s *ProductSyncService) SyncAll(ctx context.Context, storeID string) (*domain.SyncSummary, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	shopID, token, err := s.credentials(store)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &domain.SyncSummary{StoreID: shopID}

	s.logger.Info().Str("store_id", storeID).Int64("shop_id", shopID).Msg("Starting product sync")

	for page := 1; page <= MaxProductPages; page++ {
		batch, err := s.client.FetchProducts(ctx, shopID, token, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			raw := &batch[i]
			if err := s.save(ctx, shopID, raw); err != nil {
				s.recordFailure(ctx, shopID, raw.ID, err, summary)
				continue
			}
			summary.TotalSynced++
			s.metrics.SyncedItems.WithLabelValues("product").Inc()
		}

		if len(batch) < tiendanube.PageSize {
			break
		}
		if page == MaxProductPages {
			s.logger.Warn().
				Int64("shop_id", shopID).
				Int("pages", page).
				Msg("Product sync reached page cap, finishing")
		}
	}

	if err := s.stores.UpdateLastSync(ctx, store.ID, time.Now()); err != nil {
		s.logger.Error().Err(err).Str("store_id", store.ID).Msg("Failed to update last sync timestamp")
	}

	s.metrics.SyncDuration.WithLabelValues("products").Observe(time.Since(start).Seconds())

	summary.Message = fmt.Sprintf("Synced %d products", summary.TotalSynced)
	s.logger.Info().
		Int64("shop_id", shopID).
		Int("synced", summary.TotalSynced).
		Int("failed", len(summary.Errors)).
		Msg("Product sync finished")

	return summary, nil
}

// SyncOne refreshes a single product, typically in response to a webhook. A
// 404 from the upstream means the product is gone and removes the local
// mirror.
func (s *ProductSyncService) SyncOne(ctx context.Context, shopID, productID int64) error {
	store, err := s.stores.GetByShopID(ctx, shopID)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	_, token, err := s.credentials(store)
	if err != nil {
		return err
	}

	raw, err := s.client.FetchProduct(ctx, shopID, token, productID)
	if err != nil {
		if ue, ok := domain.AsUpstreamError(err); ok && ue.IsNotFound() {
			return s.Delete(ctx, shopID, productID)
		}
		return fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	if err := s.save(ctx, shopID, raw); err != nil {
		s.recordFailure(ctx, shopID, productID, err, nil)
		return err
	}

	s.metrics.SyncedItems.WithLabelValues("product").Inc()
	return nil
}

// Delete removes a product mirror and its children. Deleting an absent
// product is a no-op.
func (s *ProductSyncService) Delete(ctx context.Context, shopID, productID int64) error {
	if err := s.products.Delete(ctx, shopID, productID); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}

	s.logger.Info().Int64("shop_id", shopID).Int64("product_id", productID).Msg("Product mirror removed")
	return nil
}

// save normalizes and upserts one product, replacing its variant and image
// children. Handles that collide with another product in the store get the
// remote id appended.
func (s *ProductSyncService) save(ctx context.Context, shopID int64, raw *tiendanube.Product) error {
	product, variants, images := s.normalizer.NormalizeProduct(shopID, raw, time.Now())

	existing, err := s.products.FindByHandle(ctx, shopID, product.Handle, product.ProductID)
	if err != nil {
		return fmt.Errorf("failed to check handle collision: %w", err)
	}
	if existing != nil {
		product.Handle = fmt.Sprintf("%s-%d", product.Handle, product.ProductID)
		if raw.CanonicalURL == "" {
			product.Permalink = fmt.Sprintf("https://%d.mitiendanube.com/productos/%s", shopID, product.Handle)
		}
	}

	if err := s.products.Upsert(ctx, product); err != nil {
		return err
	}
	if err := s.products.ReplaceVariants(ctx, shopID, product.ProductID, variants); err != nil {
		return err
	}
	if err := s.products.ReplaceImages(ctx, shopID, product.ProductID, images); err != nil {
		return err
	}

	return nil
}

// recordFailure accumulates a per-item error and writes the diagnostic onto
// the record. The writeback is best-effort; its own failure is only logged.
func (s *ProductSyncService) recordFailure(ctx context.Context, shopID, productID int64, cause error, summary *domain.SyncSummary) {
	s.logger.Error().
		Err(cause).
		Int64("shop_id", shopID).
		Int64("product_id", productID).
		Msg("Failed to sync product")

	s.metrics.SyncErrors.WithLabelValues("product").Inc()

	if summary != nil {
		summary.Errors = append(summary.Errors, domain.SyncItemError{ID: productID, Error: cause.Error()})
	}

	if err := s.products.SetSyncError(ctx, shopID, productID, cause.Error(), time.Now()); err != nil {
		s.logger.Error().
			Err(err).
			Int64("product_id", productID).
			Msg("Failed to record sync error")
	}
}
