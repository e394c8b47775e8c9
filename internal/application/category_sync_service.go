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

// MaxCategoryPages caps the category paging loop. Category sets are small;
// the cap is a safety bound, and hitting it is a normal completion.
const MaxCategoryPages = 10

// categoryTreeKey is the cache key for a store's assembled category tree.
func categoryTreeKey(shopID int64) string {
	return fmt.Sprintf("categories:tree:%d", shopID)
}

// CategorySyncService mirrors categories from the Tiendanube API into
// MongoDB and keeps the cached tree invalidated.
type CategorySyncService struct {
	client     ports.TiendanubeClient
	categories ports.CategoryRepository
	stores     ports.StoreRepository
	encryption ports.EncryptionService
	normalizer *Normalizer
	cache      ports.Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewCategorySyncService creates a new category sync service
func NewCategorySyncService(
	client ports.TiendanubeClient,
	categories ports.CategoryRepository,
	stores ports.StoreRepository,
	encryption ports.EncryptionService,
	normalizer *Normalizer,
	cache ports.Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CategorySyncService {
	return &CategorySyncService{
		client:     client,
		categories: categories,
		stores:     stores,
		encryption: encryption,
		normalizer: normalizer,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

func (s *CategorySyncService) credentials(store *domain.Store) (int64, string, error) {
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

// SyncAll mirrors the store's full category set. Per-item failures are
// accumulated; fetch failures abort the run.
func (s *CategorySyncService) SyncAll(ctx context.Context, storeID string) (*domain.SyncSummary, error) {
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

	s.logger.Info().Str("store_id", storeID).Int64("shop_id", shopID).Msg("Starting category sync")

	for page := 1; page <= MaxCategoryPages; page++ {
		batch, err := s.client.FetchCategories(ctx, shopID, token, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch categories page %d: %w", page, err)
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
			s.metrics.SyncedItems.WithLabelValues("category").Inc()
		}

		if len(batch) < tiendanube.PageSize {
			break
		}
		if page == MaxCategoryPages {
			s.logger.Warn().
				Int64("shop_id", shopID).
				Int("pages", page).
				Msg("Category sync reached page cap, finishing")
		}
	}

	s.invalidateTree(ctx, shopID)
	s.metrics.SyncDuration.WithLabelValues("categories").Observe(time.Since(start).Seconds())

	summary.Message = fmt.Sprintf("Synced %d categories", summary.TotalSynced)
	s.logger.Info().
		Int64("shop_id", shopID).
		Int("synced", summary.TotalSynced).
		Int("failed", len(summary.Errors)).
		Msg("Category sync finished")

	return summary, nil
}

// SyncOne refreshes a single category, typically in response to a webhook.
// A 404 from the upstream removes the local mirror.
func (s *CategorySyncService) SyncOne(ctx context.Context, shopID, categoryID int64) error {
	store, err := s.stores.GetByShopID(ctx, shopID)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	_, token, err := s.credentials(store)
	if err != nil {
		return err
	}

	raw, err := s.client.FetchCategory(ctx, shopID, token, categoryID)
	if err != nil {
		if ue, ok := domain.AsUpstreamError(err); ok && ue.IsNotFound() {
			return s.Delete(ctx, shopID, categoryID)
		}
		return fmt.Errorf("failed to fetch category %d: %w", categoryID, err)
	}

	if err := s.save(ctx, shopID, raw); err != nil {
		s.recordFailure(ctx, shopID, categoryID, err, nil)
		return err
	}

	s.invalidateTree(ctx, shopID)
	s.metrics.SyncedItems.WithLabelValues("category").Inc()
	return nil
}

// Delete removes a category mirror. Deleting an absent category is a no-op.
func (s *CategorySyncService) Delete(ctx context.Context, shopID, categoryID int64) error {
	if err := s.categories.Delete(ctx, shopID, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}

	s.invalidateTree(ctx, shopID)
	s.logger.Info().Int64("shop_id", shopID).Int64("category_id", categoryID).Msg("Category mirror removed")
	return nil
}

func (s *CategorySyncService) save(ctx context.Context, shopID int64, raw *tiendanube.Category) error {
	category := s.normalizer.NormalizeCategory(shopID, raw, time.Now())
	return s.categories.Upsert(ctx, category)
}

func (s *CategorySyncService) invalidateTree(ctx context.Context, shopID int64) {
	if err := s.cache.Delete(ctx, categoryTreeKey(shopID)); err != nil {
		s.logger.Warn().Err(err).Int64("shop_id", shopID).Msg("Failed to invalidate category tree cache")
	}
}

func (s *CategorySyncService) recordFailure(ctx context.Context, shopID, categoryID int64, cause error, summary *domain.SyncSummary) {
	s.logger.Error().
		Err(cause).
		Int64("shop_id", shopID).
		Int64("category_id", categoryID).
		Msg("Failed to sync category")

	s.metrics.SyncErrors.WithLabelValues("category").Inc()

	if summary != nil {
		summary.Errors = append(summary.Errors, domain.SyncItemError{ID: categoryID, Error: cause.Error()})
	}

	if err := s.categories.SetSyncError(ctx, shopID, categoryID, cause.Error(), time.Now()); err != nil {
		s.logger.Error().
			Err(err).
			Int64("category_id", categoryID).
			Msg("Failed to record sync error")
	}
}
