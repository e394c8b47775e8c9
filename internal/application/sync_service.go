package application

import (
	"context"
	"sync"

	"appnube-sync-layer/internal/domain"

	"github.com/rs/zerolog"
)

// SyncService runs the product and category pipelines as one full store
// sync. The pipelines touch disjoint collections, so they run concurrently.
type SyncService struct {
	products   *ProductSyncService
	categories *CategorySyncService
	logger     zerolog.Logger
}

// NewSyncService creates a new full-store sync service
func NewSyncService(products *ProductSyncService, categories *CategorySyncService, logger zerolog.Logger) *SyncService {
	return &SyncService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// SyncStore mirrors a store's full catalog and category set and merges the
// two summaries. A hard failure in either pipeline (configuration or fetch
// error) aborts the whole run; per-item failures are reported in the merged
// summary.
func (s *SyncService) SyncStore(ctx context.Context, storeID string) (*domain.SyncReport, error) {
	var (
		wg          sync.WaitGroup
		prodSummary *domain.SyncSummary
		prodErr     error
		catSummary  *domain.SyncSummary
		catErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		catSummary, catErr = s.categories.SyncAll(ctx, storeID)
	}()
	go func() {
		defer wg.Done()
		prodSummary, prodErr = s.products.SyncAll(ctx, storeID)
	}()
	wg.Wait()

	if catErr != nil {
		return nil, catErr
	}
	if prodErr != nil {
		return nil, prodErr
	}

	report := &domain.SyncReport{
		StoreID:     prodSummary.StoreID,
		TotalSynced: prodSummary.TotalSynced + catSummary.TotalSynced,
		Products:    prodSummary,
		Categories:  catSummary,
	}
	report.Errors = append(report.Errors, catSummary.Errors...)
	report.Errors = append(report.Errors, prodSummary.Errors...)

	s.logger.Info().
		Str("store_id", storeID).
		Int("total_synced", report.TotalSynced).
		Int("failed", len(report.Errors)).
		Msg("Full store sync finished")

	return report, nil
}
