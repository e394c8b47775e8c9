package application

import (
	"context"
	"errors"
	"fmt"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ErrStoreExists is returned when creating a store whose URL is already
// registered.
var ErrStoreExists = errors.New("store already exists")

// StoreService manages store records and the lifecycle operations driven by
// app-uninstall and GDPR webhooks.
type StoreService struct {
	stores     ports.StoreRepository
	products   ports.ProductRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

// NewStoreService creates a new store service
func NewStoreService(
	stores ports.StoreRepository,
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	logger zerolog.Logger,
) *StoreService {
	return &StoreService{
		stores:     stores,
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// Create registers a new store. The URL must be unique; credentials arrive
// later through the OAuth flow.
func (s *StoreService) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	existing, err := s.stores.GetByURL(ctx, store.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStoreExists
	}

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, err
	}

	created, err := s.stores.GetByURL(ctx, store.URL)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("url", store.URL).Msg("Store created")
	return created, nil
}

// Get retrieves a store by document id
func (s *StoreService) Get(ctx context.Context, id string) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// GetByShopID retrieves a store by its Tiendanube shop id
func (s *StoreService) GetByShopID(ctx context.Context, shopID int64) (*domain.Store, error) {
	store, err := s.stores.GetByShopID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// List retrieves a page of stores
func (s *StoreService) List(ctx context.Context, p domain.Pagination) ([]*domain.Store, *domain.PageInfo, error) {
	p = p.Normalize()

	stores, total, err := s.stores.List(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	info := domain.NewPageInfo(p, total)
	return stores, &info, nil
}

// Update rewrites a store's descriptive fields, preserving its credentials
// and sync state.
func (s *StoreService) Update(ctx context.Context, id string, name, description, logo string) (*domain.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		store.Name = name
	}
	store.Description = description
	store.Logo = logo

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a store and every mirrored document that belongs to it
func (s *StoreService) Delete(ctx context.Context, id string) error {
	store, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if store.ShopID != nil {
		if err := s.purgeMirror(ctx, *store.ShopID); err != nil {
			return err
		}
	}

	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("store_id", id).Msg("Store deleted")
	return nil
}

// Uninstall handles app/uninstalled: the credential is cleared but the store
// and its mirror stay, so a reinstall resumes where it left off.
func (s *StoreService) Uninstall(ctx context.Context, shopID int64) error {
	if err := s.stores.ClearCredentials(ctx, shopID); err != nil {
		return err
	}

	s.logger.Info().Int64("shop_id", shopID).Msg("Store credentials cleared after uninstall")
	return nil
}

// Redact handles the GDPR store/redact webhook: the store record and all of
// its mirrored data are removed.
func (s *StoreService) Redact(ctx context.Context, shopID int64) error {
	if err := s.purgeMirror(ctx, shopID); err != nil {
		return err
	}
	if err := s.stores.DeleteByShopID(ctx, shopID); err != nil {
		return err
	}

	s.logger.Info().Int64("shop_id", shopID).Msg("Store redacted")
	return nil
}

func (s *StoreService) purgeMirror(ctx context.Context, shopID int64) error {
	if err := s.products.DeleteByStore(ctx, shopID); err != nil {
		return fmt.Errorf("failed to purge products: %w", err)
	}
	if err := s.categories.DeleteByStore(ctx, shopID); err != nil {
		return fmt.Errorf("failed to purge categories: %w", err)
	}
	return nil
}
