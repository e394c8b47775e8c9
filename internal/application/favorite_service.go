package application

import (
	"context"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// FavoriteEntry is a bookmark hydrated with its product, when the product
// still exists in the mirror.
type FavoriteEntry struct {
	Favorite *domain.Favorite `json:"favorite"`
	Product  *domain.Product  `json:"product,omitempty"`
}

// FavoriteService manages user product bookmarks.
type FavoriteService struct {
	favorites ports.FavoriteRepository
	products  ports.ProductRepository
	logger    zerolog.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites ports.FavoriteRepository, products ports.ProductRepository, logger zerolog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		products:  products,
		logger:    logger,
	}
}

// Add bookmarks a product for the user. The product must exist in the
// mirror; adding an existing bookmark is a no-op.
func (s *FavoriteService) Add(ctx context.Context, userID string, shopID, productID int64) error {
	product, err := s.products.Get(ctx, shopID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	return s.favorites.Add(ctx, &domain.Favorite{
		UserID:    userID,
		StoreID:   shopID,
		ProductID: productID,
	})
}

// Remove deletes a bookmark. Removing an absent bookmark is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, userID string, shopID, productID int64) error {
	return s.favorites.Remove(ctx, userID, shopID, productID)
}

// List retrieves the user's bookmarks hydrated with their products. Bookmarks
// whose product left the mirror are returned without one.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]FavoriteEntry, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]FavoriteEntry, 0, len(favorites))
	for _, fav := range favorites {
		product, err := s.products.Get(ctx, fav.StoreID, fav.ProductID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FavoriteEntry{Favorite: fav, Product: product})
	}

	return entries, nil
}
