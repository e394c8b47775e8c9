package ports

import (
	"context"
	"time"

	"appnube-sync-layer/internal/domain"
)

// StoreRepository persists Store records. Lookups return (nil, nil) when the
// store does not exist.
type StoreRepository interface {
	Save(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByShopID(ctx context.Context, shopID int64) (*domain.Store, error)
	GetByURL(ctx context.Context, url string) (*domain.Store, error)
	List(ctx context.Context, p domain.Pagination) ([]*domain.Store, int64, error)
	UpdateLastSync(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	// ClearCredentials removes the access token but keeps the record
	// (app-uninstall behavior).
	ClearCredentials(ctx context.Context, shopID int64) error
	// DeleteByShopID removes the store record entirely (GDPR redact).
	DeleteByShopID(ctx context.Context, shopID int64) error
}

// ProductRepository persists mirrored products and their children. Upserts
// are keyed by (storeID, productID); child rows are fully replaced on every
// resync.
type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) error
	// SetSyncError writes a diagnostic error onto the record, creating it
	// if needed. Callers treat failures here as best-effort.
	SetSyncError(ctx context.Context, storeID, productID int64, msg string, at time.Time) error
	Get(ctx context.Context, storeID, productID int64) (*domain.Product, error)
	// FindByHandle returns a product in the store with the given handle and
	// a remote id different from excludeID, or (nil, nil).
	FindByHandle(ctx context.Context, storeID int64, handle string, excludeID int64) (*domain.Product, error)
	Find(ctx context.Context, filter domain.ProductFilter, p domain.Pagination, sort domain.SortOption) ([]*domain.Product, int64, error)
	FindByTags(ctx context.Context, storeID int64, tags []string, excludeID int64, limit int) ([]*domain.Product, error)
	TagCounts(ctx context.Context, storeID int64) (map[string]int, error)
	CountByStore(ctx context.Context, storeID int64, published *bool) (int64, error)
	Delete(ctx context.Context, storeID, productID int64) error
	DeleteByStore(ctx context.Context, storeID int64) error

	ReplaceVariants(ctx context.Context, storeID, productID int64, variants []domain.Variant) error
	ReplaceImages(ctx context.Context, storeID, productID int64, images []domain.Image) error
	VariantsFor(ctx context.Context, storeID, productID int64) ([]domain.Variant, error)
	ImagesFor(ctx context.Context, storeID, productID int64) ([]domain.Image, error)
}

// CategoryRepository persists mirrored categories.
type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) error
	SetSyncError(ctx context.Context, storeID, categoryID int64, msg string, at time.Time) error
	Get(ctx context.Context, storeID, categoryID int64) (*domain.Category, error)
	ListByStore(ctx context.Context, storeID int64) ([]*domain.Category, error)
	ListRoots(ctx context.Context, storeID int64) ([]*domain.Category, error)
	ListChildren(ctx context.Context, storeID, parentID int64) ([]*domain.Category, error)
	Search(ctx context.Context, storeID int64, term string) ([]*domain.Category, error)
	Delete(ctx context.Context, storeID, categoryID int64) error
	DeleteByStore(ctx context.Context, storeID int64) error
}

// UserRepository persists local user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	MarkVerified(ctx context.Context, id string) error
}

// FavoriteRepository persists user-to-product bookmarks.
type FavoriteRepository interface {
	Add(ctx context.Context, fav *domain.Favorite) error
	Exists(ctx context.Context, userID string, storeID, productID int64) (bool, error)
	Remove(ctx context.Context, userID string, storeID, productID int64) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error)
}
