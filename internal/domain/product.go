package domain

import "time"

// Product is the canonical mirrored record for one Tiendanube product,
// keyed by (StoreID, ProductID). Only the sync pipeline writes it.
type Product struct {
	StoreID      int64     `json:"storeId"`
	ProductID    int64     `json:"productId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Handle       string    `json:"handle"`
	Permalink    string    `json:"permalink"`
	Published    bool      `json:"published"`
	FreeShipping bool      `json:"freeShipping"`
	Tags         []string  `json:"tags"`
	Categories   []int64   `json:"categories"`
	MainImage    string    `json:"mainImage,omitempty"`
	TotalStock   int       `json:"totalStock"`
	CreatedAtTN  time.Time `json:"createdAtTN"`
	UpdatedAtTN  time.Time `json:"updatedAtTN"`
	SyncedAt     time.Time `json:"syncedAt"`
	SyncError    string    `json:"syncError,omitempty"`
}

// Variant is a child of a Product, keyed by (StoreID, ProductID, VariantID).
// Variants are fully replaced on every product resync.
type Variant struct {
	StoreID     int64     `json:"storeId"`
	ProductID   int64     `json:"productId"`
	VariantID   int64     `json:"variantId"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Options     []string  `json:"options"`
	UpdatedAtTN time.Time `json:"updatedAtTN"`
}

// Image is a child of a Product, keyed by (StoreID, ProductID, ImageID).
// Images are fully replaced on every product resync.
type Image struct {
	StoreID   int64  `json:"storeId"`
	ProductID int64  `json:"productId"`
	ImageID   int64  `json:"imageId"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	Position  int    `json:"position"`
}

// ProductStats summarizes a product's variants for detail responses.
type ProductStats struct {
	TotalVariants int     `json:"totalVariants"`
	TotalImages   int     `json:"totalImages"`
	TotalStock    int     `json:"totalStock"`
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	AveragePrice  float64 `json:"averagePrice"`
	HasStock      bool    `json:"hasStock"`
}

// ProductDetail is a product with its children and derived stats.
type ProductDetail struct {
	Product  *Product     `json:"product"`
	Variants []Variant    `json:"variants"`
	Images   []Image      `json:"images"`
	Stats    ProductStats `json:"stats"`
}

// StoreProductStats summarizes a store's mirrored catalog.
type StoreProductStats struct {
	TotalProducts       int64 `json:"totalProducts"`
	PublishedProducts   int64 `json:"publishedProducts"`
	UnpublishedProducts int64 `json:"unpublishedProducts"`
}

// ProductFilter narrows product queries. Nil pointer fields are ignored.
type ProductFilter struct {
	StoreID    int64
	Published  *bool
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	Tags       []string
	SearchTerm string
}

// SortOption selects the ordering of product listings.
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortOldest    SortOption = "oldest"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortStockDesc SortOption = "stock-desc"
)

// ParseSortOption maps a query string value to a SortOption, defaulting to
// newest-first for unknown values.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortOldest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortStockDesc:
		return SortOption(s)
	default:
		return SortNewest
	}
}
