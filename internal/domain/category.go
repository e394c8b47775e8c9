package domain

import "time"

// Category is the mirrored record for one Tiendanube category, keyed by
// (StoreID, CategoryID). Parent is nil for roots; a non-nil parent that does
// not resolve to a known category is tolerated and the node is treated as a
// root when building trees.
type Category struct {
	StoreID                int64     `json:"storeId"`
	CategoryID             int64     `json:"categoryId"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Handle                 string    `json:"handle"`
	Parent                 *int64    `json:"parent"`
	Subcategories          []int64   `json:"subcategories"`
	SEOTitle               string    `json:"seoTitle,omitempty"`
	SEODescription         string    `json:"seoDescription,omitempty"`
	GoogleShoppingCategory string    `json:"googleShoppingCategory,omitempty"`
	CreatedAtTN            time.Time `json:"createdAtTN"`
	UpdatedAtTN            time.Time `json:"updatedAtTN"`
	SyncedAt               time.Time `json:"syncedAt"`
	SyncError              string    `json:"syncError,omitempty"`
}

// CategoryNode is a category with its resolved children, as returned by the
// tree builder.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// BreadcrumbEntry is one step of a category breadcrumb, ordered root first.
type BreadcrumbEntry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle,omitempty"`
}

// CategoryStats summarizes a store's category set.
type CategoryStats struct {
	TotalCategories int `json:"totalCategories"`
	RootCategories  int `json:"rootCategories"`
	MaxDepth        int `json:"maxDepth"`
	WithSyncError   int `json:"withSyncError"`
}
