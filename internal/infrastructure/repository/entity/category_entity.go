package entity

import (
	"time"

	"appnube-sync-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoCategoryDoc represents a mirrored category in MongoDB, keyed by the
// (storeId, categoryId) composite.
type MongoCategoryDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	StoreID                int64              `bson:"storeId"`
	CategoryID             int64              `bson:"categoryId"`
	Name                   string             `bson:"name"`
	Description            string             `bson:"description"`
	Handle                 string             `bson:"handle"`
	Parent                 *int64             `bson:"parent"`
	Subcategories          []int64            `bson:"subcategories"`
	SEOTitle               string             `bson:"seoTitle,omitempty"`
	SEODescription         string             `bson:"seoDescription,omitempty"`
	GoogleShoppingCategory string             `bson:"googleShoppingCategory,omitempty"`
	CreatedAtTN            time.Time          `bson:"createdAtTN"`
	UpdatedAtTN            time.Time          `bson:"updatedAtTN"`
	SyncedAt               time.Time          `bson:"syncedAt"`
	SyncError              string             `bson:"syncError,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoCategoryDoc) ToDomain() *domain.Category {
	return &domain.Category{
		StoreID:                d.StoreID,
		CategoryID:             d.CategoryID,
		Name:                   d.Name,
		Description:            d.Description,
		Handle:                 d.Handle,
		Parent:                 d.Parent,
		Subcategories:          d.Subcategories,
		SEOTitle:               d.SEOTitle,
		SEODescription:         d.SEODescription,
		GoogleShoppingCategory: d.GoogleShoppingCategory,
		CreatedAtTN:            d.CreatedAtTN,
		UpdatedAtTN:            d.UpdatedAtTN,
		SyncedAt:               d.SyncedAt,
		SyncError:              d.SyncError,
	}
}

// MongoCategoryDocFromDomain converts a domain entity to a MongoDB document.
func MongoCategoryDocFromDomain(c *domain.Category) *MongoCategoryDoc {
	return &MongoCategoryDoc{
		StoreID:                c.StoreID,
		CategoryID:             c.CategoryID,
		Name:                   c.Name,
		Description:            c.Description,
		Handle:                 c.Handle,
		Parent:                 c.Parent,
		Subcategories:          c.Subcategories,
		SEOTitle:               c.SEOTitle,
		SEODescription:         c.SEODescription,
		GoogleShoppingCategory: c.GoogleShoppingCategory,
		CreatedAtTN:            c.CreatedAtTN,
		UpdatedAtTN:            c.UpdatedAtTN,
		SyncedAt:               c.SyncedAt,
		SyncError:              c.SyncError,
	}
}
