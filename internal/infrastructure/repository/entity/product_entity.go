package entity

import (
	"time"

	"appnube-sync-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoProductDoc represents a mirrored product in MongoDB, keyed by the
// (storeId, productId) composite.
type MongoProductDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	StoreID      int64              `bson:"storeId"`
	ProductID    int64              `bson:"productId"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Price        float64            `bson:"price"`
	Handle       string             `bson:"handle"`
	Permalink    string             `bson:"permalink"`
	Published    bool               `bson:"published"`
	FreeShipping bool               `bson:"freeShipping"`
	Tags         []string           `bson:"tags"`
	Categories   []int64            `bson:"categories"`
	MainImage    string             `bson:"mainImage,omitempty"`
	TotalStock   int                `bson:"totalStock"`
	CreatedAtTN  time.Time          `bson:"createdAtTN"`
	UpdatedAtTN  time.Time          `bson:"updatedAtTN"`
	SyncedAt     time.Time          `bson:"syncedAt"`
	SyncError    string             `bson:"syncError,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoProductDoc) ToDomain() *domain.Product {
	return &domain.Product{
		StoreID:      d.StoreID,
		ProductID:    d.ProductID,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		Handle:       d.Handle,
		Permalink:    d.Permalink,
		Published:    d.Published,
		FreeShipping: d.FreeShipping,
		Tags:         d.Tags,
		Categories:   d.Categories,
		MainImage:    d.MainImage,
		TotalStock:   d.TotalStock,
		CreatedAtTN:  d.CreatedAtTN,
		UpdatedAtTN:  d.UpdatedAtTN,
		SyncedAt:     d.SyncedAt,
		SyncError:    d.SyncError,
	}
}

// MongoProductDocFromDomain converts a domain entity to a MongoDB document.
func MongoProductDocFromDomain(p *domain.Product) *MongoProductDoc {
	return &MongoProductDoc{
		StoreID:      p.StoreID,
		ProductID:    p.ProductID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Handle:       p.Handle,
		Permalink:    p.Permalink,
		Published:    p.Published,
		FreeShipping: p.FreeShipping,
		Tags:         p.Tags,
		Categories:   p.Categories,
		MainImage:    p.MainImage,
		TotalStock:   p.TotalStock,
		CreatedAtTN:  p.CreatedAtTN,
		UpdatedAtTN:  p.UpdatedAtTN,
		SyncedAt:     p.SyncedAt,
		SyncError:    p.SyncError,
	}
}

// MongoVariantDoc represents a product variant row.
type MongoVariantDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StoreID     int64              `bson:"storeId"`
	ProductID   int64              `bson:"productId"`
	VariantID   int64              `bson:"variantId"`
	SKU         string             `bson:"sku"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Options     []string           `bson:"options"`
	UpdatedAtTN time.Time          `bson:"updatedAtTN"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoVariantDoc) ToDomain() domain.Variant {
	return domain.Variant{
		StoreID:     d.StoreID,
		ProductID:   d.ProductID,
		VariantID:   d.VariantID,
		SKU:         d.SKU,
		Price:       d.Price,
		Stock:       d.Stock,
		Options:     d.Options,
		UpdatedAtTN: d.UpdatedAtTN,
	}
}

// MongoVariantDocFromDomain converts a domain entity to a MongoDB document.
func MongoVariantDocFromDomain(v domain.Variant) MongoVariantDoc {
	return MongoVariantDoc{
		StoreID:     v.StoreID,
		ProductID:   v.ProductID,
		VariantID:   v.VariantID,
		SKU:         v.SKU,
		Price:       v.Price,
		Stock:       v.Stock,
		Options:     v.Options,
		UpdatedAtTN: v.UpdatedAtTN,
	}
}

// MongoImageDoc represents a product image row.
type MongoImageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StoreID   int64              `bson:"storeId"`
	ProductID int64              `bson:"productId"`
	ImageID   int64              `bson:"imageId"`
	Src       string             `bson:"src"`
	Alt       string             `bson:"alt,omitempty"`
	Position  int                `bson:"position"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoImageDoc) ToDomain() domain.Image {
	return domain.Image{
		StoreID:   d.StoreID,
		ProductID: d.ProductID,
		ImageID:   d.ImageID,
		Src:       d.Src,
		Alt:       d.Alt,
		Position:  d.Position,
	}
}

// MongoImageDocFromDomain converts a domain entity to a MongoDB document.
func MongoImageDocFromDomain(img domain.Image) MongoImageDoc {
	return MongoImageDoc{
		StoreID:   img.StoreID,
		ProductID: img.ProductID,
		ImageID:   img.ImageID,
		Src:       img.Src,
		Alt:       img.Alt,
		Position:  img.Position,
	}
}
