package entity

import (
	"time"

	"appnube-sync-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoStoreDoc represents a store in MongoDB. The access token field holds
// ciphertext; decryption happens in the application layer.
type MongoStoreDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	URL         string             `bson:"tiendanubeUrl"`
	Description string             `bson:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty"`
	ShopID      *int64             `bson:"storeId,omitempty"`
	AccessToken string             `bson:"accessToken,omitempty"`
	LastSync    *time.Time         `bson:"lastSync,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoStoreDoc) ToDomain() *domain.Store {
	return &domain.Store{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		URL:         d.URL,
		Description: d.Description,
		Logo:        d.Logo,
		ShopID:      d.ShopID,
		AccessToken: d.AccessToken,
		LastSync:    d.LastSync,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoStoreDocFromDomain converts a domain entity to a MongoDB document.
func MongoStoreDocFromDomain(s *domain.Store) *MongoStoreDoc {
	doc := &MongoStoreDoc{
		Name:        s.Name,
		URL:         s.URL,
		Description: s.Description,
		Logo:        s.Logo,
		ShopID:      s.ShopID,
		AccessToken: s.AccessToken,
		LastSync:    s.LastSync,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	if s.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(s.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
