package entity

import (
	"time"

	"appnube-sync-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoUserDoc represents a user account in MongoDB.
type MongoUserDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"passwordHash"`
	EmailVerified     bool               `bson:"emailVerified"`
	VerificationToken string             `bson:"verificationToken,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoUserDoc) ToDomain() *domain.User {
	return &domain.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		EmailVerified:     d.EmailVerified,
		VerificationToken: d.VerificationToken,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// MongoUserDocFromDomain converts a domain entity to a MongoDB document.
func MongoUserDocFromDomain(u *domain.User) *MongoUserDoc {
	doc := &MongoUserDoc{
		Name:              u.Name,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		EmailVerified:     u.EmailVerified,
		VerificationToken: u.VerificationToken,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}

	if u.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}

// MongoFavoriteDoc represents a user-to-product bookmark in MongoDB.
type MongoFavoriteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	StoreID   int64              `bson:"storeId"`
	ProductID int64              `bson:"productId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoFavoriteDoc) ToDomain() *domain.Favorite {
	return &domain.Favorite{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		StoreID:   d.StoreID,
		ProductID: d.ProductID,
		CreatedAt: d.CreatedAt,
	}
}
