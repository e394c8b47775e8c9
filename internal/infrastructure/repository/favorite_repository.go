package repository

import (
	"context"
	"fmt"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/repository/entity"
	"appnube-sync-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFavoriteRepository implements FavoriteRepository using MongoDB
type MongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository creates a new MongoDB favorite repository
func NewMongoFavoriteRepository(db *mongo.Database) ports.FavoriteRepository {
	return &MongoFavoriteRepository{
		collection: db.Collection("favorites"),
	}
}

// Add records a bookmark, idempotently per (user, store, product)
func (r *MongoFavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) error {
	filter := bson.M{
		"userId":    fav.UserID,
		"storeId":   fav.StoreID,
		"productId": fav.ProductID,
	}

	createdAt := fav.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"userId":    fav.UserID,
			"storeId":   fav.StoreID,
			"productId": fav.ProductID,
			"createdAt": createdAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// Exists reports whether the user already bookmarked the product
func (r *MongoFavoriteRepository) Exists(ctx context.Context, userID string, storeID, productID int64) (bool, error) {
	filter := bson.M{"userId": userID, "storeId": storeID, "productId": productID}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return count > 0, nil
}

// Remove deletes a bookmark
func (r *MongoFavoriteRepository) Remove(ctx context.Context, userID string, storeID, productID int64) error {
	filter := bson.M{"userId": userID, "storeId": storeID, "productId": productID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

// ListByUser retrieves all bookmarks for a user, newest first
func (r *MongoFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []*domain.Favorite
	for cursor.Next(ctx) {
		var doc entity.MongoFavoriteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		favorites = append(favorites, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return favorites, nil
}
