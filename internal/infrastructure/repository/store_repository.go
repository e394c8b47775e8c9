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

// MongoStoreRepository implements StoreRepository using MongoDB
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoDB store repository
func NewMongoStoreRepository(db *mongo.Database) ports.StoreRepository {
	return &MongoStoreRepository{
		collection: db.Collection("stores"),
	}
}

// Save saves or updates a store. New stores are keyed by their Tiendanube
// store id so reinstalls reuse the existing record.
func (r *MongoStoreRepository) Save(ctx context.Context, store *domain.Store) error {
	doc := entity.MongoStoreDocFromDomain(store)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	var filter bson.M
	switch {
	case !doc.ID.IsZero():
		filter = bson.M{"_id": doc.ID}
	case store.ShopID != nil:
		filter = bson.M{"storeId": *store.ShopID}
	default:
		filter = bson.M{"tiendanubeUrl": store.URL}
	}

	doc.ID = primitive.NilObjectID

	opts := options.Update().SetUpsert(true)
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}

	return nil
}

// GetByID retrieves a store by its document id
func (r *MongoStoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoStoreDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByShopID retrieves a store by its Tiendanube store id
func (r *MongoStoreRepository) GetByShopID(ctx context.Context, shopID int64) (*domain.Store, error) {
	var doc entity.MongoStoreDoc
	err := r.collection.FindOne(ctx, bson.M{"storeId": shopID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetByURL retrieves a store by its storefront URL
func (r *MongoStoreRepository) GetByURL(ctx context.Context, url string) (*domain.Store, error) {
	var doc entity.MongoStoreDoc
	err := r.collection.FindOne(ctx, bson.M{"tiendanubeUrl": url}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return doc.ToDomain(), nil
}

// List retrieves a page of stores plus the total count
func (r *MongoStoreRepository) List(ctx context.Context, p domain.Pagination) ([]*domain.Store, int64, error) {
	p = p.Normalize()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []*domain.Store
	for cursor.Next(ctx) {
		var doc entity.MongoStoreDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode store: %w", err)
		}
		stores = append(stores, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return stores, total, nil
}

// UpdateLastSync stamps the last successful sync time
func (r *MongoStoreRepository) UpdateLastSync(ctx context.Context, id string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid store id %q: %w", id, err)
	}

	update := bson.M{"$set": bson.M{"lastSync": at, "updatedAt": time.Now()}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}

	return nil
}

// Delete removes a store by its document id
func (r *MongoStoreRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid store id %q: %w", id, err)
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	return nil
}

// ClearCredentials drops the access token but keeps the store record
func (r *MongoStoreRepository) ClearCredentials(ctx context.Context, shopID int64) error {
	update := bson.M{
		"$unset": bson.M{"accessToken": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"storeId": shopID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	return nil
}

// DeleteByShopID removes the store record entirely
func (r *MongoStoreRepository) DeleteByShopID(ctx context.Context, shopID int64) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"storeId": shopID})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	return nil
}
