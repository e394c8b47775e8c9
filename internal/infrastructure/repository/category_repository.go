package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/repository/entity"
	"appnube-sync-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCategoryRepository implements CategoryRepository using MongoDB
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoDB category repository
func NewMongoCategoryRepository(db *mongo.Database) ports.CategoryRepository {
	return &MongoCategoryRepository{
		collection: db.Collection("categories"),
	}
}

// Upsert saves or updates a category keyed by (storeId, categoryId)
func (r *MongoCategoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	doc := entity.MongoCategoryDocFromDomain(category)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": category.StoreID, "categoryId": category.CategoryID}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// SetSyncError records a sync diagnostic on the category record
func (r *MongoCategoryRepository) SetSyncError(ctx context.Context, storeID, categoryID int64, msg string, at time.Time) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": storeID, "categoryId": categoryID}
	update := bson.M{"$set": bson.M{"syncError": msg, "syncedAt": at}}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set sync error: %w", err)
	}

	return nil
}

// Get retrieves a category by its composite key
func (r *MongoCategoryRepository) Get(ctx context.Context, storeID, categoryID int64) (*domain.Category, error) {
	var doc entity.MongoCategoryDoc
	filter := bson.M{"storeId": storeID, "categoryId": categoryID}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return doc.ToDomain(), nil
}

func (r *MongoCategoryRepository) findAll(ctx context.Context, filter bson.M) ([]*domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []*domain.Category
	for cursor.Next(ctx) {
		var doc entity.MongoCategoryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		categories = append(categories, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return categories, nil
}

// ListByStore retrieves every category in a store
func (r *MongoCategoryRepository) ListByStore(ctx context.Context, storeID int64) ([]*domain.Category, error) {
	return r.findAll(ctx, bson.M{"storeId": storeID})
}

// ListRoots retrieves categories without a parent
func (r *MongoCategoryRepository) ListRoots(ctx context.Context, storeID int64) ([]*domain.Category, error) {
	return r.findAll(ctx, bson.M{"storeId": storeID, "parent": nil})
}

// ListChildren retrieves the direct children of a category
func (r *MongoCategoryRepository) ListChildren(ctx context.Context, storeID, parentID int64) ([]*domain.Category, error) {
	return r.findAll(ctx, bson.M{"storeId": storeID, "parent": parentID})
}

// Search retrieves categories whose name or description matches the term,
// case-insensitive
func (r *MongoCategoryRepository) Search(ctx context.Context, storeID int64, term string) ([]*domain.Category, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{
		"storeId": storeID,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		},
	}

	return r.findAll(ctx, filter)
}

// Delete removes a category
func (r *MongoCategoryRepository) Delete(ctx context.Context, storeID, categoryID int64) error {
	filter := bson.M{"storeId": storeID, "categoryId": categoryID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// DeleteByStore removes every category for a store
func (r *MongoCategoryRepository) DeleteByStore(ctx context.Context, storeID int64) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"storeId": storeID})
	if err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}

	return nil
}
