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

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	productsCollection *mongo.Collection
	variantsCollection *mongo.Collection
	imagesCollection   *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository
func NewMongoProductRepository(db *mongo.Database) ports.ProductRepository {
	return &MongoProductRepository{
		productsCollection: db.Collection("products"),
		variantsCollection: db.Collection("product_variants"),
		imagesCollection:   db.Collection("product_images"),
	}
}

// Upsert saves or updates a product keyed by (storeId, productId)
func (r *MongoProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	doc := entity.MongoProductDocFromDomain(product)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": product.StoreID, "productId": product.ProductID}
	update := bson.M{"$set": doc}

	_, err := r.productsCollection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

// SetSyncError records a sync diagnostic on the product record
func (r *MongoProductRepository) SetSyncError(ctx context.Context, storeID, productID int64, msg string, at time.Time) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"storeId": storeID, "productId": productID}
	update := bson.M{"$set": bson.M{"syncError": msg, "syncedAt": at}}

	_, err := r.productsCollection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set sync error: %w", err)
	}

	return nil
}

// Get retrieves a product by its composite key
func (r *MongoProductRepository) Get(ctx context.Context, storeID, productID int64) (*domain.Product, error) {
	var doc entity.MongoProductDoc
	filter := bson.M{"storeId": storeID, "productId": productID}

	err := r.productsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return doc.ToDomain(), nil
}

// FindByHandle retrieves a product with the given handle whose remote id
// differs from excludeID, used for handle collision checks
func (r *MongoProductRepository) FindByHandle(ctx context.Context, storeID int64, handle string, excludeID int64) (*domain.Product, error) {
	var doc entity.MongoProductDoc
	filter := bson.M{
		"storeId":   storeID,
		"handle":    handle,
		"productId": bson.M{"$ne": excludeID},
	}

	err := r.productsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by handle: %w", err)
	}

	return doc.ToDomain(), nil
}

func buildProductFilter(f domain.ProductFilter) bson.M {
	filter := bson.M{"storeId": f.StoreID}

	if f.Published != nil {
		filter["published"] = *f.Published
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.InStock != nil {
		if *f.InStock {
			filter["totalStock"] = bson.M{"$gt": 0}
		} else {
			filter["totalStock"] = bson.M{"$lte": 0}
		}
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if f.SearchTerm != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.SearchTerm), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}

	return filter
}

func sortForOption(sort domain.SortOption) bson.D {
	switch sort {
	case domain.SortOldest:
		return bson.D{{Key: "createdAtTN", Value: 1}}
	case domain.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case domain.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case domain.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	case domain.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	case domain.SortStockDesc:
		return bson.D{{Key: "totalStock", Value: -1}}
	default:
		return bson.D{{Key: "createdAtTN", Value: -1}}
	}
}

// Find retrieves a page of products matching the filter, plus the total count
func (r *MongoProductRepository) Find(ctx context.Context, f domain.ProductFilter, p domain.Pagination, sort domain.SortOption) ([]*domain.Product, int64, error) {
	p = p.Normalize()
	filter := buildProductFilter(f)

	total, err := r.productsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(sortForOption(sort)).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))

	cursor, err := r.productsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return products, total, nil
}

// FindByTags retrieves up to limit products sharing at least one tag,
// excluding the given product
func (r *MongoProductRepository) FindByTags(ctx context.Context, storeID int64, tags []string, excludeID int64, limit int) ([]*domain.Product, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"storeId":   storeID,
		"published": true,
		"tags":      bson.M{"$in": tags},
		"productId": bson.M{"$ne": excludeID},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAtTN", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.productsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return products, nil
}

// TagCounts aggregates how many published products carry each tag
func (r *MongoProductRepository) TagCounts(ctx context.Context, storeID int64) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"storeId": storeID, "published": true}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.productsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tags: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			Tag   string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode tag count: %w", err)
		}
		counts[row.Tag] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return counts, nil
}

// CountByStore counts products in a store, optionally by published state
func (r *MongoProductRepository) CountByStore(ctx context.Context, storeID int64, published *bool) (int64, error) {
	filter := bson.M{"storeId": storeID}
	if published != nil {
		filter["published"] = *published
	}

	count, err := r.productsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Delete removes a product and its variant and image rows
func (r *MongoProductRepository) Delete(ctx context.Context, storeID, productID int64) error {
	filter := bson.M{"storeId": storeID, "productId": productID}

	if _, err := r.productsCollection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if _, err := r.variantsCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete variants: %w", err)
	}
	if _, err := r.imagesCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	return nil
}

// DeleteByStore removes every product, variant and image for a store
func (r *MongoProductRepository) DeleteByStore(ctx context.Context, storeID int64) error {
	filter := bson.M{"storeId": storeID}

	if _, err := r.productsCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	if _, err := r.variantsCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete variants: %w", err)
	}
	if _, err := r.imagesCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	return nil
}

// ReplaceVariants swaps the full variant set for a product
func (r *MongoProductRepository) ReplaceVariants(ctx context.Context, storeID, productID int64, variants []domain.Variant) error {
	filter := bson.M{"storeId": storeID, "productId": productID}

	if _, err := r.variantsCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear variants: %w", err)
	}

	if len(variants) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(variants))
	for _, v := range variants {
		docs = append(docs, entity.MongoVariantDocFromDomain(v))
	}

	if _, err := r.variantsCollection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert variants: %w", err)
	}

	return nil
}

// ReplaceImages swaps the full image set for a product
func (r *MongoProductRepository) ReplaceImages(ctx context.Context, storeID, productID int64, images []domain.Image) error {
	filter := bson.M{"storeId": storeID, "productId": productID}

	if _, err := r.imagesCollection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}

	if len(images) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(images))
	for _, img := range images {
		docs = append(docs, entity.MongoImageDocFromDomain(img))
	}

	if _, err := r.imagesCollection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert images: %w", err)
	}

	return nil
}

// VariantsFor retrieves a product's variants
func (r *MongoProductRepository) VariantsFor(ctx context.Context, storeID, productID int64) ([]domain.Variant, error) {
	filter := bson.M{"storeId": storeID, "productId": productID}

	cursor, err := r.variantsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find variants: %w", err)
	}
	defer cursor.Close(ctx)

	var variants []domain.Variant
	for cursor.Next(ctx) {
		var doc entity.MongoVariantDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode variant: %w", err)
		}
		variants = append(variants, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return variants, nil
}

// ImagesFor retrieves a product's images ordered by position
func (r *MongoProductRepository) ImagesFor(ctx context.Context, storeID, productID int64) ([]domain.Image, error) {
	filter := bson.M{"storeId": storeID, "productId": productID}
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.imagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []domain.Image
	for cursor.Next(ctx) {
		var doc entity.MongoImageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		images = append(images, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return images, nil
}
