package application

import (
	"context"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// relatedProductsLimit caps the related-products response.
const relatedProductsLimit = 8

// ProductService answers product reads against the local mirror. It never
// talks to the upstream API.
type ProductService struct {
	products ports.ProductRepository
	logger   zerolog.Logger
}

// NewProductService creates a new product read service
func NewProductService(products ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Find retrieves a filtered, sorted page of products plus page info
func (s *ProductService) Find(ctx context.Context, filter domain.ProductFilter, p domain.Pagination, sort domain.SortOption) ([]*domain.Product, *domain.PageInfo, error) {
	p = p.Normalize()

	products, total, err := s.products.Find(ctx, filter, p, sort)
	if err != nil {
		return nil, nil, err
	}

	info := domain.NewPageInfo(p, total)
	return products, &info, nil
}

// Detail retrieves a product with its variants, images and derived stats
func (s *ProductService) Detail(ctx context.Context, shopID, productID int64) (*domain.ProductDetail, error) {
	product, err := s.products.Get(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	variants, err := s.products.VariantsFor(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	images, err := s.products.ImagesFor(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{
		Product:  product,
		Variants: variants,
		Images:   images,
		Stats:    computeProductStats(variants, images),
	}, nil
}

// computeProductStats derives variant price and stock aggregates.
func computeProductStats(variants []domain.Variant, images []domain.Image) domain.ProductStats {
	stats := domain.ProductStats{
		TotalVariants: len(variants),
		TotalImages:   len(images),
	}

	for i, v := range variants {
		stats.TotalStock += v.Stock
		if i == 0 || v.Price < stats.MinPrice {
			stats.MinPrice = v.Price
		}
		if v.Price > stats.MaxPrice {
			stats.MaxPrice = v.Price
		}
		stats.AveragePrice += v.Price
	}

	if len(variants) > 0 {
		stats.AveragePrice /= float64(len(variants))
	}
	stats.HasStock = stats.TotalStock > 0

	return stats
}

// Related retrieves published products sharing at least one tag with the
// given product, the product itself excluded
func (s *ProductService) Related(ctx context.Context, shopID, productID int64) ([]*domain.Product, error) {
	product, err := s.products.Get(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if len(product.Tags) == 0 {
		return nil, nil
	}

	return s.products.FindByTags(ctx, shopID, product.Tags, productID, relatedProductsLimit)
}

// Tags retrieves the store's tag vocabulary with usage counts over published
// products
func (s *ProductService) Tags(ctx context.Context, shopID int64) (map[string]int, error) {
	return s.products.TagCounts(ctx, shopID)
}

// Stats summarizes the store's mirrored catalog
func (s *ProductService) Stats(ctx context.Context, shopID int64) (*domain.StoreProductStats, error) {
	total, err := s.products.CountByStore(ctx, shopID, nil)
	if err != nil {
		return nil, err
	}

	published := true
	pub, err := s.products.CountByStore(ctx, shopID, &published)
	if err != nil {
		return nil, err
	}

	return &domain.StoreProductStats{
		TotalProducts:       total,
		PublishedProducts:   pub,
		UnpublishedProducts: total - pub,
	}, nil
}
