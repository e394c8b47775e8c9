package application

import (
	"encoding/json"
	"testing"
	"time"

	"appnube-sync-layer/internal/infrastructure/tiendanube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, payload string) *tiendanube.Product {
	t.Helper()
	var raw tiendanube.Product
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return &raw
}

func TestNormalizeProductLocalizedFields(t *testing.T) {
	raw := mustProduct(t, `{
		"id": 10,
		"name": {"es": "Remera", "en": "Tee"},
		"description": {"en": "Soft cotton"},
		"handle": {"es": "remera"},
		"published": true,
		"variants": [{"id": 101, "price": "1999.90", "stock": 5}]
	}`)

	now := time.Now()
	product, variants, _ := NewNormalizer("es").NormalizeProduct(testShopID, raw, now)

	assert.Equal(t, "Remera", product.Name)
	// No es translation; any available language beats the fallback.
	assert.Equal(t, "Soft cotton", product.Description)
	assert.Equal(t, "remera", product.Handle)
	assert.Equal(t, 1999.90, product.Price)
	assert.Equal(t, now, product.SyncedAt)
	require.Len(t, variants, 1)
	assert.Equal(t, int64(101), variants[0].VariantID)
}

func TestNormalizeProductFallbackName(t *testing.T) {
	raw := mustProduct(t, `{"id": 7, "name": null}`)

	product, _, _ := NewNormalizer("es").NormalizeProduct(testShopID, raw, time.Now())

	assert.Equal(t, "Product 7", product.Name)
	assert.Equal(t, "product-7", product.Handle)
	assert.Equal(t, 0.0, product.Price)
}

func TestNormalizeProductPermalink(t *testing.T) {
	withCanonical := mustProduct(t, `{"id": 1, "handle": "taza", "canonical_url": "https://shop.example/productos/taza"}`)
	product, _, _ := NewNormalizer("es").NormalizeProduct(testShopID, withCanonical, time.Now())
	assert.Equal(t, "https://shop.example/productos/taza", product.Permalink)

	withoutCanonical := mustProduct(t, `{"id": 1, "handle": "taza"}`)
	product, _, _ = NewNormalizer("es").NormalizeProduct(testShopID, withoutCanonical, time.Now())
	assert.Equal(t, "https://777.mitiendanube.com/productos/taza", product.Permalink)
}

func TestNormalizeProductTags(t *testing.T) {
	raw := mustProduct(t, `{"id": 1, "tags": " verano, oferta ,, remeras "}`)

	product, _, _ := NewNormalizer("es").NormalizeProduct(testShopID, raw, time.Now())

	assert.Equal(t, []string{"verano", "oferta", "remeras"}, product.Tags)
}

func TestNormalizeProductStockAndMainImage(t *testing.T) {
	raw := mustProduct(t, `{
		"id": 1,
		"variants": [
			{"id": 11, "price": "100.00", "stock": 2},
			{"id": 12, "price": "120.00", "stock": 3}
		],
		"images": [
			{"id": 22, "src": "https://cdn.example/b.jpg", "position": 2},
			{"id": 21, "src": "https://cdn.example/a.jpg", "position": 1, "alt": ["Frente"]}
		]
	}`)

	product, variants, images := NewNormalizer("es").NormalizeProduct(testShopID, raw, time.Now())

	assert.Equal(t, 5, product.TotalStock)
	assert.Equal(t, 100.00, product.Price)
	assert.Equal(t, "https://cdn.example/a.jpg", product.MainImage)
	require.Len(t, images, 2)
	assert.Equal(t, "Frente", images[0].Alt)
	require.Len(t, variants, 2)
}

func TestNormalizeProductCategoryRefs(t *testing.T) {
	raw := mustProduct(t, `{"id": 1, "categories": [{"id": 4, "name": "Ropa"}, {"id": 9, "name": {"es": "Ofertas"}}]}`)

	product, _, _ := NewNormalizer("es").NormalizeProduct(testShopID, raw, time.Now())

	assert.Equal(t, []int64{4, 9}, product.Categories)
}

func TestNormalizeCategory(t *testing.T) {
	var raw tiendanube.Category
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 5,
		"name": {"es": "Calzado"},
		"handle": {"es": "calzado"},
		"parent": 2,
		"subcategories": [8, 9],
		"seo_title": {"es": "Calzado de verano"},
		"google_shopping_category": "Apparel"
	}`), &raw))

	category := NewNormalizer("es").NormalizeCategory(testShopID, &raw, time.Now())

	assert.Equal(t, "Calzado", category.Name)
	assert.Equal(t, "calzado", category.Handle)
	require.NotNil(t, category.Parent)
	assert.Equal(t, int64(2), *category.Parent)
	assert.Equal(t, []int64{8, 9}, category.Subcategories)
	assert.Equal(t, "Calzado de verano", category.SEOTitle)
	assert.Equal(t, "Apparel", category.GoogleShoppingCategory)
}

func TestNormalizeCategoryFallbackName(t *testing.T) {
	var raw tiendanube.Category
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3}`), &raw))

	category := NewNormalizer("es").NormalizeCategory(testShopID, &raw, time.Now())

	assert.Equal(t, "Category 3", category.Name)
	assert.Nil(t, category.Parent)
}
