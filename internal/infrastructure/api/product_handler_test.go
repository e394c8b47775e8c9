package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductRepo struct {
	products   []*domain.Product
	lastFilter domain.ProductFilter
	lastSort   domain.SortOption
}

func (r *stubProductRepo) Upsert(ctx context.Context, product *domain.Product) error { return nil }
func (r *stubProductRepo) SetSyncError(ctx context.Context, storeID, productID int64, msg string, at time.Time) error {
	return nil
}
func (r *stubProductRepo) Get(ctx context.Context, storeID, productID int64) (*domain.Product, error) {
	for _, p := range r.products {
		if p.StoreID == storeID && p.ProductID == productID {
			return p, nil
		}
	}
	return nil, nil
}
func (r *stubProductRepo) FindByHandle(ctx context.Context, storeID int64, handle string, excludeID int64) (*domain.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) Find(ctx context.Context, filter domain.ProductFilter, p domain.Pagination, sort domain.SortOption) ([]*domain.Product, int64, error) {
	r.lastFilter = filter
	r.lastSort = sort
	return r.products, int64(len(r.products)), nil
}
func (r *stubProductRepo) FindByTags(ctx context.Context, storeID int64, tags []string, excludeID int64, limit int) ([]*domain.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) TagCounts(ctx context.Context, storeID int64) (map[string]int, error) {
	return map[string]int{}, nil
}
func (r *stubProductRepo) CountByStore(ctx context.Context, storeID int64, published *bool) (int64, error) {
	return int64(len(r.products)), nil
}
func (r *stubProductRepo) Delete(ctx context.Context, storeID, productID int64) error { return nil }
func (r *stubProductRepo) DeleteByStore(ctx context.Context, storeID int64) error     { return nil }
func (r *stubProductRepo) ReplaceVariants(ctx context.Context, storeID, productID int64, variants []domain.Variant) error {
	return nil
}
func (r *stubProductRepo) ReplaceImages(ctx context.Context, storeID, productID int64, images []domain.Image) error {
	return nil
}
func (r *stubProductRepo) VariantsFor(ctx context.Context, storeID, productID int64) ([]domain.Variant, error) {
	return nil, nil
}
func (r *stubProductRepo) ImagesFor(ctx context.Context, storeID, productID int64) ([]domain.Image, error) {
	return nil, nil
}

func newProductHandlerFixture(repo *stubProductRepo) *ProductHandler {
	svc := application.NewProductService(repo, zerolog.Nop())
	return NewProductHandler(svc, zerolog.Nop())
}

func TestProductListRequiresStoreID(t *testing.T) {
	handler := newProductHandlerFixture(&stubProductRepo{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductListParsesFilters(t *testing.T) {
	repo := &stubProductRepo{products: []*domain.Product{{StoreID: 777, ProductID: 1, Name: "Remera"}}}
	handler := newProductHandlerFixture(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/?store_id=777&published=true&min_price=100&max_price=500&in_stock=true&tags=verano,oferta&q=remera&sort=price-asc", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(777), repo.lastFilter.StoreID)
	require.NotNil(t, repo.lastFilter.Published)
	assert.True(t, *repo.lastFilter.Published)
	require.NotNil(t, repo.lastFilter.MinPrice)
	assert.Equal(t, 100.0, *repo.lastFilter.MinPrice)
	require.NotNil(t, repo.lastFilter.MaxPrice)
	assert.Equal(t, 500.0, *repo.lastFilter.MaxPrice)
	require.NotNil(t, repo.lastFilter.InStock)
	assert.True(t, *repo.lastFilter.InStock)
	assert.Equal(t, []string{"verano", "oferta"}, repo.lastFilter.Tags)
	assert.Equal(t, "remera", repo.lastFilter.SearchTerm)
	assert.Equal(t, domain.SortPriceAsc, repo.lastSort)

	var resp struct {
		Products []*domain.Product `json:"products"`
		PageInfo *domain.PageInfo  `json:"pageInfo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Remera", resp.Products[0].Name)
	require.NotNil(t, resp.PageInfo)
	assert.Equal(t, int64(1), resp.PageInfo.Total)
}

func TestProductDetailNotFoundMapsTo404(t *testing.T) {
	handler := newProductHandlerFixture(&stubProductRepo{})

	req := httptest.NewRequest(http.MethodGet, "/777/42", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDetailInvalidIDMapsTo400(t *testing.T) {
	handler := newProductHandlerFixture(&stubProductRepo{})

	req := httptest.NewRequest(http.MethodGet, "/777/not-a-number", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
