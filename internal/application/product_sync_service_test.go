package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/metrics"
	"appnube-sync-layer/internal/infrastructure/tiendanube"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShopID int64 = 777

func locStr(s string) tiendanube.LocalizedString {
	var v tiendanube.LocalizedString
	_ = json.Unmarshal([]byte(strconv.Quote(s)), &v)
	return v
}

func testStore() *domain.Store {
	shopID := testShopID
	return &domain.Store{ID: "store-1", Name: "Test", URL: "https://test.mitiendanube.com", ShopID: &shopID, AccessToken: "token"}
}

func rawProduct(id int64, handle string) tiendanube.Product {
	return tiendanube.Product{
		ID:     id,
		Name:   locStr(fmt.Sprintf("Producto %d", id)),
		Handle: locStr(handle),
		Variants: []tiendanube.Variant{
			{ID: id * 10, Price: "150.50", Stock: 3},
		},
	}
}

func productPage(startID int64, count int) []tiendanube.Product {
	page := make([]tiendanube.Product, 0, count)
	for i := 0; i < count; i++ {
		id := startID + int64(i)
		page = append(page, rawProduct(id, fmt.Sprintf("producto-%d", id)))
	}
	return page
}

func newProductSyncFixture(client *fakeClient, stores *fakeStoreRepo) (*ProductSyncService, *fakeProductRepo) {
	repo := newFakeProductRepo()
	svc := NewProductSyncService(
		client, repo, stores, plainEncryption{}, NewNormalizer("es"),
		metrics.New(prometheus.NewRegistry()), zerolog.Nop(),
	)
	return svc, repo
}

func TestProductSyncAllStopsAtShortPage(t *testing.T) {
	client := &fakeClient{productPages: [][]tiendanube.Product{
		productPage(1, tiendanube.PageSize),
		productPage(100, 3),
	}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	summary, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	assert.Equal(t, tiendanube.PageSize+3, summary.TotalSynced)
	assert.Empty(t, summary.Errors)
	// A short page ends the loop without probing for a third page.
	assert.Equal(t, 2, client.productFetches)
	assert.Len(t, repo.products, tiendanube.PageSize+3)
}

func TestProductSyncAllEmptyFirstPage(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	summary, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalSynced)
	assert.Equal(t, 1, client.productFetches)
}

func TestProductSyncAllAccumulatesItemFailures(t *testing.T) {
	client := &fakeClient{productPages: [][]tiendanube.Product{productPage(1, 5)}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))
	repo.upsertErrFor[3] = errors.New("boom")

	summary, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalSynced)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, int64(3), summary.Errors[0].ID)
	assert.Equal(t, "boom", repo.syncErrors[3])
	_, stored := repo.products[3]
	assert.False(t, stored)
}

func TestProductSyncAllSuffixesCollidingHandle(t *testing.T) {
	client := &fakeClient{productPages: [][]tiendanube.Product{
		{rawProduct(1, "camiseta"), rawProduct(2, "camiseta")},
	}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	summary, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSynced)

	assert.Equal(t, "camiseta", repo.products[1].Handle)
	assert.Equal(t, "camiseta-2", repo.products[2].Handle)
	assert.Contains(t, repo.products[2].Permalink, "camiseta-2")
}

func TestProductSyncAllStopsAtPageCap(t *testing.T) {
	pages := make([][]tiendanube.Product, MaxProductPages+5)
	for i := range pages {
		pages[i] = productPage(int64(i*1000+1), tiendanube.PageSize)
	}
	client := &fakeClient{productPages: pages}
	svc, _ := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	summary, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	// Cap-hit is a normal completion, not an error.
	assert.Equal(t, MaxProductPages, client.productFetches)
	assert.Equal(t, MaxProductPages*tiendanube.PageSize, summary.TotalSynced)
}

func TestProductSyncAllRequiresCredentials(t *testing.T) {
	store := testStore()
	store.AccessToken = ""
	client := &fakeClient{}
	svc, _ := newProductSyncFixture(client, newFakeStoreRepo(store))

	_, err := svc.SyncAll(context.Background(), "store-1")

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, client.productFetches)
}

func TestProductSyncAllUnknownStore(t *testing.T) {
	svc, _ := newProductSyncFixture(&fakeClient{}, newFakeStoreRepo())

	_, err := svc.SyncAll(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductSyncAllFetchFailureAborts(t *testing.T) {
	client := &fakeClient{productErr: &domain.UpstreamError{Status: 401, Body: "unauthorized"}}
	svc, _ := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	_, err := svc.SyncAll(context.Background(), "store-1")
	require.Error(t, err)

	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.True(t, ue.IsAuthorization())
}

func TestProductSyncAllUpdatesLastSync(t *testing.T) {
	client := &fakeClient{productPages: [][]tiendanube.Product{productPage(1, 2)}}
	stores := newFakeStoreRepo(testStore())
	svc, _ := newProductSyncFixture(client, stores)

	_, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	assert.False(t, stores.lastSync["store-1"].IsZero())
}

func TestProductSyncAllIsIdempotent(t *testing.T) {
	client := &fakeClient{productPages: [][]tiendanube.Product{productPage(1, 4)}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	_, err := svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)
	first := len(repo.products)

	_, err = svc.SyncAll(context.Background(), "store-1")
	require.NoError(t, err)

	assert.Equal(t, first, len(repo.products))
	for _, p := range repo.products {
		assert.Equal(t, testShopID, p.StoreID)
	}
}

func TestProductSyncOneUpserts(t *testing.T) {
	raw := rawProduct(42, "zapatilla")
	client := &fakeClient{products: map[int64]*tiendanube.Product{42: &raw}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))

	require.NoError(t, svc.SyncOne(context.Background(), testShopID, 42))

	p := repo.products[42]
	require.NotNil(t, p)
	assert.Equal(t, "Producto 42", p.Name)
	assert.Equal(t, 150.50, p.Price)
	assert.Len(t, repo.variants[42], 1)
}

func TestProductSyncOneRemovesMirrorWhenUpstreamGone(t *testing.T) {
	client := &fakeClient{products: map[int64]*tiendanube.Product{}}
	svc, repo := newProductSyncFixture(client, newFakeStoreRepo(testStore()))
	repo.products[42] = &domain.Product{StoreID: testShopID, ProductID: 42}

	require.NoError(t, svc.SyncOne(context.Background(), testShopID, 42))

	_, stored := repo.products[42]
	assert.False(t, stored)
}

func TestProductDeleteIsIdempotent(t *testing.T) {
	svc, _ := newProductSyncFixture(&fakeClient{}, newFakeStoreRepo(testStore()))

	assert.NoError(t, svc.Delete(context.Background(), testShopID, 42))
	assert.NoError(t, svc.Delete(context.Background(), testShopID, 42))
}
