package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/tiendanube"
)

// fakeClient serves canned pages and records fetch calls.
type fakeClient struct {
	mu sync.Mutex

	productPages  [][]tiendanube.Product
	categoryPages [][]tiendanube.Category
	products      map[int64]*tiendanube.Product
	categories    map[int64]*tiendanube.Category

	productFetches  int
	categoryFetches int

	productErr  error
	categoryErr error
}

func (f *fakeClient) ExchangeCode(ctx context.Context, code string) (*tiendanube.TokenResponse, error) {
	return &tiendanube.TokenResponse{AccessToken: "token", UserID: 777}, nil
}

func (f *fakeClient) GetStore(ctx context.Context, shopID int64, token string) (*tiendanube.StoreInfo, error) {
	return &tiendanube.StoreInfo{ID: shopID, URL: fmt.Sprintf("https://%d.mitiendanube.com", shopID)}, nil
}

func (f *fakeClient) FetchProducts(ctx context.Context, shopID int64, token string, page int) ([]tiendanube.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productFetches++
	if f.productErr != nil {
		return nil, f.productErr
	}
	if page < 1 || page > len(f.productPages) {
		return nil, nil
	}
	return f.productPages[page-1], nil
}

func (f *fakeClient) FetchProduct(ctx context.Context, shopID int64, token string, id int64) (*tiendanube.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, &domain.UpstreamError{Status: 404, Body: "not found"}
	}
	return p, nil
}

func (f *fakeClient) FetchCategories(ctx context.Context, shopID int64, token string, page int) ([]tiendanube.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryFetches++
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	if page < 1 || page > len(f.categoryPages) {
		return nil, nil
	}
	return f.categoryPages[page-1], nil
}

func (f *fakeClient) FetchCategory(ctx context.Context, shopID int64, token string, id int64) (*tiendanube.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, &domain.UpstreamError{Status: 404, Body: "not found"}
	}
	return c, nil
}

func (f *fakeClient) CreateWebhook(ctx context.Context, shopID int64, token, topic, address string) (*tiendanube.Webhook, error) {
	return &tiendanube.Webhook{ID: 1, Topic: topic, URL: address}, nil
}

func (f *fakeClient) ListWebhooks(ctx context.Context, shopID int64, token string) ([]tiendanube.Webhook, error) {
	return nil, nil
}

func (f *fakeClient) DeleteWebhook(ctx context.Context, shopID int64, token string, id int64) error {
	return nil
}

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	variants map[int64][]domain.Variant
	images   map[int64][]domain.Image

	upsertErrFor map[int64]error
	syncErrors   map[int64]string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:     make(map[int64]*domain.Product),
		variants:     make(map[int64][]domain.Variant),
		images:       make(map[int64][]domain.Image),
		upsertErrFor: make(map[int64]error),
		syncErrors:   make(map[int64]string),
	}
}

func (f *fakeProductRepo) Upsert(ctx context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.upsertErrFor[p.ProductID]; err != nil {
		return err
	}
	cp := *p
	f.products[p.ProductID] = &cp
	return nil
}

func (f *fakeProductRepo) SetSyncError(ctx context.Context, storeID, productID int64, msg string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncErrors[productID] = msg
	return nil
}

func (f *fakeProductRepo) Get(ctx context.Context, storeID, productID int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindByHandle(ctx context.Context, storeID int64, handle string, excludeID int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Handle == handle && p.ProductID != excludeID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Find(ctx context.Context, filter domain.ProductFilter, p domain.Pagination, sort domain.SortOption) ([]*domain.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Product
	for _, prod := range f.products {
		cp := *prod
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) FindByTags(ctx context.Context, storeID int64, tags []string, excludeID int64, limit int) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var out []*domain.Product
	for _, p := range f.products {
		if p.ProductID == excludeID || !p.Published {
			continue
		}
		for _, t := range p.Tags {
			if want[t] {
				cp := *p
				out = append(out, &cp)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductRepo) TagCounts(ctx context.Context, storeID int64) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, p := range f.products {
		if !p.Published {
			continue
		}
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	return counts, nil
}

func (f *fakeProductRepo) CountByStore(ctx context.Context, storeID int64, published *bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.products {
		if published == nil || p.Published == *published {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, storeID, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, productID)
	delete(f.variants, productID)
	delete(f.images, productID)
	return nil
}

func (f *fakeProductRepo) DeleteByStore(ctx context.Context, storeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = make(map[int64]*domain.Product)
	f.variants = make(map[int64][]domain.Variant)
	f.images = make(map[int64][]domain.Image)
	return nil
}

func (f *fakeProductRepo) ReplaceVariants(ctx context.Context, storeID, productID int64, variants []domain.Variant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variants[productID] = variants
	return nil
}

func (f *fakeProductRepo) ReplaceImages(ctx context.Context, storeID, productID int64, images []domain.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[productID] = images
	return nil
}

func (f *fakeProductRepo) VariantsFor(ctx context.Context, storeID, productID int64) ([]domain.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.variants[productID], nil
}

func (f *fakeProductRepo) ImagesFor(ctx context.Context, storeID, productID int64) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[productID], nil
}

// fakeCategoryRepo is an in-memory CategoryRepository.
type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	syncErrors map[int64]string
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: make(map[int64]*domain.Category),
		syncErrors: make(map[int64]string),
	}
}

func (f *fakeCategoryRepo) Upsert(ctx context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.categories[c.CategoryID] = &cp
	return nil
}

func (f *fakeCategoryRepo) SetSyncError(ctx context.Context, storeID, categoryID int64, msg string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncErrors[categoryID] = msg
	return nil
}

func (f *fakeCategoryRepo) Get(ctx context.Context, storeID, categoryID int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[categoryID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) ListByStore(ctx context.Context, storeID int64) ([]*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Category
	for _, c := range f.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCategoryRepo) ListRoots(ctx context.Context, storeID int64) ([]*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Category
	for _, c := range f.categories {
		if c.Parent == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) ListChildren(ctx context.Context, storeID, parentID int64) ([]*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Category
	for _, c := range f.categories {
		if c.Parent != nil && *c.Parent == parentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Search(ctx context.Context, storeID int64, term string) ([]*domain.Category, error) {
	return f.ListByStore(ctx, storeID)
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, storeID, categoryID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.categories, categoryID)
	return nil
}

func (f *fakeCategoryRepo) DeleteByStore(ctx context.Context, storeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = make(map[int64]*domain.Category)
	return nil
}

// fakeStoreRepo is an in-memory StoreRepository keyed by document id.
type fakeStoreRepo struct {
	mu       sync.Mutex
	stores   map[string]*domain.Store
	lastSync map[string]time.Time
}

func newFakeStoreRepo(stores ...*domain.Store) *fakeStoreRepo {
	f := &fakeStoreRepo{
		stores:   make(map[string]*domain.Store),
		lastSync: make(map[string]time.Time),
	}
	for _, s := range stores {
		cp := *s
		f.stores[s.ID] = &cp
	}
	return f
}

func (f *fakeStoreRepo) Save(ctx context.Context, store *domain.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if store.ID == "" {
		store.ID = fmt.Sprintf("store-%d", len(f.stores)+1)
	}
	cp := *store
	f.stores[store.ID] = &cp
	return nil
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStoreRepo) GetByShopID(ctx context.Context, shopID int64) (*domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.ShopID != nil && *s.ShopID == shopID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStoreRepo) GetByURL(ctx context.Context, url string) (*domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.URL == url {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStoreRepo) List(ctx context.Context, p domain.Pagination) ([]*domain.Store, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Store
	for _, s := range f.stores {
		cp := *s
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStoreRepo) UpdateLastSync(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSync[id] = at
	return nil
}

func (f *fakeStoreRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stores, id)
	return nil
}

func (f *fakeStoreRepo) ClearCredentials(ctx context.Context, shopID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.ShopID != nil && *s.ShopID == shopID {
			s.AccessToken = ""
		}
	}
	return nil
}

func (f *fakeStoreRepo) DeleteByShopID(ctx context.Context, shopID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.stores {
		if s.ShopID != nil && *s.ShopID == shopID {
			delete(f.stores, id)
		}
	}
	return nil
}

// plainEncryption passes tokens through unchanged.
type plainEncryption struct{}

func (plainEncryption) Encrypt(plaintext string) (string, error) { return plaintext, nil }
func (plainEncryption) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.EmailVerified = true
		u.VerificationToken = ""
	}
	return nil
}

// memoryCache is a JSON map cache without expiry, for cache-path tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte("1")
	return true, nil
}

// fakeMailer records sent verification mails.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendVerification(ctx context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}
