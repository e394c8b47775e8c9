package tiendanube

import (
	"encoding/json"
	"sort"
	"time"
)

// LocalizedString is a Tiendanube multi-language field. The API sends either
// a plain string, a mapping keyed by language code, or (for image alt texts)
// an array of either. Resolve collapses it to a single display string.
type LocalizedString struct {
	plain  string
	byLang map[string]string
}

// UnmarshalJSON accepts `"text"`, `{"es": "texto", "en": "text"}`,
// `["text", ...]` and null.
func (ls *LocalizedString) UnmarshalJSON(data []byte) error {
	ls.plain = ""
	ls.byLang = nil

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &ls.plain)
	case '{':
		return json.Unmarshal(data, &ls.byLang)
	case '[':
		var items []LocalizedString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if len(items) > 0 {
			*ls = items[0]
		}
		return nil
	default:
		// Numbers and booleans are not expected here; ignore them rather
		// than failing the whole payload.
		return nil
	}
}

// Resolve extracts a single display string: the preferred language if
// present, then the plain form, then any language (deterministic order),
// then the supplied fallback.
func (ls LocalizedString) Resolve(lang, fallback string) string {
	if v, ok := ls.byLang[lang]; ok && v != "" {
		return v
	}
	if ls.plain != "" {
		return ls.plain
	}
	if len(ls.byLang) > 0 {
		keys := make([]string, 0, len(ls.byLang))
		for k := range ls.byLang {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if ls.byLang[k] != "" {
				return ls.byLang[k]
			}
		}
	}
	return fallback
}

// IsZero reports whether no value was present at all.
func (ls LocalizedString) IsZero() bool {
	return ls.plain == "" && len(ls.byLang) == 0
}

// CategoryRef is the minimal category reference embedded in a product.
type CategoryRef struct {
	ID   int64           `json:"id"`
	Name LocalizedString `json:"name"`
}

// Variant is a product variant as returned by the API. Prices arrive as
// decimal strings.
type Variant struct {
	ID        int64             `json:"id"`
	Price     string            `json:"price"`
	Stock     int               `json:"stock"`
	SKU       string            `json:"sku"`
	Values    []LocalizedString `json:"values"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Image is a product image as returned by the API.
type Image struct {
	ID       int64           `json:"id"`
	Src      string          `json:"src"`
	Position int             `json:"position"`
	Alt      LocalizedString `json:"alt"`
}

// Product is the raw product payload from GET /{shopId}/products.
type Product struct {
	ID           int64           `json:"id"`
	Name         LocalizedString `json:"name"`
	Description  LocalizedString `json:"description"`
	Handle       LocalizedString `json:"handle"`
	Published    bool            `json:"published"`
	FreeShipping bool            `json:"free_shipping"`
	CanonicalURL string          `json:"canonical_url"`
	Categories   []CategoryRef   `json:"categories"`
	Variants     []Variant       `json:"variants"`
	Images       []Image         `json:"images"`
	Tags         string          `json:"tags"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Category is the raw category payload from GET /{shopId}/categories.
type Category struct {
	ID                     int64           `json:"id"`
	Name                   LocalizedString `json:"name"`
	Description            LocalizedString `json:"description"`
	Handle                 LocalizedString `json:"handle"`
	Parent                 *int64          `json:"parent"`
	Subcategories          []int64         `json:"subcategories"`
	SEOTitle               LocalizedString `json:"seo_title"`
	SEODescription         LocalizedString `json:"seo_description"`
	GoogleShoppingCategory string          `json:"google_shopping_category"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// StoreInfo is the shop payload from GET /{shopId}/store.
type StoreInfo struct {
	ID          int64           `json:"id"`
	Name        LocalizedString `json:"name"`
	Description LocalizedString `json:"description"`
	URL         string          `json:"url"`
	Logo        string          `json:"logo"`
	MainLang    string          `json:"main_language"`
}

// TokenResponse is the OAuth token exchange response. UserID is the
// Tiendanube shop id.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	UserID      int64  `json:"user_id"`
}

// Webhook is a webhook subscription as returned by the API.
type Webhook struct {
	ID    int64  `json:"id"`
	Topic string `json:"event"`
	URL   string `json:"url"`
}
