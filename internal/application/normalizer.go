package application

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/tiendanube"
)

// DefaultLanguage is the preferred language for multi-language fields.
const DefaultLanguage = "es"

// Normalizer converts raw Tiendanube payloads into canonical domain records.
// It is stateless apart from the preferred language.
type Normalizer struct {
	lang string
}

// NewNormalizer creates a normalizer preferring the given language code
func NewNormalizer(lang string) *Normalizer {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Normalizer{lang: lang}
}

// NormalizeProduct converts a raw product into a domain product plus its
// variant and image children. The handle may still collide with another
// product in the store; resolving that needs a repository lookup and happens
// at save time.
func (n *Normalizer) NormalizeProduct(storeID int64, raw *tiendanube.Product, now time.Time) (*domain.Product, []domain.Variant, []domain.Image) {
	name := raw.Name.Resolve(n.lang, fmt.Sprintf("Product %d", raw.ID))
	handle := raw.Handle.Resolve(n.lang, fmt.Sprintf("product-%d", raw.ID))

	variants := make([]domain.Variant, 0, len(raw.Variants))
	totalStock := 0
	for _, v := range raw.Variants {
		options := make([]string, 0, len(v.Values))
		for _, val := range v.Values {
			if s := val.Resolve(n.lang, ""); s != "" {
				options = append(options, s)
			}
		}
		variants = append(variants, domain.Variant{
			StoreID:     storeID,
			ProductID:   raw.ID,
			VariantID:   v.ID,
			SKU:         v.SKU,
			Price:       parsePrice(v.Price),
			Stock:       v.Stock,
			Options:     options,
			UpdatedAtTN: v.UpdatedAt,
		})
		totalStock += v.Stock
	}

	images := make([]domain.Image, 0, len(raw.Images))
	for _, img := range raw.Images {
		images = append(images, domain.Image{
			StoreID:   storeID,
			ProductID: raw.ID,
			ImageID:   img.ID,
			Src:       img.Src,
			Alt:       img.Alt.Resolve(n.lang, ""),
			Position:  img.Position,
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Position < images[j].Position })

	mainImage := ""
	if len(images) > 0 {
		mainImage = images[0].Src
	}

	price := 0.0
	if len(variants) > 0 {
		price = variants[0].Price
	}

	permalink := raw.CanonicalURL
	if permalink == "" {
		permalink = fmt.Sprintf("https://%d.mitiendanube.com/productos/%s", storeID, handle)
	}

	categories := make([]int64, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		categories = append(categories, c.ID)
	}

	product := &domain.Product{
		StoreID:      storeID,
		ProductID:    raw.ID,
		Name:         name,
		Description:  raw.Description.Resolve(n.lang, ""),
		Price:        price,
		Handle:       handle,
		Permalink:    permalink,
		Published:    raw.Published,
		FreeShipping: raw.FreeShipping,
		Tags:         splitTags(raw.Tags),
		Categories:   categories,
		MainImage:    mainImage,
		TotalStock:   totalStock,
		CreatedAtTN:  raw.CreatedAt,
		UpdatedAtTN:  raw.UpdatedAt,
		SyncedAt:     now,
	}

	return product, variants, images
}

// NormalizeCategory converts a raw category into a domain category
func (n *Normalizer) NormalizeCategory(storeID int64, raw *tiendanube.Category, now time.Time) *domain.Category {
	return &domain.Category{
		StoreID:                storeID,
		CategoryID:             raw.ID,
		Name:                   raw.Name.Resolve(n.lang, fmt.Sprintf("Category %d", raw.ID)),
		Description:            raw.Description.Resolve(n.lang, ""),
		Handle:                 raw.Handle.Resolve(n.lang, fmt.Sprintf("category-%d", raw.ID)),
		Parent:                 raw.Parent,
		Subcategories:          raw.Subcategories,
		SEOTitle:               raw.SEOTitle.Resolve(n.lang, ""),
		SEODescription:         raw.SEODescription.Resolve(n.lang, ""),
		GoogleShoppingCategory: raw.GoogleShoppingCategory,
		CreatedAtTN:            raw.CreatedAt,
		UpdatedAtTN:            raw.UpdatedAt,
		SyncedAt:               now,
	}
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
