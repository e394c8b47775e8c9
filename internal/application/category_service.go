package application

import (
	"context"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// categoryTreeTTL bounds staleness of the cached tree between webhook-driven
// invalidations.
const categoryTreeTTL = 5 * time.Minute

// CategoryService answers category reads against the local mirror: trees,
// breadcrumbs, search and statistics. It never talks to the upstream API.
type CategoryService struct {
	categories ports.CategoryRepository
	cache      ports.Cache
	logger     zerolog.Logger
}

// NewCategoryService creates a new category read service
func NewCategoryService(categories ports.CategoryRepository, cache ports.Cache, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		cache:      cache,
		logger:     logger,
	}
}

// Get retrieves one category
func (s *CategoryService) Get(ctx context.Context, shopID, categoryID int64) (*domain.Category, error) {
	category, err := s.categories.Get(ctx, shopID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// List retrieves every category in a store
func (s *CategoryService) List(ctx context.Context, shopID int64) ([]*domain.Category, error) {
	return s.categories.ListByStore(ctx, shopID)
}

// Roots retrieves the store's root categories
func (s *CategoryService) Roots(ctx context.Context, shopID int64) ([]*domain.Category, error) {
	return s.categories.ListRoots(ctx, shopID)
}

// Subcategories retrieves the direct children of a category
func (s *CategoryService) Subcategories(ctx context.Context, shopID, categoryID int64) ([]*domain.Category, error) {
	parent, err := s.categories.Get(ctx, shopID, categoryID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	return s.categories.ListChildren(ctx, shopID, categoryID)
}

// Search retrieves categories matching the term in name or description
func (s *CategoryService) Search(ctx context.Context, shopID int64, term string) ([]*domain.Category, error) {
	if term == "" {
		return nil, nil
	}
	return s.categories.Search(ctx, shopID, term)
}

// Tree assembles the store's category hierarchy in a single pass over the
// flat list. Children whose parent id does not resolve are promoted to
// roots rather than dropped. The result is cached with a short TTL and
// invalidated by the sync pipeline.
func (s *CategoryService) Tree(ctx context.Context, shopID int64) ([]*domain.CategoryNode, error) {
	key := categoryTreeKey(shopID)

	var cached []*domain.CategoryNode
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Int64("shop_id", shopID).Msg("Category tree cache read failed")
	} else if hit {
		return cached, nil
	}

	categories, err := s.categories.ListByStore(ctx, shopID)
	if err != nil {
		return nil, err
	}

	tree := BuildCategoryTree(categories)

	if err := s.cache.Set(ctx, key, tree, categoryTreeTTL); err != nil {
		s.logger.Warn().Err(err).Int64("shop_id", shopID).Msg("Category tree cache write failed")
	}

	return tree, nil
}

// BuildCategoryTree converts a flat category list into a forest. Orphans
// (non-nil parent that is not in the list) become roots, and one member of
// every parent cycle is promoted to a root so the group still shows up
// instead of vanishing from the forest.
func BuildCategoryTree(categories []*domain.Category) []*domain.CategoryNode {
	nodes := make(map[int64]*domain.CategoryNode, len(categories))
	byID := make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		nodes[c.CategoryID] = &domain.CategoryNode{Category: *c, Children: []*domain.CategoryNode{}}
		byID[c.CategoryID] = c
	}

	promoted := cyclePromotions(categories, byID)

	roots := make([]*domain.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.CategoryID]
		if c.Parent != nil && !promoted[c.CategoryID] {
			if parent, ok := nodes[*c.Parent]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

// cyclePromotions finds parent cycles and picks the smallest id of each as
// the member to promote to a root. Without this, cycle members attach to
// each other and never reach the root list.
func cyclePromotions(categories []*domain.Category, byID map[int64]*domain.Category) map[int64]bool {
	promoted := make(map[int64]bool)
	seen := make(map[int64]bool)

	for _, c := range categories {
		if seen[c.CategoryID] {
			continue
		}

		path := make(map[int64]bool)
		cur := c
		for cur != nil && !seen[cur.CategoryID] {
			if path[cur.CategoryID] {
				// cur is on the cycle; walk it once to pick the smallest id.
				min := cur.CategoryID
				for m := parentOf(cur, byID); m != nil && m.CategoryID != cur.CategoryID; m = parentOf(m, byID) {
					if m.CategoryID < min {
						min = m.CategoryID
					}
				}
				promoted[min] = true
				break
			}
			path[cur.CategoryID] = true
			cur = parentOf(cur, byID)
		}

		for id := range path {
			seen[id] = true
		}
	}

	return promoted
}

func parentOf(c *domain.Category, byID map[int64]*domain.Category) *domain.Category {
	if c.Parent == nil {
		return nil
	}
	return byID[*c.Parent]
}

// Breadcrumb walks parent links from the category up to its root and returns
// the path ordered root first. A visited set stops parent cycles, which can
// appear transiently while a sync is rewriting the hierarchy.
func (s *CategoryService) Breadcrumb(ctx context.Context, shopID, categoryID int64) ([]domain.BreadcrumbEntry, error) {
	categories, err := s.categories.ListByStore(ctx, shopID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.CategoryID] = c
	}

	current, ok := byID[categoryID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	var path []domain.BreadcrumbEntry
	visited := make(map[int64]bool)

	for current != nil {
		if visited[current.CategoryID] {
			s.logger.Warn().
				Int64("shop_id", shopID).
				Int64("category_id", current.CategoryID).
				Msg("Parent cycle detected while building breadcrumb")
			break
		}
		visited[current.CategoryID] = true

		path = append(path, domain.BreadcrumbEntry{
			ID:     current.CategoryID,
			Name:   current.Name,
			Handle: current.Handle,
		})

		if current.Parent == nil {
			break
		}
		current = byID[*current.Parent]
	}

	// Reverse in place so the root comes first.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// Stats summarizes the store's category set, including the deepest nesting
// level. Depth walks are cycle-guarded like breadcrumbs.
func (s *CategoryService) Stats(ctx context.Context, shopID int64) (*domain.CategoryStats, error) {
	categories, err := s.categories.ListByStore(ctx, shopID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.CategoryID] = c
	}

	stats := &domain.CategoryStats{TotalCategories: len(categories)}

	for _, c := range categories {
		if c.Parent == nil {
			stats.RootCategories++
		}
		if c.SyncError != "" {
			stats.WithSyncError++
		}

		if depth := depthOf(c, byID); depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
	}

	return stats, nil
}

// depthOf counts the nodes on the path from c to its root. Cycles terminate
// the walk at the point of repetition.
func depthOf(c *domain.Category, byID map[int64]*domain.Category) int {
	depth := 0
	visited := make(map[int64]bool)

	for c != nil && !visited[c.CategoryID] {
		visited[c.CategoryID] = true
		depth++
		if c.Parent == nil {
			break
		}
		c = byID[*c.Parent]
	}

	return depth
}
