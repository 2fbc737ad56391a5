package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inventory_api/internal/domain/repository"
)

// CategoryService serves the derived category list, recomputed from items
// whenever the cache misses.
type CategoryService struct {
	itemRepo repository.ItemRepository
	cache    repository.CategoryCache
}

func NewCategoryService(itemRepo repository.ItemRepository, cache repository.CategoryCache) *CategoryService {
	return &CategoryService{itemRepo: itemRepo, cache: cache}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]string, error) {
	cached, generation, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		slog.WarnContext(ctx, "category cache read failed", "error", cacheErr)
	} else if ok {
		return cached, nil
	}

	categories, err := s.itemRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	// Without a generation from Get the list cannot be stored safely.
	if cacheErr == nil {
		s.storeCategories(ctx, categories, generation)
	}
	return categories, nil
}

func (s *CategoryService) storeCategories(ctx context.Context, categories []string, generation int64) {
	err := s.cache.Set(ctx, categories, generation)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStaleCategories):
		slog.DebugContext(ctx, "skipped caching categories read before an item write")
	default:
		slog.WarnContext(ctx, "category cache write failed", "error", err)
	}
}
