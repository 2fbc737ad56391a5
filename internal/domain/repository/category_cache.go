package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoriesCacheKey      = "inventory:categories"
	categoriesGenerationKey = "inventory:categories:generation"
)

// ErrStaleCategories is returned by Set when an item write invalidated the
// cache after the caller read its generation.
var ErrStaleCategories = errors.New("category list is stale")

// CategoryCache holds the derived category list between item writes.
//
// Every Invalidate bumps a generation counter. A reader takes the generation
// from Get before loading categories from the store and hands it back to Set,
// which refuses to store a list computed before a later write.
type CategoryCache interface {
	// Get returns the cached list, the current generation and whether the
	// list was present.
	Get(ctx context.Context) ([]string, int64, bool, error)
	Set(ctx context.Context, categories []string, generation int64) error
	// Invalidate drops the cached list after an item write.
	Invalidate(ctx context.Context) error
}

type redisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) CategoryCache {
	return &redisCategoryCache{client: client, ttl: ttl}
}

func (c *redisCategoryCache) Get(ctx context.Context) ([]string, int64, bool, error) {
	vals, err := c.client.MGet(ctx, categoriesCacheKey, categoriesGenerationKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redisCategoryCache.Get: %w", err)
	}
	generation, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, false, fmt.Errorf("redisCategoryCache.Get generation: %w", err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, generation, false, nil
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, 0, false, fmt.Errorf("redisCategoryCache.Get decode: %w", err)
	}
	return categories, generation, true, nil
}

func (c *redisCategoryCache) Set(ctx context.Context, categories []string, generation int64) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("redisCategoryCache.Set encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, categoriesGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return ErrStaleCategories
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, categoriesCacheKey, raw, c.ttl)
			return nil
		})
		return err
	}, categoriesGenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleCategories), errors.Is(err, redis.TxFailedErr):
		return ErrStaleCategories
	default:
		return fmt.Errorf("redisCategoryCache.Set: %w", err)
	}
}

func (c *redisCategoryCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, categoriesGenerationKey)
		pipe.Del(ctx, categoriesCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisCategoryCache.Invalidate: %w", err)
	}
	return nil
}

func parseGeneration(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

type noopCategoryCache struct{}

// NewNoopCategoryCache returns a cache that never hits.
func NewNoopCategoryCache() CategoryCache { return noopCategoryCache{} }

func (noopCategoryCache) Get(context.Context) ([]string, int64, bool, error) { return nil, 0, false, nil }
func (noopCategoryCache) Set(context.Context, []string, int64) error         { return nil }
func (noopCategoryCache) Invalidate(context.Context) error                   { return nil }
