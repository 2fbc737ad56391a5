package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func resetCategoryKeys(t *testing.T, client *redis.Client) {
	t.Helper()
	require.NoError(t, client.Del(context.Background(), categoriesCacheKey, categoriesGenerationKey).Err())
}

func TestRedisCategoryCache_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	resetCategoryKeys(t, client)
	defer resetCategoryKeys(t, client)

	ctx := context.Background()
	cache := NewRedisCategoryCache(client, time.Minute)

	_, gen, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, gen)

	require.NoError(t, cache.Set(ctx, []string{"garden", "tools"}, gen))

	got, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"garden", "tools"}, got)

	ttl := client.TTL(ctx, categoriesCacheKey).Val()
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx))
	_, gen, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
}

func TestRedisCategoryCache_StaleSetIsRejected(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	resetCategoryKeys(t, client)
	defer resetCategoryKeys(t, client)

	ctx := context.Background()
	cache := NewRedisCategoryCache(client, time.Minute)

	_, readGen, _, err := cache.Get(ctx)
	require.NoError(t, err)

	// An item write lands between the store read and the cache write.
	require.NoError(t, cache.Invalidate(ctx))

	err = cache.Set(ctx, []string{}, readGen)
	assert.ErrorIs(t, err, ErrStaleCategories)

	_, gen, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, []string{"tools"}, gen))
	got, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"tools"}, got)
}

func TestRedisCategoryCache_EmptyListIsAHit(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	resetCategoryKeys(t, client)
	defer resetCategoryKeys(t, client)

	ctx := context.Background()
	cache := NewRedisCategoryCache(client, time.Minute)

	require.NoError(t, cache.Set(ctx, []string{}, 0))
	got, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestNoopCategoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewNoopCategoryCache()

	require.NoError(t, cache.Set(ctx, []string{"tools"}, 0))
	_, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Invalidate(ctx))
}
