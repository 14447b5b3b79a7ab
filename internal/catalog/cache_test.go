package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestCacheGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	product := &domain.Product{ID: "prod-1", Name: "Smartphone X", Description: "Gama alta", Price: 999.99, Stock: 5}
	data, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey("prod-1"), string(data)))

	got, err := cache.Get(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Smartphone X", got.Name)
	assert.Equal(t, 999.99, got.Price)
}

func TestCacheGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestCache(t)
	defer cleanup()

	got, err := cache.Get(context.Background(), "prod-absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestCacheGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	require.NoError(t, mr.Set(cacheKey("prod-1"), `{"id": "prod-`))

	_, err := cache.Get(context.Background(), "prod-1")
	require.ErrorContains(t, err, "unmarshal product failed")
}

func TestCacheSetThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	product := &domain.Product{ID: "prod-2", Name: "Laptop Gamer", Price: 1500.99, Stock: 10}

	require.NoError(t, cache.Set(ctx, product))
	assert.True(t, mr.Exists(cacheKey("prod-2")))

	got, err := cache.Get(ctx, "prod-2")
	require.NoError(t, err)
	assert.Equal(t, product.Name, got.Name)
}

func TestCacheDelete(t *testing.T) {
	cache, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, &domain.Product{ID: "prod-3", Name: "Teclado"}))
	require.NoError(t, cache.Delete(ctx, "prod-3"))

	assert.False(t, mr.Exists(cacheKey("prod-3")))
}
