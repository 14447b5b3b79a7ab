package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewStore(client, DefaultTTL)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestAddItem_Accumulates(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	qty, err := store.AddItem(ctx, "session-1", "prod-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	qty, err = store.AddItem(ctx, "session-1", "prod-1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"prod-1": 5}, items)
}

func TestAddItem_ConcurrentAddsSumExactly(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	const workers = 20
	const perWorker = 3

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddItem(ctx, "session-1", "prod-1", perWorker)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), items["prod-1"])
}

func TestAddItem_InvalidQuantityDoesNotMutate(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.AddItem(ctx, "session-1", "prod-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.AddItem(ctx, "session-1", "prod-1", -4)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCart_EmptyWithoutPriorAdds(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	items, err := store.GetCart(context.Background(), "session-unknown")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetCart_EmptyAfterExpiration(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.AddItem(ctx, "session-1", "prod-1", 2)
	require.NoError(t, err)

	mr.FastForward(DefaultTTL + time.Second)

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCart_ReadSlidesExpiration(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.AddItem(ctx, "session-1", "prod-1", 1)
	require.NoError(t, err)

	// Two reads, each just inside the window; the cart stays alive well
	// past the original deadline.
	mr.FastForward(25 * time.Minute)
	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	mr.FastForward(25 * time.Minute)
	items, err = store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoveItem(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.AddItem(ctx, "session-1", "prod-1", 2)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "session-1", "prod-2", 1)
	require.NoError(t, err)

	require.NoError(t, store.RemoveItem(ctx, "session-1", "prod-1"))
	require.NoError(t, store.RemoveItem(ctx, "session-1", "prod-absent"))

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"prod-2": 1}, items)
}

func TestClear(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.AddItem(ctx, "session-1", "prod-1", 2)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "session-1"))

	items, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := store.AddItem(ctx, "session-1", "prod-1", 2)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "session-2", "prod-1", 7)
	require.NoError(t, err)

	items1, err := store.GetCart(ctx, "session-1")
	require.NoError(t, err)
	items2, err := store.GetCart(ctx, "session-2")
	require.NoError(t, err)

	assert.Equal(t, int64(2), items1["prod-1"])
	assert.Equal(t, int64(7), items2["prod-1"])
}
