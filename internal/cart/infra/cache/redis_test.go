package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgclassic/storefront/internal/cart/domain"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func sampleCart(ownerID string) domain.Cart {
	cart := domain.New(ownerID, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	cart.Version = 2
	_, _ = cart.AddLine(uuid.New(), nil, 3, decimal.RequireFromString("19.99"), cart.LastActivity)
	return cart
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	cart := sampleCart("owner-1")

	require.NoError(t, c.Set(ctx, "owner-1", &cart))

	got, err := c.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, int64(2), got.Version)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
}

func TestRedisCache_MissIsErrCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "owner-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	cart := sampleCart("owner-1")

	require.NoError(t, c.Set(ctx, "owner-1", &cart))
	require.NoError(t, c.Delete(ctx, "owner-1"))

	_, err := c.Get(ctx, "owner-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, c.Delete(ctx, "owner-2"))
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	cart := sampleCart("owner-1")

	require.NoError(t, c.Set(ctx, "owner-1", &cart))
	mr.FastForward(25 * time.Minute)

	_, err := c.Get(ctx, "owner-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_OwnersAreIsolated(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	a := sampleCart("owner-a")
	b := sampleCart("owner-b")

	require.NoError(t, c.Set(ctx, "owner-a", &a))
	require.NoError(t, c.Set(ctx, "owner-b", &b))

	got, err := c.Get(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}
