package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestCache(t *testing.T) (*SearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSearchCacheWithClient(client, 30*time.Second), mr
}

func TestSearchCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key := Key("search:hotels", map[string]string{"city": "Goa"}, 1)
	c.Set(ctx, key, payload{Name: "Seaside", Price: 120})

	var got payload
	require.True(t, c.Get(ctx, key, &got))
	assert.Equal(t, "Seaside", got.Name)
	assert.Equal(t, 120.0, got.Price)
}

func TestSearchCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got payload
	assert.False(t, c.Get(context.Background(), "search:hotels:absent", &got))
}

func TestSearchCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", payload{Name: "Transient"})
	mr.FastForward(time.Minute)

	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestSearchCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set("bad", "{not json"))

	var got payload
	assert.False(t, c.Get(context.Background(), "bad", &got))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *SearchCache
	ctx := context.Background()

	var got payload
	assert.False(t, c.Get(ctx, "k", &got))
	c.Set(ctx, "k", payload{})
	assert.NoError(t, c.Close())
}

func TestKeyDeterminism(t *testing.T) {
	a := Key("search:flights", map[string]string{"from": "BOM", "to": "DEL"}, 1)
	b := Key("search:flights", map[string]string{"from": "BOM", "to": "DEL"}, 1)
	other := Key("search:flights", map[string]string{"from": "BOM", "to": "MAA"}, 1)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, "search:flights:")
}
