package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)

	type payload struct {
		Name  string
		Count int
	}
	c.Set(ctx, "k", payload{Name: "bills", Count: 3}, time.Minute)

	var got payload
	require.True(t, c.Get(ctx, "k", &got))
	require.Equal(t, payload{Name: "bills", Count: 3}, got)

	c.Delete(ctx, "k")
	require.False(t, c.Get(ctx, "k", &got))
}

func TestLocalCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)
	c.Set(ctx, "k", 1, -time.Second)

	var got int
	require.False(t, c.Get(ctx, "k", &got))
}

func TestNewCacheFallsBackWithoutRedis(t *testing.T) {
	c := NewCache(context.Background(), "")
	_, ok := c.(*LocalCache)
	require.True(t, ok)
}
