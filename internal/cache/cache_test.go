package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientFailsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	data, err := c.Get(ctx, "dropdown:data")
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, "dropdown:data", []byte("{}"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "dropdown:data"))
	assert.NoError(t, c.Close())
}

func TestIncrWindowWithoutClient(t *testing.T) {
	c := &Client{}

	n, err := c.IncrWindow(context.Background(), "ratelimit:10.0.0.1", time.Minute)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, n)
}

func TestIncrWindow(t *testing.T) {
	s := miniredis.RunT(t)
	c := New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	n, err := c.IncrWindow(ctx, "ratelimit:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, s.TTL("ratelimit:10.0.0.1"))

	s.FastForward(30 * time.Second)
	n, err = c.IncrWindow(ctx, "ratelimit:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 30*time.Second, s.TTL("ratelimit:10.0.0.1"))
}

func TestIncrWindowRestoresMissingTTL(t *testing.T) {
	s := miniredis.RunT(t)
	c := New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	// A counter left behind without an expiry.
	require.NoError(t, s.Set("ratelimit:10.0.0.2", "41"))

	n, err := c.IncrWindow(context.Background(), "ratelimit:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, time.Minute, s.TTL("ratelimit:10.0.0.2"))
}
