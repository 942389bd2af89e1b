package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *PhotoCache
	ctx := context.Background()

	c.Set(ctx, "r1", []byte("img"))
	_, ok := c.Get(ctx, "r1")
	c.Delete(ctx, "r1")

	assert.False(t, ok)
	assert.Equal(t, gobreaker.StateClosed, c.State())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisOpensBreaker(t *testing.T) {
	c := New(Options{Addr: "127.0.0.1:1", TTL: time.Minute, DialTimeout: 50 * time.Millisecond}, quietLogger())
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, ok := c.Get(ctx, "r1")
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	start := time.Now()
	_, ok := c.Get(ctx, "r1")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
