package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/redis"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379.
func TestRedis_CacheYLock(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "test:" + uuid.NewString() + ":"
	c := redis.NewCatalogCache(rdb, prefix)
	require.NoError(t, c.Set(ctx, "hs", []string{"5904.9000"}, time.Minute))
	var got []string
	ok, err := c.Get(ctx, "hs", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"5904.9000"}, got)

	l := redis.NewLocker(rdb, 5*time.Second, zerolog.Nop())
	key := prefix + "invoice"
	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, key)
	assert.ErrorIs(t, err, domain.ErrConflict)
	release()

	release, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	time.AfterFunc(150*time.Millisecond, release)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	again, err := l.AcquireWait(waitCtx, key)
	require.NoError(t, err)
	again()
}
