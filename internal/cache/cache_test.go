package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	ctx := context.Background()
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(ctx, "k") })
	require.Panics(t, func() { c.Incr(ctx, "k") })
	require.Panics(t, func() { c.ExpireNX(ctx, "k", time.Second) })
	require.Panics(t, func() { c.Del(ctx, "k") })
	require.NoError(t, c.Ping(ctx).Err())
	require.NoError(t, c.Close())

	var calls []string
	c.GetFn = func(context.Context, string) *redis.StringCmd {
		calls = append(calls, "get")
		return redis.NewStringResult("v", nil)
	}
	c.IncrFn = func(context.Context, string) *redis.IntCmd {
		calls = append(calls, "incr")
		return redis.NewIntResult(3, nil)
	}
	c.ExpireNXFn = func(_ context.Context, _ string, ttl time.Duration) *redis.BoolCmd {
		calls = append(calls, "expire")
		require.Equal(t, time.Minute, ttl)
		return redis.NewBoolResult(true, nil)
	}
	c.DelFn = func(_ context.Context, keys ...string) *redis.IntCmd {
		calls = append(calls, "del")
		return redis.NewIntResult(int64(len(keys)), nil)
	}
	c.PingFn = func(context.Context) *redis.StatusCmd {
		calls = append(calls, "ping")
		return redis.NewStatusResult("", errors.New("down"))
	}
	c.CloseFn = func() error { calls = append(calls, "close"); return errors.New("close") }

	require.Equal(t, "v", c.Get(ctx, "k").Val())
	require.Equal(t, int64(3), c.Incr(ctx, "k").Val())
	require.True(t, c.ExpireNX(ctx, "k", time.Minute).Val())
	require.Equal(t, int64(2), c.Del(ctx, "a", "b").Val())
	require.Error(t, c.Ping(ctx).Err())
	require.EqualError(t, c.Close(), "close")
	require.Equal(t, []string{"get", "incr", "expire", "del", "ping", "close"}, calls)
}
