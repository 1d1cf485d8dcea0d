package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScripter emulates the fixed-window script with an in-memory counter.
type fakeScripter struct {
	counts map[string]int64
	keys   []string
}

func newFakeScripter() *fakeScripter {
	return &fakeScripter{counts: map[string]int64{}}
}

func (f *fakeScripter) run(ctx context.Context, keys []string, args ...interface{}) *redis.Cmd {
	f.keys = append(f.keys, keys[0])
	f.counts[keys[0]]++
	cmd := redis.NewCmd(ctx)
	cmd.SetVal([]interface{}{f.counts[keys[0]], args[0].(int64)})
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	scripter := newFakeScripter()
	limiter := NewRateLimiter(scripter, "rl", 2, time.Minute)

	first, err := limiter.Allow(context.Background(), "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	_, err = limiter.Allow(context.Background(), "login:10.0.0.1")
	require.NoError(t, err)

	third, err := limiter.Allow(context.Background(), "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)
	assert.Equal(t, time.Minute, third.RetryAfter)
	assert.Equal(t, "rl:login:10.0.0.1", scripter.keys[0])
}

func TestRateLimiterWithoutClientAllows(t *testing.T) {
	limiter := NewRateLimiter(nil, "", 0, 0)
	decision, err := limiter.Allow(context.Background(), "any")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 20, limiter.Limit())
}
