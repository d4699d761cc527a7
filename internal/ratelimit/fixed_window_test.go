package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stayware/stayflow/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner mirrors the fixed-window script contract against an in-memory
// map so window behavior is testable without a redis instance.
type fakeRunner struct {
	clk    *clock.FakeClock
	counts map[string]int
	expiry map[string]time.Time
}

func newFakeRunner(clk *clock.FakeClock) *fakeRunner {
	return &fakeRunner{
		clk:    clk,
		counts: map[string]int{},
		expiry: map[string]time.Time{},
	}
}

func (f *fakeRunner) Run(ctx context.Context, keys []string, args ...interface{}) (interface{}, error) {
	key := keys[0]
	limit := args[0].(int)
	ttlMillis := args[1].(int64)

	if exp, ok := f.expiry[key]; ok && !f.clk.Now().Before(exp) {
		delete(f.counts, key)
		delete(f.expiry, key)
	}

	count := f.counts[key]
	if count == 0 {
		f.counts[key] = 1
		f.expiry[key] = f.clk.Now().Add(time.Duration(ttlMillis) * time.Millisecond)
		return int64(1), nil
	}
	if count >= limit {
		return int64(0), nil
	}
	f.counts[key] = count + 1
	return int64(1), nil
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*FixedWindow, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	return &FixedWindow{
		runner: newFakeRunner(clk),
		limit:  limit,
		window: window,
	}, clk
}

func TestAllowWithinWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "call %d should be allowed", i)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "call 6 should be denied")
}

func TestWindowExpiryResetsCounter(t *testing.T) {
	limiter, clk := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
	}

	clk.Advance(time.Minute + time.Second)

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "first call of a new window should be allowed")
}

func TestWindowsIndependentPerClient(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "other clients should not share the counter")
}

func TestEmptyClientIDRejected(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, time.Minute)

	_, err := limiter.Allow(context.Background(), "  ")
	assert.Error(t, err)
}
