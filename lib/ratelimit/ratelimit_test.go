package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimitThenReject(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewLimiter(Config{
		Limit:  10,
		Window: time.Minute,
		Now:    clock.Now,
	})

	for i := 0; i < 10; i++ {
		decision := limiter.Allow("1.2.3.4")
		require.True(t, decision.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 10-(i+1), decision.Remaining)
		clock.Advance(time.Second)
	}

	decision := limiter.Allow("1.2.3.4")
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
}

func TestWindowExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewLimiter(Config{
		Limit:  2,
		Window: time.Minute,
		Now:    clock.Now,
	})

	require.True(t, limiter.Allow("key").Allowed)
	require.True(t, limiter.Allow("key").Allowed)
	require.False(t, limiter.Allow("key").Allowed)

	clock.Advance(time.Minute + time.Second)
	require.True(t, limiter.Allow("key").Allowed)
}

func TestKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewLimiter(Config{
		Limit:  1,
		Window: time.Minute,
		Now:    clock.Now,
	})

	require.True(t, limiter.Allow("alice").Allowed)
	require.False(t, limiter.Allow("alice").Allowed)
	require.True(t, limiter.Allow("bob").Allowed)
}

func TestRejectDoesNotRecord(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewLimiter(Config{
		Limit:  1,
		Window: time.Minute,
		Now:    clock.Now,
	})

	require.True(t, limiter.Allow("key").Allowed)
	// rejected calls must not extend the window
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		require.False(t, limiter.Allow("key").Allowed)
	}
	clock.Advance(time.Minute - 5*time.Second)
	require.True(t, limiter.Allow("key").Allowed)
}

func TestConcurrentAdmission(t *testing.T) {
	limiter := NewLimiter(Config{
		Limit:  50,
		Window: time.Minute,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared").Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 50, admitted)
}

func TestDefaults(t *testing.T) {
	limiter := NewLimiter(Config{})
	require.Equal(t, DefaultLimit, limiter.limit)
	require.Equal(t, DefaultWindow, limiter.window)
}
