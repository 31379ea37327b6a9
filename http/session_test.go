package http_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cphttp "github.com/AdamMoses-GitHub/cleanplate/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when something sleeps on it or Advance is called.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
	err   error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}

func acquire(t *testing.T, s *cphttp.Session, domain string) {
	t.Helper()
	release, err := s.Acquire(context.Background(), domain)
	require.NoError(t, err)
	release()
}

func TestSession_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("first request to a domain does not wait", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 2*time.Second, clock.Now, clock.Sleep)

		acquire(t, s, "example.com")
		assert.Empty(t, clock.Slept())
	})

	t.Run("sleeps for the remainder of the delay", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 2*time.Second, clock.Now, clock.Sleep)

		acquire(t, s, "example.com")
		clock.Advance(500 * time.Millisecond)
		acquire(t, s, "example.com")

		assert.Equal(t, []time.Duration{1500 * time.Millisecond}, clock.Slept())
	})

	t.Run("does not wait once the delay has passed", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 2*time.Second, clock.Now, clock.Sleep)

		acquire(t, s, "example.com")
		clock.Advance(3 * time.Second)
		acquire(t, s, "example.com")

		assert.Empty(t, clock.Slept())
	})

	t.Run("domains are throttled independently", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 2*time.Second, clock.Now, clock.Sleep)

		acquire(t, s, "a.example.com")
		acquire(t, s, "b.example.com")
		assert.Empty(t, clock.Slept())

		acquire(t, s, "A.EXAMPLE.COM")
		assert.Equal(t, []time.Duration{2 * time.Second}, clock.Slept(), "domains compare case-insensitively")
	})

	t.Run("zero delay never sleeps", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 0, clock.Now, clock.Sleep)

		for range 5 {
			acquire(t, s, "example.com")
		}
		assert.Empty(t, clock.Slept())
	})

	t.Run("returns the sleep error and frees the domain", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		s := cphttp.NewSession(nil, 2*time.Second, clock.Now, clock.Sleep)
		acquire(t, s, "example.com")

		clock.mu.Lock()
		clock.err = context.Canceled
		clock.mu.Unlock()

		_, err := s.Acquire(context.Background(), "example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))

		clock.mu.Lock()
		clock.err = nil
		clock.mu.Unlock()

		acquire(t, s, "example.com")
	})

	t.Run("real sleeper honors context cancellation", func(t *testing.T) {
		t.Parallel()

		s := cphttp.NewSession(nil, time.Hour, nil, nil)
		acquire(t, s, "example.com")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := s.Acquire(ctx, "example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestSession_UserAgent(t *testing.T) {
	t.Parallel()

	t.Run("picks from the configured pool", func(t *testing.T) {
		t.Parallel()

		pool := []string{"Agent/1", "Agent/2"}
		s := cphttp.NewSession(pool, 0, nil, nil)

		assert.Contains(t, pool, s.UserAgent())
		assert.Equal(t, s.UserAgent(), s.UserAgent())
	})

	t.Run("falls back to the default pool", func(t *testing.T) {
		t.Parallel()

		s := cphttp.NewSession(nil, 0, nil, nil)
		assert.Contains(t, cphttp.DefaultUserAgents, s.UserAgent())
	})
}
