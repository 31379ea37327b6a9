package http

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgents is the pool a Session picks its User-Agent from.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Session holds the state shared by every fetch of one Fetcher: the sticky
// User-Agent and the per-domain request throttle.
//
// Session is safe for concurrent use. Requests to the same domain are
// serialized; requests to different domains proceed independently.
type Session struct {
	userAgent string
	minDelay  time.Duration
	now       func() time.Time
	sleep     SleepFunc

	mu      sync.Mutex
	domains map[string]*domainThrottle
}

type domainThrottle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewSession creates a Session with a User-Agent picked from pool.
// An empty pool falls back to DefaultUserAgents.
func NewSession(pool []string, minDelay time.Duration, now func() time.Time, sleep SleepFunc) *Session {
	if len(pool) == 0 {
		pool = DefaultUserAgents
	}
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return &Session{
		userAgent: pool[rand.IntN(len(pool))],
		minDelay:  minDelay,
		now:       now,
		sleep:     sleep,
		domains:   make(map[string]*domainThrottle),
	}
}

// UserAgent returns the User-Agent sent with every request of the session.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Acquire blocks until a request to domain may be issued, sleeping for
// whatever remains of the minimum delay since the previous request to the
// same domain. The returned release function must be called once the
// request has completed.
func (s *Session) Acquire(ctx context.Context, domain string) (release func(), err error) {
	t := s.throttle(strings.ToLower(domain))
	t.mu.Lock()

	now := s.now()
	r := t.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		if err := s.sleep(ctx, delay); err != nil {
			r.CancelAt(s.now())
			t.mu.Unlock()
			return nil, err
		}
	}
	return t.mu.Unlock, nil
}

func (s *Session) throttle(domain string) *domainThrottle {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.domains[domain]
	if !ok {
		limit := rate.Inf
		if s.minDelay > 0 {
			limit = rate.Every(s.minDelay)
		}
		t = &domainThrottle{limiter: rate.NewLimiter(limit, 1)}
		s.domains[domain] = t
	}
	return t
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
