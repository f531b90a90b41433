package wanikani

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	headerRateLimitRemaining = "RateLimit-Remaining"
	headerRateLimitReset     = "RateLimit-Reset"

	defaultRateLimitThreshold = 5
)

// rateLimiter holds back the next request after a response reported that the
// remaining quota fell below threshold. The pause lasts until one second past
// the reported reset instant.
type rateLimiter struct {
	mu        sync.Mutex
	threshold int
	resumeAt  time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func newRateLimiter(threshold int) *rateLimiter {
	return &rateLimiter{
		threshold: threshold,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// observe records the quota headers of a response. With exhausted set (HTTP
// 429) the reset instant is honoured regardless of the remaining count.
// Missing or unparsable headers are ignored. Returns whether a pause was
// scheduled.
func (l *rateLimiter) observe(h http.Header, exhausted bool) bool {
	reset, err := strconv.ParseInt(h.Get(headerRateLimitReset), 10, 64)
	if err != nil {
		return false
	}
	if !exhausted {
		remaining, err := strconv.Atoi(h.Get(headerRateLimitRemaining))
		if err != nil || remaining >= l.threshold {
			return false
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.resumeAt = time.Unix(reset, 0).Add(time.Second)
	return true
}

// wait blocks until a pending pause has elapsed.
func (l *rateLimiter) wait(ctx context.Context) (time.Duration, error) {
	l.mu.Lock()
	d := l.resumeAt.Sub(l.now())
	l.resumeAt = time.Time{}
	l.mu.Unlock()

	if d <= 0 {
		return 0, nil
	}
	return d, l.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
