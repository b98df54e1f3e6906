package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket that paces calls to free-tier upstream APIs.
// The CoinGecko client shares one instance across the spot and history
// endpoints so the combined call rate stays under the public quota.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	tokens   float64
	perToken time.Duration
	updated  time.Time
}

// NewRateLimiter allows bursts of up to maxTokens calls, refilling one token
// every refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		capacity: maxTokens,
		tokens:   float64(maxTokens),
		perToken: refillInterval,
		updated:  time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.perToken):
		}
	}
}

// take refills the bucket for the elapsed time and consumes one token if
// available.
func (r *RateLimiter) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.tokens += float64(now.Sub(r.updated)) / float64(r.perToken)
	if r.tokens > float64(r.capacity) {
		r.tokens = float64(r.capacity)
	}
	r.updated = now

	if r.tokens < 1 {
		return false
	}
	r.tokens--
	return true
}
