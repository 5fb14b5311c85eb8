package infrastructure

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter: at most limit events per key
// within any window-long span.
type RateLimiter struct {
	requests map[string][]time.Time
	window   time.Duration
	limit    int
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	validRequests := rl.valid(key, now)

	if len(validRequests) < rl.limit {
		rl.requests[key] = append(validRequests, now)
		return true
	}

	// Update requests list even if we're over limit
	rl.requests[key] = validRequests
	return false
}

// Remaining is how many more events key may record right now.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	remaining := rl.limit - len(rl.valid(key, rl.now()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RetryAfter is the wait until key gets a free slot, zero if it has one.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	now := rl.now()
	validRequests := rl.valid(key, now)
	if len(validRequests) < rl.limit || len(validRequests) == 0 {
		return 0
	}
	oldest := validRequests[len(validRequests)-rl.limit]
	return oldest.Add(rl.window).Sub(now)
}

func (rl *RateLimiter) Reset(key string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	delete(rl.requests, key)
}

// Cleanup drops keys whose events have all left the window.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key := range rl.requests {
		validRequests := rl.valid(key, now)
		if len(validRequests) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = validRequests
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()
	return len(rl.requests)
}

// valid returns the events of key still inside the window; callers hold the lock.
func (rl *RateLimiter) valid(key string, now time.Time) []time.Time {
	windowStart := now.Add(-rl.window)

	var validRequests []time.Time
	for _, reqTime := range rl.requests[key] {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}
	return validRequests
}
