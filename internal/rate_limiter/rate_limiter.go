package rate_limiter

import (
	"sync"
	"time"
)

// RateLimiter is a sliding window counter keyed by caller.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(limit, window, time.Now)

	go rl.cleanupLoop()

	return rl
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      now,
	}
}

func (rl *RateLimiter) Limit() int {
	return rl.limit
}

func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.cleanup()
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for key, times := range rl.requests {
		validTimes := recent(times, windowStart)
		if len(validTimes) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = validTimes
		}
	}
}

// IsAllowed records an attempt for key and reports whether it fits the window.
// Rejected attempts are not recorded.
func (rl *RateLimiter) IsAllowed(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	validTimes := recent(rl.requests[key], now.Add(-rl.window))

	if len(validTimes) >= rl.limit {
		rl.requests[key] = validTimes
		return false
	}

	rl.requests[key] = append(validTimes, now)
	return true
}

func (rl *RateLimiter) GetRemainingRequests(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	validTimes := recent(rl.requests[key], rl.now().Add(-rl.window))
	remaining := rl.limit - len(validTimes)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func recent(times []time.Time, windowStart time.Time) []time.Time {
	var validTimes []time.Time
	for _, t := range times {
		if t.After(windowStart) {
			validTimes = append(validTimes, t)
		}
	}
	return validTimes
}
