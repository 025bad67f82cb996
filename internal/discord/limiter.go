package discord

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clickLimiter throttles component interactions per user so button mashing
// does not flood the pipeline.
type clickLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	users    map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func newClickLimiter(limit rate.Limit, burst int) *clickLimiter {
	return &clickLimiter{
		limit:    limit,
		burst:    burst,
		users:    make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

func (c *clickLimiter) Allow(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.users[userID]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.users[userID] = l
	}
	c.lastSeen[userID] = time.Now()

	if len(c.users) > 1024 {
		c.pruneLocked()
	}
	return l.Allow()
}

// pruneLocked drops limiters idle for over an hour.
func (c *clickLimiter) pruneLocked() {
	cutoff := time.Now().Add(-time.Hour)
	for id, seen := range c.lastSeen {
		if seen.Before(cutoff) {
			delete(c.users, id)
			delete(c.lastSeen, id)
		}
	}
}
