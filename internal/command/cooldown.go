package command

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type cooldownKey struct {
	command string
	user    string
}

// CooldownTracker holds per (command, user) expiry instants. It is hit from
// every gated invocation concurrently, so all read-modify-write sequences run
// under one lock.
type CooldownTracker struct {
	mu      sync.Mutex
	entries map[cooldownKey]time.Time
	now     func() time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		entries: make(map[cooldownKey]time.Time),
		now:     time.Now,
	}
}

// Remaining returns zero when no entry exists or the entry expired (expired
// entries are evicted on read), else the whole-second ceiling of time left.
func (t *CooldownTracker) Remaining(cmd Command, userID string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked(cmd, userID)
}

func (t *CooldownTracker) remainingLocked(cmd Command, userID string) time.Duration {
	key := cooldownKey{command: cmd.Name(), user: userID}
	expiry, ok := t.entries[key]
	if !ok {
		return 0
	}
	left := expiry.Sub(t.now())
	if left <= 0 {
		delete(t.entries, key)
		return 0
	}
	// whole-second ceiling
	return (left + time.Second - 1) / time.Second * time.Second
}

// Apply stamps the entry with now + the command's cooldown.
func (t *CooldownTracker) Apply(cmd Command, userID string) {
	t.mu.Lock()
	t.entries[cooldownKey{command: cmd.Name(), user: userID}] = t.now().Add(cmd.Cooldown())
	t.mu.Unlock()
}

// Gate performs the check-and-apply the pipeline needs as one atomic step:
// a non-zero return means the caller is still cooling down; zero means the
// cooldown was applied and the invocation may proceed.
func (t *CooldownTracker) Gate(cmd Command, userID string) time.Duration {
	if cmd.Cooldown() <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if left := t.remainingLocked(cmd, userID); left > 0 {
		return left
	}
	t.entries[cooldownKey{command: cmd.Name(), user: userID}] = t.now().Add(cmd.Cooldown())
	return 0
}

// Sweep drops expired entries and returns how many were removed.
func (t *CooldownTracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for key, expiry := range t.entries {
		if !expiry.After(now) {
			delete(t.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every minute until ctx is done. Call from the
// bot's lifecycle.
func (t *CooldownTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("swept expired cooldowns")
			}
		}
	}
}
