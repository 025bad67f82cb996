package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackerAt returns a tracker with a controllable clock.
func trackerAt(start time.Time) (*CooldownTracker, *time.Time) {
	now := start
	tr := NewCooldownTracker()
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestCooldown_NoEntryIsZero(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	cmd := &stubCommand{name: "ping", cooldown: 5 * time.Second}
	assert.Zero(t, tr.Remaining(cmd, "user-1"))
}

func TestCooldown_GateRejectsWithinWindow(t *testing.T) {
	tr, now := trackerAt(time.Now())
	cmd := &stubCommand{name: "ping", cooldown: 5 * time.Second}

	require.Zero(t, tr.Gate(cmd, "user-1"), "first invocation must pass")

	left := tr.Gate(cmd, "user-1")
	assert.Greater(t, left, time.Duration(0), "second invocation within window must be rejected")
	assert.Equal(t, 5*time.Second, left)

	// partway through the window the remainder is the whole-second ceiling
	*now = now.Add(2500 * time.Millisecond)
	assert.Equal(t, 3*time.Second, tr.Remaining(cmd, "user-1"))
}

func TestCooldown_ExpiryEvictsAndResets(t *testing.T) {
	tr, now := trackerAt(time.Now())
	cmd := &stubCommand{name: "ping", cooldown: 5 * time.Second}

	require.Zero(t, tr.Gate(cmd, "user-1"))
	*now = now.Add(6 * time.Second)

	// expired entry is evicted on read
	assert.Zero(t, tr.Remaining(cmd, "user-1"))

	// invocation after expiry passes and restarts the timer
	require.Zero(t, tr.Gate(cmd, "user-1"))
	assert.Equal(t, 5*time.Second, tr.Remaining(cmd, "user-1"))
}

func TestCooldown_PerUserAndPerCommand(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	ping := &stubCommand{name: "ping", cooldown: 5 * time.Second}
	roll := &stubCommand{name: "roll", cooldown: 5 * time.Second}

	require.Zero(t, tr.Gate(ping, "user-1"))
	assert.Zero(t, tr.Gate(ping, "user-2"), "other users are not affected")
	assert.Zero(t, tr.Gate(roll, "user-1"), "other commands are not affected")
}

func TestCooldown_ZeroCooldownNeverGates(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	cmd := &stubCommand{name: "help"}
	for n := 0; n < 3; n++ {
		assert.Zero(t, tr.Gate(cmd, "user-1"))
	}
	assert.Zero(t, tr.Remaining(cmd, "user-1"))
}

func TestCooldown_Sweep(t *testing.T) {
	tr, now := trackerAt(time.Now())
	cmd := &stubCommand{name: "ping", cooldown: 5 * time.Second}

	tr.Apply(cmd, "user-1")
	tr.Apply(cmd, "user-2")
	assert.Zero(t, tr.Sweep(), "nothing expired yet")

	*now = now.Add(10 * time.Second)
	assert.Equal(t, 2, tr.Sweep())
	assert.Zero(t, tr.Sweep())
}
