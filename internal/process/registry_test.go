package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AssignsIDInRange(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		p := New("chan-1", []string{idf("user", i)})
		require.NoError(t, reg.Register(p))
		assert.GreaterOrEqual(t, p.ID(), 1)
		assert.LessOrEqual(t, p.ID(), 9999)
	}
	assert.Equal(t, 100, reg.Len())
}

func TestRegistry_IDsUniqueAndReusable(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[int]bool)
	var procs []*Process
	for i := 0; i < 50; i++ {
		p := New(idf("chan", i), []string{"user-1"})
		require.NoError(t, reg.Register(p))
		require.False(t, seen[p.ID()], "id %d assigned twice", p.ID())
		seen[p.ID()] = true
		procs = append(procs, p)
	}

	// terminated processes free their ids for reuse
	for _, p := range procs {
		reg.Unregister(p.ID())
	}
	assert.Zero(t, reg.Len())

	p := New("chan-new", []string{"user-1"})
	require.NoError(t, reg.Register(p))
	assert.GreaterOrEqual(t, p.ID(), 1)
}

func TestRegistry_OverlapInvariant(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(New("chan-1", []string{"alice", "bob"})))

	// same channel, overlapping users
	err := reg.Register(New("chan-1", []string{"bob"}))
	assert.ErrorIs(t, err, ErrChannelBusy)

	// same channel, disjoint users
	assert.NoError(t, reg.Register(New("chan-1", []string{"carol"})))

	// overlapping users, different channel
	assert.NoError(t, reg.Register(New("chan-2", []string{"alice"})))
}

func TestRegistry_Lookups(t *testing.T) {
	reg := NewRegistry()
	p := New("chan-1", []string{"alice", "bob"}, WithCommand("purge"), WithMessage("msg-9"))
	require.NoError(t, reg.Register(p))

	got, ok := reg.Get(p.ID())
	require.True(t, ok)
	assert.Same(t, p, got)

	assert.Same(t, p, reg.ByMember("alice", "chan-1"))
	assert.Nil(t, reg.ByMember("alice", "chan-2"))
	assert.Nil(t, reg.ByMember("carol", "chan-1"))

	assert.Same(t, p, reg.ByMessage("msg-9"))
	assert.Nil(t, reg.ByMessage("msg-0"))

	require.Len(t, reg.ByUser("bob"), 1)
	assert.Empty(t, reg.ByUser("carol"))

	assert.Equal(t, "purge", p.Command())
}

func TestRegistry_KillUnknownID(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Kill(1234))
}

func TestProcess_InertUntilRegistered(t *testing.T) {
	p := New("chan-1", []string{"alice"})
	assert.Zero(t, p.ID())
	assert.Equal(t, KindNone, p.BoundKind())

	reg := NewRegistry()
	require.NoError(t, reg.Register(p))
	assert.NotZero(t, p.ID())
}

func idf(prefix string, i int) string {
	return prefix + "-" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26))
}
