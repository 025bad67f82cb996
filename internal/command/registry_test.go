package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCommand is the minimal descriptor used across command package tests.
type stubCommand struct {
	Base
	name     string
	aliases  []string
	cooldown time.Duration
}

func (c *stubCommand) Name() string            { return c.name }
func (c *stubCommand) Description() string     { return "stub" }
func (c *stubCommand) Aliases() []string       { return c.aliases }
func (c *stubCommand) Cooldown() time.Duration { return c.cooldown }

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	play := &stubCommand{name: "play", aliases: []string{"p", "pl"}}
	require.NoError(t, reg.Register(play))

	got, ok := reg.Resolve("play")
	require.True(t, ok)
	assert.Same(t, play, got.(*stubCommand))

	got, ok = reg.Resolve("p")
	require.True(t, ok)
	assert.Same(t, play, got.(*stubCommand))

	_, ok = reg.Resolve("nope")
	assert.False(t, ok)
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubCommand{name: "play"}))
	assert.Error(t, reg.Register(&stubCommand{name: "play"}))
}

func TestRegistry_AliasCollisions(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubCommand{name: "play", aliases: []string{"p"}}))

	// a new name colliding with an existing alias
	assert.Error(t, reg.Register(&stubCommand{name: "p"}))
	// a new alias colliding with an existing name
	assert.Error(t, reg.Register(&stubCommand{name: "pause", aliases: []string{"play"}}))
	// a new alias colliding with an existing alias
	assert.Error(t, reg.Register(&stubCommand{name: "pick", aliases: []string{"p"}}))
}

func TestRegistry_NameWinsOverAlias(t *testing.T) {
	reg := NewRegistry()
	skip := &stubCommand{name: "skip", aliases: []string{"next"}}
	require.NoError(t, reg.Register(skip))

	// "skip" resolves via the name map even though the alias map is also
	// populated for other tokens
	got, ok := reg.Resolve("skip")
	require.True(t, ok)
	assert.Equal(t, "skip", got.Name())

	got, ok = reg.Resolve("next")
	require.True(t, ok)
	assert.Equal(t, "skip", got.Name())
}

func TestRegistry_ResolveByID(t *testing.T) {
	reg := NewRegistry()
	play := &stubCommand{name: "play"}
	require.NoError(t, reg.Register(play))

	got, ok := reg.ResolveByID(ID("play"))
	require.True(t, ok)
	assert.Same(t, play, got.(*stubCommand))

	_, ok = reg.ResolveByID(ID("missing"))
	assert.False(t, ok)
}

func TestRegistry_AllSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(&stubCommand{name: name}))
	}

	var names []string
	for _, cmd := range reg.All() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
