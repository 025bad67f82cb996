package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentID_Roundtrip(t *testing.T) {
	id := ComponentID{Command: "purge", Action: "confirm", Args: []string{"42", "x"}}
	parsed, err := ParseComponentID(id.Encode())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestComponentID_NoArgs(t *testing.T) {
	parsed, err := ParseComponentID("music:skip")
	require.NoError(t, err)
	assert.Equal(t, "music", parsed.Command)
	assert.Equal(t, "skip", parsed.Action)
	assert.Empty(t, parsed.Args)
}

func TestComponentID_Malformed(t *testing.T) {
	for _, raw := range []string{"", "music", ":confirm", "music:"} {
		_, err := ParseComponentID(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
