package command

import (
	"fmt"
	"strings"
)

// ComponentID is the wire contract between what a command encodes into its
// component custom ids and how the dispatcher decodes them. Commands build
// ids only through Encode; the dispatcher only parses.
//
// Encoded form: "command:action" or "command:action:arg1:arg2...".
type ComponentID struct {
	Command string
	Action  string
	Args    []string
}

const componentIDSep = ":"

// Encode renders the id for use as a discordgo CustomID.
func (c ComponentID) Encode() string {
	parts := append([]string{c.Command, c.Action}, c.Args...)
	return strings.Join(parts, componentIDSep)
}

// ParseComponentID decodes a CustomID produced by Encode.
func ParseComponentID(raw string) (ComponentID, error) {
	parts := strings.Split(raw, componentIDSep)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ComponentID{}, fmt.Errorf("malformed component id %q", raw)
	}
	id := ComponentID{Command: parts[0], Action: parts[1]}
	if len(parts) > 2 {
		id.Args = parts[2:]
	}
	return id, nil
}
