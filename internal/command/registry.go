package command

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
)

// ID derives a command's stable numeric identity from its name.
func ID(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// Registry maps names, aliases and ids to commands. Registration happens once
// at startup; after that the registry is read-only and safe for concurrent
// resolution.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	byAlias map[string]Command
	byID    map[uint32]Command
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		byAlias: make(map[string]Command),
		byID:    make(map[uint32]Command),
	}
}

// Register adds a command. A name or alias colliding with anything already
// registered is an error.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("duplicate command name %q", name)
	}
	if _, taken := r.byAlias[name]; taken {
		return fmt.Errorf("command name %q collides with an existing alias", name)
	}
	for _, a := range cmd.Aliases() {
		if _, taken := r.byName[a]; taken {
			return fmt.Errorf("alias %q of %q collides with an existing command name", a, name)
		}
		if _, taken := r.byAlias[a]; taken {
			return fmt.Errorf("duplicate alias %q on %q", a, name)
		}
	}

	r.byName[name] = cmd
	r.byID[ID(name)] = cmd
	for _, a := range cmd.Aliases() {
		r.byAlias[a] = cmd
	}
	return nil
}

// MustRegister panics on registration failure. For startup wiring only.
func (r *Registry) MustRegister(cmd Command) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Resolve returns the command whose name equals token, else the one whose
// alias set contains it. An exact name match always wins over an alias.
func (r *Registry) Resolve(token string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.byName[token]; ok {
		return cmd, true
	}
	cmd, ok := r.byAlias[token]
	return cmd, ok
}

// ResolveByID looks a command up by its stable hash-derived identity.
func (r *Registry) ResolveByID(id uint32) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byID[id]
	return cmd, ok
}

// All returns every registered command, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
