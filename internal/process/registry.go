package process

import (
	"errors"
	"math/rand"
	"sync"
)

// Process ids live in a fixed small namespace so operators can type them.
const (
	minID = 1
	maxID = 9999
)

var (
	// ErrChannelBusy means a live process already occupies the channel for
	// at least one of the candidate participants.
	ErrChannelBusy = errors.New("another operation is already running in this channel")

	// ErrNamespaceExhausted means all 9999 ids are in use. Callers should
	// treat this as a capacity error, not a bug.
	ErrNamespaceExhausted = errors.New("process id namespace exhausted")
)

// Registry holds all live processes. Existence checks and registration happen
// under one lock so two commands cannot race past the exclusivity gate.
type Registry struct {
	mu    sync.Mutex
	procs map[int]*Process
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[int]*Process)}
}

// Register assigns the process a free id and makes it live. It fails with
// ErrChannelBusy when a live process shares the channel with an overlapping
// user set, and ErrNamespaceExhausted when no id is free.
func (r *Registry) Register(p *Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, live := range r.procs {
		if live.channel != p.channel {
			continue
		}
		for _, u := range p.users {
			if live.Involves(u) {
				return ErrChannelBusy
			}
		}
	}

	id, ok := r.freeIDLocked()
	if !ok {
		return ErrNamespaceExhausted
	}

	p.setID(id)
	r.procs[id] = p
	return nil
}

// freeIDLocked picks an unused id. Random probing first, then a linear sweep
// from a random offset once the namespace gets crowded.
func (r *Registry) freeIDLocked() (int, bool) {
	if len(r.procs) >= maxID {
		return 0, false
	}
	for i := 0; i < 32; i++ {
		id := minID + rand.Intn(maxID)
		if _, taken := r.procs[id]; !taken {
			return id, true
		}
	}
	start := rand.Intn(maxID)
	for i := 0; i < maxID; i++ {
		id := minID + (start+i)%maxID
		if _, taken := r.procs[id]; !taken {
			return id, true
		}
	}
	return 0, false
}

// Unregister removes a process; the id becomes reusable. Safe to call twice.
func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	delete(r.procs, id)
	r.mu.Unlock()
}

// Kill requests termination of a live process. The attached waiter observes
// the kill and runs the shared teardown; Kill itself only signals. Returns
// false when no such process is live.
func (r *Registry) Kill(id int) bool {
	r.mu.Lock()
	p, ok := r.procs[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	p.kill()
	return true
}

// Get returns the live process with the given id.
func (r *Registry) Get(id int) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[id]
	return p, ok
}

// ByMember returns the live process the user participates in within the
// channel, nil when there is none. This is the pipeline's busy check.
func (r *Registry) ByMember(userID, channelID string) *Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.procs {
		if p.channel == channelID && p.Involves(userID) {
			return p
		}
	}
	return nil
}

// ByMessage returns the live process originating from the given message.
func (r *Registry) ByMessage(messageID string) *Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.procs {
		if p.messageID == messageID {
			return p
		}
	}
	return nil
}

// ByUser returns every live process the user participates in, any channel.
func (r *Registry) ByUser(userID string) []*Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Process
	for _, p := range r.procs {
		if p.Involves(userID) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of live processes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}
