// Package process tracks in-flight multi-step interactions and provides the
// suspend-until-matching-event primitive built on top of them. A Process
// occupies a (participants, channel) slot so the execution pipeline can reject
// a second long-lived interaction for the same users in the same channel.
package process

import (
	"sync"
	"time"
)

// Process is one tracked in-flight interaction. It is inert until a waiter
// attaches it to the Registry; only then does it occupy its slot and receive
// an id.
type Process struct {
	mu        sync.Mutex
	id        int
	users     []string
	channel   string
	command   string
	messageID string
	createdAt time.Time
	kind      Kind

	killed   chan struct{}
	killOnce sync.Once
}

// Option configures a Process at construction time.
type Option func(*Process)

// WithCommand records the command that spawned the process.
func WithCommand(name string) Option {
	return func(p *Process) { p.command = name }
}

// WithMessage records the message the process originated from, so component
// callbacks on that message can be routed back to it.
func WithMessage(messageID string) Option {
	return func(p *Process) { p.messageID = messageID }
}

// New builds a process for the given channel and participants.
func New(channelID string, userIDs []string, opts ...Option) *Process {
	p := &Process{
		users:     append([]string(nil), userIDs...),
		channel:   channelID,
		createdAt: time.Now(),
		killed:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the registry-assigned id, zero until registered.
func (p *Process) ID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// Users returns a copy of the participant set.
func (p *Process) Users() []string {
	return append([]string(nil), p.users...)
}

func (p *Process) Channel() string      { return p.channel }
func (p *Process) Command() string      { return p.command }
func (p *Process) MessageID() string    { return p.messageID }
func (p *Process) CreatedAt() time.Time { return p.createdAt }

// BoundKind returns the event kind the attached waiter listens for, KindNone
// while no waiter has attached yet.
func (p *Process) BoundKind() Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kind
}

// Involves reports whether the user participates in this process.
func (p *Process) Involves(userID string) bool {
	for _, u := range p.users {
		if u == userID {
			return true
		}
	}
	return false
}

// Done is closed when the process is killed.
func (p *Process) Done() <-chan struct{} { return p.killed }

func (p *Process) setID(id int) {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
}

func (p *Process) bind(k Kind) {
	p.mu.Lock()
	p.kind = k
	p.mu.Unlock()
}

// kill is idempotent; concurrent double-kill closes the channel once.
func (p *Process) kill() {
	p.killOnce.Do(func() { close(p.killed) })
}
