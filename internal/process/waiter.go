package process

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/varstad/deckhand/internal/worker"
)

// ErrTimeout is returned by Await when no matching event arrived in time.
var ErrTimeout = errors.New("timed out waiting for event")

// Per-listener event backlog. Events beyond this while a predicate is busy
// are dropped for that listener and logged.
const listenerBuffer = 32

type listener struct {
	id     string
	kind   Kind
	events chan Event
}

// Waiter fans inbound events out to suspended Await calls. Each listener has
// its own FIFO queue, so one listener sees events of its kind in arrival order
// while independent listeners resolve concurrently.
type Waiter struct {
	procs     *Registry
	mu        sync.Mutex
	listeners map[Kind]map[string]*listener
}

func NewWaiter(procs *Registry) *Waiter {
	return &Waiter{
		procs:     procs,
		listeners: make(map[Kind]map[string]*listener),
	}
}

// Processes exposes the backing registry.
func (w *Waiter) Processes() *Registry { return w.procs }

// Dispatch delivers an event to every listener of its kind. Sends happen
// under the waiter lock so all listeners observe the same arrival order.
func (w *Waiter) Dispatch(evt Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, l := range w.listeners[evt.Kind()] {
		select {
		case l.events <- evt:
		default:
			log.Warn().
				Str("listener", l.id).
				Str("kind", string(evt.Kind())).
				Msg("listener backlog full, event dropped")
		}
	}
}

// ListenerCount returns how many listeners of the given kind are attached.
func (w *Waiter) ListenerCount(kind Kind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[kind])
}

func (w *Waiter) attach(l *listener) {
	w.mu.Lock()
	if w.listeners[l.kind] == nil {
		w.listeners[l.kind] = make(map[string]*listener)
	}
	w.listeners[l.kind][l.id] = l
	w.mu.Unlock()
}

func (w *Waiter) detach(l *listener) {
	w.mu.Lock()
	delete(w.listeners[l.kind], l.id)
	w.mu.Unlock()
}

// AwaitOptions configures a single Await call.
type AwaitOptions struct {
	// Timeout bounds the wait; zero means wait until cancel or kill.
	Timeout time.Duration

	// Process, when set, is registered for the duration of the wait and
	// occupies its (participants, channel) slot. An external Kill on it
	// resolves the wait with no event.
	Process *Process
}

// Await suspends the caller until an event of type E satisfying pred arrives,
// the timeout elapses, the attached process is killed, or ctx is canceled.
//
// Outcomes, exactly one of which fires:
//   - match:   (&event, nil)
//   - timeout: (nil, ErrTimeout)
//   - kill:    (nil, nil) — "no event", distinct from timeout
//   - cancel:  (nil, ctx.Err())
//
// All paths run the same teardown once: the listener is detached and the
// process, if any, is removed from the registry.
//
// A caller running on a worker pool (ctx tagged via worker.WithSlot) vacates
// its slot for the duration of the wait, so a suspended command does not hold
// a worker hostage.
func Await[E Event](ctx context.Context, w *Waiter, opts AwaitOptions, pred func(E) bool) (*E, error) {
	var zero E
	l := &listener{
		id:     uuid.NewString(),
		kind:   zero.Kind(),
		events: make(chan Event, listenerBuffer),
	}

	var killed <-chan struct{}
	if opts.Process != nil {
		if err := w.procs.Register(opts.Process); err != nil {
			return nil, err
		}
		opts.Process.bind(l.kind)
		killed = opts.Process.Done()
	}

	w.attach(l)

	var teardownOnce sync.Once
	teardown := func() {
		teardownOnce.Do(func() {
			w.detach(l)
			if opts.Process != nil {
				w.procs.Unregister(opts.Process.ID())
			}
		})
	}
	defer teardown()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		t := time.NewTimer(opts.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	if slot := worker.SlotFrom(ctx); slot != nil {
		slot.Detach()
		defer slot.Reattach()
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
			return nil, ErrTimeout
		case <-killed:
			return nil, nil
		case raw := <-l.events:
			evt, ok := raw.(E)
			if !ok || !pred(evt) {
				continue
			}
			return &evt, nil
		}
	}
}
