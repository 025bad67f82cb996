// Package worker provides the small fixed-size pools backing deckhand's three
// concurrency domains: command execution, event waiting, and audio lifecycle
// callbacks. A slow task in one domain cannot starve dispatch in another.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Pool runs submitted tasks on a fixed set of workers with a bounded backlog.
type Pool struct {
	name    string
	tasks   chan func()
	wg      sync.WaitGroup
	surplus atomic.Int64

	mu     sync.Mutex
	closed bool
}

// New starts a pool with the given worker count and backlog size.
func New(name string, workers, backlog int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if backlog < 0 {
		backlog = 0
	}
	p := &Pool{
		name:  name,
		tasks: make(chan func(), backlog),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		if p.retireIfSurplus() {
			return
		}
		task, ok := <-p.tasks
		if !ok {
			return
		}
		p.run(task)
	}
}

// retireIfSurplus claims one pending retirement left behind by Reattach.
func (p *Pool) retireIfSurplus() bool {
	for {
		n := p.surplus.Load()
		if n <= 0 {
			return false
		}
		if p.surplus.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// run executes one task, containing panics so a broken command cannot take
// the process down.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("pool", p.name).
				Interface("panic", r).
				Msg("task panicked")
		}
	}()
	task()
}

// Submit enqueues a task. It returns false when the backlog is full or the
// pool has shut down; the caller decides how to report that.
func (p *Pool) Submit(task func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		log.Warn().Str("pool", p.name).Msg("pool backlog full, task rejected")
		return false
	}
}

// Detach vacates the caller's slot for the duration of a long cooperative
// wait: a replacement worker is started so the pool keeps draining its
// backlog. Must be paired with Reattach.
func (p *Pool) Detach() {
	p.wg.Add(1)
	go p.worker()
}

// Reattach retakes a slot after Detach. One worker retires after its current
// task; until then the pool briefly runs one worker over size.
func (p *Pool) Reattach() {
	p.surplus.Add(1)
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
