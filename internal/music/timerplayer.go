package music

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TimerPlayer is a wall-clock media sink: a track "plays" for its Duration
// and then ends with EndFinished. It stands in for a real voice sink and
// keeps the scheduler exercisable without any codec stack. Callbacks are
// hosted by the given run function (the bot passes its audio pool) but
// delivered strictly one at a time, in emission order, per the Player
// contract.
type TimerPlayer struct {
	run func(func())

	mu      sync.Mutex
	handler Handler
	current *Track
	timer   *time.Timer
	paused  bool
	volume  int

	cbMu     sync.Mutex
	pending  []func()
	draining bool
}

func NewTimerPlayer(run func(func())) *TimerPlayer {
	if run == nil {
		run = func(fn func()) { go fn() }
	}
	return &TimerPlayer{run: run, volume: defaultVolume}
}

func (p *TimerPlayer) SetHandler(h Handler) {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// Start begins the track's timer. A still-running track ends with EndReplaced.
func (p *TimerPlayer) Start(t *Track) error {
	p.mu.Lock()
	prev := p.current
	if p.timer != nil {
		p.timer.Stop()
	}
	p.current = t
	p.paused = false
	duration := t.Duration
	if duration <= 0 {
		duration = time.Second
	}
	p.timer = time.AfterFunc(duration, func() { p.finish(t) })
	h := p.handler
	p.mu.Unlock()

	if h != nil && prev != nil {
		p.emit(func() { h.OnTrackEnd(prev, EndReplaced) })
	}
	if h != nil {
		p.emit(func() { h.OnTrackStart(t) })
	}
	log.Debug().Str("track", t.Title).Dur("duration", duration).Msg("timer player started track")
	return nil
}

func (p *TimerPlayer) finish(t *Track) {
	p.mu.Lock()
	if p.current != t {
		p.mu.Unlock()
		return
	}
	p.current = nil
	p.timer = nil
	h := p.handler
	p.mu.Unlock()

	if h != nil {
		p.emit(func() { h.OnTrackEnd(t, EndFinished) })
	}
}

func (p *TimerPlayer) Stop() {
	p.mu.Lock()
	t := p.current
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.current = nil
	h := p.handler
	p.mu.Unlock()

	if h != nil && t != nil {
		p.emit(func() { h.OnTrackEnd(t, EndStopped) })
	}
}

func (p *TimerPlayer) Destroy() {
	p.mu.Lock()
	t := p.current
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.current = nil
	p.paused = false
	p.volume = defaultVolume
	h := p.handler
	p.mu.Unlock()

	if h != nil && t != nil {
		p.emit(func() { h.OnTrackEnd(t, EndCleanup) })
	}
}

func (p *TimerPlayer) SetPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
}

func (p *TimerPlayer) SetVolume(percent int) {
	p.mu.Lock()
	p.volume = percent
	p.mu.Unlock()
}

// emit queues a callback behind any already pending. A single drainer runs
// them in order; a second emit while one is in flight only extends the queue.
func (p *TimerPlayer) emit(fn func()) {
	p.cbMu.Lock()
	p.pending = append(p.pending, fn)
	if p.draining {
		p.cbMu.Unlock()
		return
	}
	p.draining = true
	p.cbMu.Unlock()
	p.run(p.drainCallbacks)
}

func (p *TimerPlayer) drainCallbacks() {
	for {
		p.cbMu.Lock()
		if len(p.pending) == 0 {
			p.draining = false
			p.cbMu.Unlock()
			return
		}
		fn := p.pending[0]
		p.pending = p.pending[1:]
		p.cbMu.Unlock()
		fn()
	}
}
