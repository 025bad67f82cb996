package music

import (
	"errors"
	"math/rand"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// LoopMode is the playback repeat policy.
type LoopMode int

const (
	LoopDisabled LoopMode = iota
	LoopSong
	LoopQueue
)

func (m LoopMode) String() string {
	switch m {
	case LoopSong:
		return "song"
	case LoopQueue:
		return "queue"
	default:
		return "disabled"
	}
}

// ParseLoopMode maps a user token to a LoopMode.
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "song":
		return LoopSong, true
	case "queue":
		return LoopQueue, true
	case "disabled", "off":
		return LoopDisabled, true
	}
	return LoopDisabled, false
}

const defaultVolume = 100

var ErrNothingPlaying = errors.New("no track is currently playing")

// Scheduler owns one guild's pending queue and loop mode, and reacts to the
// player's lifecycle callbacks. Lifecycle callbacks arrive sequentially, but
// the queue is also reachable from command handlers, so every mutation takes
// the lock.
type Scheduler struct {
	guildID  string
	player   Player
	notifier Notifier

	mu      sync.Mutex
	queue   []*Track
	loop    LoopMode
	current *Track

	// sessionLive flips on the first track start and off when the player
	// is destroyed; it decides primary vs secondary announcements.
	sessionLive bool
}

// NewScheduler wires a scheduler to its player and registers for callbacks.
func NewScheduler(guildID string, player Player, notifier Notifier) *Scheduler {
	s := &Scheduler{
		guildID:  guildID,
		player:   player,
		notifier: notifier,
		loop:     LoopDisabled,
	}
	player.SetHandler(s)
	return s
}

// Enqueue starts the track immediately when the player is idle, otherwise
// appends it to the queue tail and, when the track asks for it, sends an
// "added to queue" notice.
func (s *Scheduler) Enqueue(t *Track) {
	s.mu.Lock()
	if s.current == nil {
		s.startLocked(t)
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, t)
	announce := t.UserData != nil && t.UserData.AnnounceQueued
	s.mu.Unlock()

	if announce && s.notifier != nil {
		s.notifier.NoticeQueued(t)
	}
}

// startLocked starts t, falling through to the next queued track when the
// player refuses one.
func (s *Scheduler) startLocked(t *Track) {
	for t != nil {
		s.current = t
		if err := s.player.Start(t); err != nil {
			log.Warn().Err(err).Str("guild", s.guildID).Str("track", t.Title).
				Msg("track failed to start, skipping")
			t = s.popLocked()
			continue
		}
		return
	}
	s.stopSessionLocked()
}

func (s *Scheduler) popLocked() *Track {
	if len(s.queue) == 0 {
		return nil
	}
	t := s.queue[0]
	s.queue = s.queue[1:]
	return t
}

// advanceLocked pops the queue head and starts it; with an empty queue it
// destroys the player to release resources.
func (s *Scheduler) advanceLocked() {
	next := s.popLocked()
	if next == nil {
		s.stopSessionLocked()
		return
	}
	s.startLocked(next)
}

func (s *Scheduler) stopSessionLocked() {
	s.current = nil
	s.sessionLive = false
	s.player.Destroy()
}

// Skip drops the current track and starts the next one, bypassing the loop
// machinery entirely.
func (s *Scheduler) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNothingPlaying
	}
	s.player.Stop()
	s.advanceLocked()
	return nil
}

// Reset is the manual stop path: clear the queue, stop playback, restore
// volume and pause state, and disable looping.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.loop = LoopDisabled
	s.player.Stop()
	s.player.SetPaused(false)
	s.player.SetVolume(defaultVolume)
	s.stopSessionLocked()
}

// Shuffle replaces the pending queue with a random permutation of itself.
// The currently playing track is not part of it.
func (s *Scheduler) Shuffle() {
	s.mu.Lock()
	rand.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})
	s.mu.Unlock()
}

// SetLoop sets the repeat policy.
func (s *Scheduler) SetLoop(mode LoopMode) {
	s.mu.Lock()
	s.loop = mode
	s.mu.Unlock()
}

// Loop returns the current repeat policy.
func (s *Scheduler) Loop() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Current returns the playing track, nil when idle.
func (s *Scheduler) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Queue returns a snapshot of the pending tracks.
func (s *Scheduler) Queue() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

// OnTrackStart implements Handler. The first track of a session gets the
// primary announcement, later ones a lighter notice; either way the message
// id is kept on the track so it can be deleted when the track ends.
func (s *Scheduler) OnTrackStart(t *Track) {
	s.mu.Lock()
	first := !s.sessionLive
	s.sessionLive = true
	if t.UserData != nil {
		t.UserData.FirstOfSession = first
		t.UserData.Plays++
	}
	s.mu.Unlock()

	if s.notifier == nil || t.UserData == nil {
		return
	}
	var (
		msgID string
		err   error
	)
	if first {
		msgID, err = s.notifier.AnnounceNowPlaying(t)
	} else {
		msgID, err = s.notifier.NoticeNowPlaying(t)
	}
	if err != nil {
		log.Warn().Err(err).Str("guild", s.guildID).Msg("failed to announce track")
		return
	}
	t.UserData.AnnouncementID = msgID
}

// OnTrackEnd implements Handler. Natural completion deletes the previous
// announcement and applies the loop mode; manual stop/skip reasons are
// handled by their own paths and ignored here.
func (s *Scheduler) OnTrackEnd(t *Track, reason EndReason) {
	if !reason.MayStartNext() {
		return
	}

	if s.notifier != nil && t != nil && t.UserData != nil && t.UserData.AnnouncementID != "" {
		s.notifier.DeleteAnnouncement(t.UserData.ChannelID, t.UserData.AnnouncementID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.loop {
	case LoopSong:
		s.startLocked(t.Clone())
	case LoopQueue:
		s.queue = append(s.queue, t.Clone())
		s.advanceLocked()
	default:
		s.advanceLocked()
	}
}
