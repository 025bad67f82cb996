package music

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayer records calls and lets the test drive lifecycle callbacks the
// way a real sink would deliver them.
type fakePlayer struct {
	handler  Handler
	started  []*Track
	current  *Track
	stops    int
	destroys int
	paused   bool
	volume   int
	refuse   map[string]bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{volume: defaultVolume, refuse: make(map[string]bool)}
}

func (p *fakePlayer) SetHandler(h Handler) { p.handler = h }

func (p *fakePlayer) Start(t *Track) error {
	if p.refuse[t.Source] {
		return errors.New("sink refused track")
	}
	p.current = t
	p.started = append(p.started, t)
	return nil
}

func (p *fakePlayer) Stop() {
	p.stops++
	p.current = nil
}

func (p *fakePlayer) Destroy() {
	p.destroys++
	p.current = nil
}

func (p *fakePlayer) SetPaused(paused bool) { p.paused = paused }
func (p *fakePlayer) SetVolume(v int)       { p.volume = v }

// start simulates the sink confirming the most recently started track.
func (p *fakePlayer) start(t *testing.T) *Track {
	t.Helper()
	require.NotEmpty(t, p.started)
	track := p.started[len(p.started)-1]
	p.handler.OnTrackStart(track)
	return track
}

// finish simulates natural completion of the current track.
func (p *fakePlayer) finish(t *testing.T) {
	t.Helper()
	track := p.current
	require.NotNil(t, track)
	p.current = nil
	p.handler.OnTrackEnd(track, EndFinished)
}

// recordNotifier captures every announcement.
type recordNotifier struct {
	announced []string
	noticed   []string
	queued    []string
	deleted   []string
	nextID    int
}

func (n *recordNotifier) AnnounceNowPlaying(t *Track) (string, error) {
	n.nextID++
	n.announced = append(n.announced, t.Title)
	return msgID(n.nextID), nil
}

func (n *recordNotifier) NoticeNowPlaying(t *Track) (string, error) {
	n.nextID++
	n.noticed = append(n.noticed, t.Title)
	return msgID(n.nextID), nil
}

func (n *recordNotifier) NoticeQueued(t *Track) { n.queued = append(n.queued, t.Title) }

func (n *recordNotifier) DeleteAnnouncement(_, messageID string) {
	n.deleted = append(n.deleted, messageID)
}

func msgID(n int) string { return "msg-" + string(rune('0'+n)) }

func newTestScheduler() (*Scheduler, *fakePlayer, *recordNotifier) {
	player := newFakePlayer()
	notifier := &recordNotifier{}
	return NewScheduler("guild-1", player, notifier), player, notifier
}

func track(source string) *Track {
	return &Track{
		Source:   source,
		Title:    source,
		Duration: 3 * time.Minute,
		UserData: &UserData{RequesterID: "alice", ChannelID: "chan-1", AnnounceQueued: true},
	}
}

func TestScheduler_IdleEnqueueStartsImmediately(t *testing.T) {
	sched, player, notifier := newTestScheduler()

	sched.Enqueue(track("A"))
	require.Len(t, player.started, 1)
	assert.Equal(t, "A", player.started[0].Source)
	assert.Empty(t, sched.Queue())
	assert.Empty(t, notifier.queued, "immediate start is not a queue notice")
}

func TestScheduler_BusyEnqueueAppendsFIFO(t *testing.T) {
	sched, player, notifier := newTestScheduler()

	sched.Enqueue(track("A"))
	player.start(t)
	sched.Enqueue(track("B"))
	sched.Enqueue(track("C"))

	require.Len(t, player.started, 1, "B and C wait their turn")
	assert.Equal(t, []string{"B", "C"}, notifier.queued)

	player.finish(t)
	player.start(t)
	assert.Equal(t, "B", player.started[1].Source)

	player.finish(t)
	player.start(t)
	assert.Equal(t, "C", player.started[2].Source)
}

// Full playthrough: empty queue, loop disabled, A then B.
func TestScheduler_EndToEndPlaythrough(t *testing.T) {
	sched, player, notifier := newTestScheduler()

	sched.Enqueue(track("A"))
	a := player.start(t)
	assert.Equal(t, []string{"A"}, notifier.announced, "first of session gets the primary announcement")
	assert.True(t, a.UserData.FirstOfSession)
	assert.NotEmpty(t, a.UserData.AnnouncementID)

	sched.Enqueue(track("B"))
	assert.Equal(t, []string{"B"}, notifier.queued)

	player.finish(t)
	b := player.start(t)
	assert.Equal(t, "B", b.Source)
	assert.False(t, b.UserData.FirstOfSession)
	assert.Equal(t, []string{"B"}, notifier.noticed, "later tracks get the lighter notice")
	assert.Equal(t, []string{a.UserData.AnnouncementID}, notifier.deleted)

	player.finish(t)
	assert.Nil(t, sched.Current())
	assert.Equal(t, 1, player.destroys, "empty queue releases the player")
}

func TestScheduler_ShufflePreservesMultiset(t *testing.T) {
	sched, player, _ := newTestScheduler()

	sched.Enqueue(track("playing"))
	player.start(t)
	for _, s := range []string{"A", "B", "C", "D", "E"} {
		sched.Enqueue(track(s))
	}

	before := sources(sched.Queue())
	sched.Shuffle()
	after := sources(sched.Queue())

	sort.Strings(before)
	sort.Strings(after)
	assert.Equal(t, before, after)
	assert.Equal(t, "playing", sched.Current().Source, "the playing track is untouched")
}

func TestScheduler_LoopSongReplaysClone(t *testing.T) {
	sched, player, _ := newTestScheduler()
	sched.SetLoop(LoopSong)

	sched.Enqueue(track("A"))
	a := player.start(t)

	for i := 0; i < 3; i++ {
		player.finish(t)
		clone := player.start(t)
		assert.Equal(t, a.Source, clone.Source, "iteration %d", i)
		assert.NotSame(t, a, clone, "clone, not the same instance")
		assert.Equal(t, "alice", clone.UserData.RequesterID, "metadata rides along")
	}
	assert.Equal(t, 4, player.started[len(player.started)-1].UserData.Plays)
}

func TestScheduler_LoopQueueCyclesWholeQueue(t *testing.T) {
	sched, player, _ := newTestScheduler()
	sched.SetLoop(LoopQueue)

	sched.Enqueue(track("A"))
	player.start(t)
	sched.Enqueue(track("B"))

	// A ends: its clone goes to the tail, B starts
	player.finish(t)
	assert.Equal(t, "B", player.start(t).Source)
	assert.Equal(t, []string{"A"}, sources(sched.Queue()))

	// B ends: its clone goes behind A's
	player.finish(t)
	assert.Equal(t, "A", player.start(t).Source)
	assert.Equal(t, []string{"B"}, sources(sched.Queue()))
}

// Loop QUEUE with a single track replays it forever.
func TestScheduler_LoopQueueSingleTrack(t *testing.T) {
	sched, player, _ := newTestScheduler()
	sched.SetLoop(LoopQueue)

	sched.Enqueue(track("A"))
	first := player.start(t)

	for n := 0; n < 3; n++ {
		player.finish(t)
		replay := player.start(t)
		assert.Equal(t, first.Source, replay.Source)
	}
	assert.Zero(t, player.destroys, "the player is never torn down while looping")
}

func TestScheduler_LoopDisabledDiscardsFinished(t *testing.T) {
	sched, player, _ := newTestScheduler()

	sched.Enqueue(track("A"))
	player.start(t)
	player.finish(t)

	assert.Len(t, player.started, 1, "A is never replayed")
	assert.Equal(t, 1, player.destroys)
}

func TestScheduler_SkipBypassesLoopMachinery(t *testing.T) {
	sched, player, _ := newTestScheduler()
	sched.SetLoop(LoopSong)

	sched.Enqueue(track("A"))
	player.start(t)
	sched.Enqueue(track("B"))

	require.NoError(t, sched.Skip())
	assert.Equal(t, 1, player.stops)
	assert.Equal(t, "B", player.current.Source, "skip advances even under loop SONG")
	assert.Empty(t, sched.Queue())
}

func TestScheduler_SkipWhenIdle(t *testing.T) {
	sched, _, _ := newTestScheduler()
	assert.ErrorIs(t, sched.Skip(), ErrNothingPlaying)
}

func TestScheduler_ResetClearsEverything(t *testing.T) {
	sched, player, _ := newTestScheduler()
	sched.SetLoop(LoopQueue)

	sched.Enqueue(track("A"))
	player.start(t)
	sched.Enqueue(track("B"))
	player.SetVolume(40)
	player.SetPaused(true)

	sched.Reset()

	assert.Empty(t, sched.Queue())
	assert.Nil(t, sched.Current())
	assert.Equal(t, LoopDisabled, sched.Loop())
	assert.Equal(t, defaultVolume, player.volume)
	assert.False(t, player.paused)
	assert.Equal(t, 1, player.destroys)
}

func TestScheduler_ManualStopReasonDoesNotAdvance(t *testing.T) {
	sched, player, _ := newTestScheduler()

	sched.Enqueue(track("A"))
	a := player.start(t)
	sched.Enqueue(track("B"))

	player.handler.OnTrackEnd(a, EndStopped)
	assert.Len(t, player.started, 1, "stopped reason must not start the next track")
	assert.Equal(t, []string{"B"}, sources(sched.Queue()))
}

func TestScheduler_FailingTrackIsSkipped(t *testing.T) {
	sched, player, _ := newTestScheduler()
	player.refuse["bad"] = true

	sched.Enqueue(track("A"))
	player.start(t)
	sched.Enqueue(track("bad"))
	sched.Enqueue(track("C"))

	player.finish(t)
	assert.Equal(t, "C", player.start(t).Source, "the refused track falls through")
}

func TestTrack_CloneDuplicatesMetadataNotSource(t *testing.T) {
	a := track("A")
	a.UserData.Plays = 2

	clone := a.Clone()
	assert.Equal(t, a.Source, clone.Source)
	assert.NotSame(t, a.UserData, clone.UserData)

	clone.UserData.Plays = 9
	assert.Equal(t, 2, a.UserData.Plays, "clone mutation does not leak back")
}

func sources(tracks []*Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.Source)
	}
	return out
}
