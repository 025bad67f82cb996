package music

import "context"

// EndReason says why a track stopped playing.
type EndReason string

const (
	EndFinished   EndReason = "finished"
	EndLoadFailed EndReason = "load_failed"
	EndStopped    EndReason = "stopped"
	EndReplaced   EndReason = "replaced"
	EndCleanup    EndReason = "cleanup"
)

// MayStartNext reports whether the scheduler may start a follow-up track for
// this reason. Manual stop/skip/replace must not trigger the loop machinery.
func (r EndReason) MayStartNext() bool {
	return r == EndFinished || r == EndLoadFailed
}

// Handler receives playback lifecycle callbacks. The player delivers them
// strictly sequentially: at most one callback is in flight per player.
type Handler interface {
	OnTrackStart(t *Track)
	OnTrackEnd(t *Track, reason EndReason)
}

// Player is the media sink port. Implementations must not invoke Handler
// callbacks synchronously from Start or Stop.
type Player interface {
	SetHandler(h Handler)

	// Start begins playback of the track, replacing whatever was playing.
	Start(t *Track) error

	// Stop ends the current track with EndStopped; no-op when idle.
	Stop()

	// Destroy releases the player's resources. The player may be started
	// again afterwards.
	Destroy()

	SetPaused(paused bool)
	SetVolume(percent int)
}

// Resolver turns a user query into playable tracks. Real resolvers (search
// APIs, extractors) are external collaborators; the core only needs this
// boundary.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]*Track, error)
}

// Notifier announces playback events to the room. The discord adapter backs
// it with embeds; tests record calls.
type Notifier interface {
	// AnnounceNowPlaying posts the primary announcement for the first track
	// of a session and returns the message id for later edits/deletion.
	AnnounceNowPlaying(t *Track) (messageID string, err error)

	// NoticeNowPlaying posts the lighter notice for subsequent tracks.
	NoticeNowPlaying(t *Track) (messageID string, err error)

	// NoticeQueued posts an "added to queue" notice.
	NoticeQueued(t *Track)

	// DeleteAnnouncement removes a previous announcement, best effort.
	DeleteAnnouncement(channelID, messageID string)
}
