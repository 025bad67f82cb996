// Package music drives the per-guild playback state machine: a FIFO queue
// with loop modes on top of a media player port. Voice encoding and source
// resolution live outside this package, behind the Player and Resolver ports.
package music

import "time"

// UserData is the metadata riding along with every enqueued track. It travels
// with the track through clone-on-loop so re-queued clones keep provenance.
type UserData struct {
	RequesterID string
	ChannelID   string
	Thumbnail   string

	// AnnouncementID is the id of the "now playing" message for this track,
	// kept so it can be edited or deleted later.
	AnnouncementID string

	// AnnounceQueued requests an "added to queue" notice when the track is
	// appended behind a playing one.
	AnnounceQueued bool

	// FirstOfSession is set by the scheduler on the first track to start
	// in a playback session.
	FirstOfSession bool

	// Plays counts how often this track (or its clones) has started.
	Plays int
}

// Track pairs an opaque playable source with its metadata.
type Track struct {
	// Source is the handle the player knows how to play. The core never
	// interprets it.
	Source   string
	Title    string
	Duration time.Duration
	UserData *UserData
}

// Clone duplicates the (source reference, metadata) pair. The underlying
// media resource is shared, the metadata is not.
func (t *Track) Clone() *Track {
	clone := &Track{
		Source:   t.Source,
		Title:    t.Title,
		Duration: t.Duration,
	}
	if t.UserData != nil {
		ud := *t.UserData
		clone.UserData = &ud
	}
	return clone
}
