package music

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// URLResolver is the built-in resolver: it accepts a direct media URL and
// wraps it into a single track. Anything smarter (search, playlists) plugs in
// as an external Resolver.
type URLResolver struct {
	// DefaultDuration is assumed when the source does not state one.
	DefaultDuration time.Duration
}

func (r *URLResolver) Resolve(_ context.Context, query string) ([]*Track, error) {
	u, err := url.Parse(strings.TrimSpace(query))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("not a playable URL: %q", query)
	}

	title := path.Base(u.Path)
	if title == "." || title == "/" || title == "" {
		title = u.Host
	}

	duration := r.DefaultDuration
	if duration <= 0 {
		duration = 3 * time.Minute
	}

	return []*Track{{
		Source:   u.String(),
		Title:    title,
		Duration: duration,
	}}, nil
}
