package subtitles

import (
	"context"

	"postflow/internal/release"
)

// ShowLookup reads stored per-show subtitle settings.
type ShowLookup interface {
	ShowSubtitles(ctx context.Context, name string) (enabled bool, found bool, err error)
}

// ShowPolicy resolves the owning show from a file or resource name and
// reports its subtitle setting. Unknown shows are treated as disabled.
type ShowPolicy struct {
	shows ShowLookup
}

// NewShowPolicy builds a policy backed by shows.
func NewShowPolicy(shows ShowLookup) *ShowPolicy {
	return &ShowPolicy{shows: shows}
}

// SubtitlesEnabled parses path, then resourceName, to find the show.
func (p *ShowPolicy) SubtitlesEnabled(ctx context.Context, path, resourceName string) (bool, error) {
	for _, candidate := range []string{path, resourceName} {
		if candidate == "" {
			continue
		}
		info, ok := release.Parse(candidate)
		if !ok {
			continue
		}
		enabled, found, err := p.shows.ShowSubtitles(ctx, info.Show)
		if err != nil {
			return false, err
		}
		if found {
			return enabled, nil
		}
	}
	return false, nil
}
