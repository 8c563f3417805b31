package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Seed is a torrent waiting to be moved to seed storage along with the
// releases post-processed from it.
type Seed struct {
	InfoHash  string
	Releases  []string
	CreatedAt time.Time
}

// TrackSeed remembers that release was post-processed from the torrent.
func (s *Store) TrackSeed(ctx context.Context, infoHash, release string) error {
	infoHash = strings.ToLower(strings.TrimSpace(infoHash))
	if infoHash == "" {
		return errors.New("info hash is required")
	}
	_, err := s.exec(ctx,
		`INSERT OR IGNORE INTO seed_tracking (info_hash, release_name, created_at) VALUES (?, ?, ?)`,
		infoHash, strings.TrimSpace(release), s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("track seed: %w", err)
	}
	return nil
}

// TrackedSeeds returns every tracked torrent, oldest first.
func (s *Store) TrackedSeeds(ctx context.Context) ([]Seed, error) {
	rows, err := s.query(ctx,
		`SELECT info_hash, release_name, created_at FROM seed_tracking ORDER BY created_at, info_hash, release_name`)
	if err != nil {
		return nil, fmt.Errorf("list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []Seed
	index := map[string]int{}
	for rows.Next() {
		var hash, release, created string
		if err := rows.Scan(&hash, &release, &created); err != nil {
			return nil, fmt.Errorf("scan seed: %w", err)
		}
		pos, ok := index[hash]
		if !ok {
			pos = len(seeds)
			index[hash] = pos
			seeds = append(seeds, Seed{InfoHash: hash, CreatedAt: parseTime(created)})
		}
		if release != "" {
			seeds[pos].Releases = append(seeds[pos].Releases, release)
		}
	}
	return seeds, rows.Err()
}

// UntrackSeed forgets a torrent after it has been relocated.
func (s *Store) UntrackSeed(ctx context.Context, infoHash string) error {
	_, err := s.exec(ctx, `DELETE FROM seed_tracking WHERE info_hash = ?`, strings.ToLower(strings.TrimSpace(infoHash)))
	if err != nil {
		return fmt.Errorf("untrack seed: %w", err)
	}
	return nil
}
