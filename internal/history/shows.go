package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Show holds per-show post-processing settings.
type Show struct {
	Name      string
	Subtitles bool
}

// SetShowSubtitles stores whether subtitle handling is enabled for a show.
func (s *Store) SetShowSubtitles(ctx context.Context, name string, enabled bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("show name is required")
	}
	_, err := s.exec(ctx,
		`INSERT INTO shows (name, subtitles, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET subtitles = excluded.subtitles, updated_at = excluded.updated_at`,
		name, boolToInt(enabled), s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("upsert show: %w", err)
	}
	return nil
}

// ShowSubtitles reports the subtitle setting for a show. found is false when
// the show is unknown.
func (s *Store) ShowSubtitles(ctx context.Context, name string) (enabled bool, found bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, false, nil
	}
	var value int
	err = s.scanRow(ctx, `SELECT subtitles FROM shows WHERE name = ?`, []any{name}, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query show: %w", err)
	}
	return value != 0, true, nil
}

// Shows lists every configured show ordered by name.
func (s *Store) Shows(ctx context.Context) ([]Show, error) {
	rows, err := s.query(ctx, `SELECT name, subtitles FROM shows ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		var (
			show  Show
			value int
		)
		if err := rows.Scan(&show.Name, &value); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		show.Subtitles = value != 0
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
