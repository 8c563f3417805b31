package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action is the kind of event recorded in history.
type Action string

const (
	ActionSnatched   Action = "snatched"
	ActionDownloaded Action = "downloaded"
	ActionFailed     Action = "failed"
	ActionSubtitled  Action = "subtitled"
)

// ParseAction validates a textual action.
func ParseAction(value string) (Action, error) {
	switch action := Action(strings.ToLower(strings.TrimSpace(value))); action {
	case ActionSnatched, ActionDownloaded, ActionFailed, ActionSubtitled:
		return action, nil
	default:
		return "", fmt.Errorf("unknown history action %q", value)
	}
}

// Entry is one history row.
type Entry struct {
	ID        int64
	Action    Action
	Resource  string
	Show      string
	InfoHash  string
	Size      int64
	CreatedAt time.Time
}

// Record appends an entry. CreatedAt defaults to the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.Resource) == "" {
		return Entry{}, errors.New("history record: resource is required")
	}
	if _, err := ParseAction(string(entry.Action)); err != nil {
		return Entry{}, err
	}
	created := s.timestamp()
	if !entry.CreatedAt.IsZero() {
		created = entry.CreatedAt.UTC().Format(timeLayout)
	}
	res, err := s.exec(ctx,
		`INSERT INTO history (action, resource, show, info_hash, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.Action), entry.Resource, nullString(entry.Show), nullString(strings.ToLower(entry.InfoHash)), entry.Size, created,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("history id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = parseTime(created)
	entry.InfoHash = strings.ToLower(entry.InfoHash)
	return entry, nil
}

// AlreadyProcessed reports whether a completed download whose resource ends
// with name exists.
func (s *Store) AlreadyProcessed(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	var count int
	err := s.scanRow(ctx,
		`SELECT COUNT(1) FROM history WHERE action = ? AND resource LIKE ? ESCAPE '\'`,
		[]any{string(ActionDownloaded), "%" + escapeLike(name)}, &count)
	if err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	return count > 0, nil
}

// SnatchedHash returns the info hash of the most recent snatch whose resource
// matches release, case-insensitively. An empty string means none was found.
func (s *Store) SnatchedHash(ctx context.Context, release string) (string, error) {
	release = strings.TrimSpace(release)
	if release == "" {
		return "", nil
	}
	var hash sql.NullString
	err := s.scanRow(ctx,
		`SELECT info_hash FROM history
		 WHERE action = ? AND info_hash IS NOT NULL AND info_hash != '' AND resource = ? COLLATE NOCASE
		 ORDER BY id DESC LIMIT 1`,
		[]any{string(ActionSnatched), release}, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query snatch: %w", err)
	}
	return hash.String, nil
}

// List returns the newest entries first. A limit of zero returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, action, resource, show, info_hash, size, created_at FROM history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			action  string
			show    sql.NullString
			hash    sql.NullString
			created string
		)
		if err := rows.Scan(&entry.ID, &action, &entry.Resource, &show, &hash, &entry.Size, &created); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Action = Action(action)
		entry.Show = show.String
		entry.InfoHash = hash.String
		entry.CreatedAt = parseTime(created)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every history entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}
