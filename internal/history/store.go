package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"modernc.org/sqlite"

	"postflow/internal/config"
)

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

const (
	sqliteBusy      = 5
	busyAttempts    = 5
	busyBackoff     = 10 * time.Millisecond
	busyBackoffCeil = 200 * time.Millisecond
	timeLayout      = time.RFC3339Nano
)

// Open initializes or connects to the history database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the history database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	params := url.Values{}
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "foreign_keys(1)")
	db, err := sql.Open("sqlite", "file:"+dbPath+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqliteBusy
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// withRetry runs op until it succeeds, fails with a non-busy error, or the
// attempts run out. Backoff doubles up to busyBackoffCeil.
func withRetry[T any](ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyBackoff
	for attempt := 1; ; attempt++ {
		out, err := op(ctx)
		if err == nil || !isBusy(err) || attempt == busyAttempts {
			return out, err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
		delay = min(delay*2, busyBackoffCeil)
	}
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return withRetry(ctx, func(ctx context.Context) (sql.Result, error) {
		return s.db.ExecContext(ctx, query, args...)
	})
}

// scanRow runs a single-row query with busy retry.
func (s *Store) scanRow(ctx context.Context, query string, args []any, dest ...any) error {
	_, err := withRetry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
	return err
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return withRetry(ctx, func(ctx context.Context) (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query, args...)
	})
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
