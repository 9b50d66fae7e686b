package watchlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"moviebuff/internal/catalog"
	"moviebuff/internal/services"
)

// Entry is one saved movie.
type Entry struct {
	Movie   catalog.Movie `json:"movie"`
	AddedAt time.Time     `json:"added_at"`
}

// Store manages watchlist persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the watchlist database at path and applies
// migrations. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "watchlist", "open", "database path is required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create watchlist dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
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

// Add saves a movie snapshot. It reports false when the id is already saved,
// leaving the existing snapshot untouched. Movies without a positive id are
// rejected with services.ErrInvalidInput.
func (s *Store) Add(ctx context.Context, movie catalog.Movie) (bool, error) {
	if movie.ID <= 0 {
		return false, services.Wrap(services.ErrInvalidInput, "watchlist", "add", "movie id is required", nil)
	}
	payload, err := json.Marshal(movie)
	if err != nil {
		return false, fmt.Errorf("marshal movie: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO watchlist_entries (movie_id, title, release_date, movie_json, added_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(movie_id) DO NOTHING`,
		movie.ID,
		movie.Title,
		nullableString(movie.ReleaseDate),
		string(payload),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("insert watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Remove deletes the entry for id and reports whether one existed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_entries WHERE movie_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Contains reports whether id is saved.
func (s *Store) Contains(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM watchlist_entries WHERE movie_id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check watchlist entry: %w", err)
	}
	return true, nil
}

// List returns every entry in insertion order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie_json, added_at FROM watchlist_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return entries, nil
}

// Count returns the number of saved movies.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM watchlist_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count watchlist: %w", err)
	}
	return count, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry   Entry
		payload string
		addedAt string
	)
	if err := rows.Scan(&payload, &addedAt); err != nil {
		return entry, err
	}
	if err := json.Unmarshal([]byte(payload), &entry.Movie); err != nil {
		return entry, fmt.Errorf("decode movie snapshot: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
		entry.AddedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
