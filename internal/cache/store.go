// Package cache persists fetched manual sources (tables of contents and
// markdown documents) in sqlite so repeated requests skip the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/manualsite/internal/db"
)

// ErrMiss is returned by Get when no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Kind separates the two document families stored in the cache.
type Kind string

const (
	KindTOC     Kind = "toc"
	KindContent Kind = "content"
)

// Key identifies one cached body. Path is empty for tables of contents.
type Key struct {
	Kind    Kind
	Manual  string
	Version string
	Path    string
}

// Entry is a cached body with the time it was fetched.
type Entry struct {
	Body      []byte
	FetchedAt time.Time
}

// Age reports how old the entry is relative to now.
func (e *Entry) Age(now time.Time) time.Duration { return now.Sub(e.FetchedAt) }

// Store reads and writes the fetch_cache table.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Get returns the entry for key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, error) {
	var (
		body []byte
		ts   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM fetch_cache WHERE kind = ? AND manual = ? AND version = ? AND path = ?`,
		string(key.Kind), key.Manual, key.Version, key.Path,
	).Scan(&body, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return &Entry{Body: body, FetchedAt: time.Unix(0, ts)}, nil
}

// Put stores body under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_cache (kind, manual, version, path, body, fetched_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind, manual, version, path) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		string(key.Kind), key.Manual, key.Version, key.Path, body, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *Store) Delete(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM fetch_cache WHERE kind = ? AND manual = ? AND version = ? AND path = ?`,
		string(key.Kind), key.Manual, key.Version, key.Path,
	)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Purge deletes entries fetched more than maxAge ago and returns how many went.
func (s *Store) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM fetch_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}
