package manual

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ziadkadry99/manualsite/internal/cache"
	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

// maxBodyBytes caps how much of a remote document is read.
const maxBodyBytes = 8 << 20

// ErrBodyTooLarge is returned for documents larger than the read limit.
var ErrBodyTooLarge = errors.New("document exceeds size limit")

// StatusError is returned when the remote answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got status %d fetching %s", e.Code, e.URL)
}

// IsNotFound reports whether err is a non-200 response from the remote.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Cache is the subset of cache.Store the loaders need.
type Cache interface {
	Get(ctx context.Context, key cache.Key) (*cache.Entry, error)
	Put(ctx context.Context, key cache.Key, body []byte) error
}

// Source holds what TOCLoader and ContentFetcher share: the manual entry,
// the HTTP client and the optional cache.
type Source struct {
	Entry  registry.Entry
	Client *http.Client
	// Cache is optional. Pinned versions never expire; the default branch
	// expires after BranchTTL.
	Cache     Cache
	BranchTTL time.Duration
	Metrics   metrics.Recorder
	Logger    *slog.Logger
	UserAgent string

	now func() time.Time
}

// TOCURL returns the table-of-contents URL for version.
func (s *Source) TOCURL(version string) string {
	return s.Entry.RawBase(version) + "/toc.json"
}

// FileURL returns the raw markdown URL for a document.
func (s *Source) FileURL(version, path string) string {
	return s.Entry.RawBase(version) + path + MarkdownExt
}

// ViewURL returns the browsable source URL for a document, or "".
func (s *Source) ViewURL(version, path string) string {
	base := s.Entry.ViewBase(version)
	if base == "" {
		return ""
	}
	return base + path + MarkdownExt
}

func (s *Source) logger() *slog.Logger {
	if s.Logger == nil {
		return logfields.Discard()
	}
	return s.Logger
}

func (s *Source) recorder() metrics.Recorder { return metrics.OrNoop(s.Metrics) }

func (s *Source) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// fetch returns the body at rawURL, consulting the cache first.
func (s *Source) fetch(ctx context.Context, kind metrics.FetchKind, key cache.Key, rawURL string) ([]byte, error) {
	if body, ok := s.cached(ctx, key); ok {
		s.recorder().ObserveFetch(kind, 0, metrics.ResultCached)
		return body, nil
	}

	start := time.Now()
	body, err := s.get(ctx, rawURL)
	elapsed := time.Since(start)
	switch {
	case err == nil:
		s.recorder().ObserveFetch(kind, elapsed, metrics.ResultSuccess)
	case IsNotFound(err):
		s.recorder().ObserveFetch(kind, elapsed, metrics.ResultNotFound)
		return nil, err
	default:
		s.recorder().ObserveFetch(kind, elapsed, metrics.ResultFailed)
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, body); err != nil {
			s.logger().Warn("cache write failed", logfields.URL(rawURL), logfields.Error(err))
		}
	}
	return body, nil
}

func (s *Source) cached(ctx context.Context, key cache.Key) ([]byte, bool) {
	if s.Cache == nil {
		return nil, false
	}
	entry, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger().Warn("cache read failed", logfields.Kind(string(key.Kind)), logfields.Error(err))
		}
		return nil, false
	}
	// Tags are immutable; only the moving branch goes stale.
	if key.Version == s.Entry.DefaultBranch && entry.Age(s.clock()) > s.BranchTTL {
		return nil, false
	}
	return entry.Body, true
}

func (s *Source) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("reading %s: %w", rawURL, ErrBodyTooLarge)
	}
	return body, nil
}

func (s *Source) key(kind cache.Kind, version, path string) cache.Key {
	return cache.Key{Kind: kind, Manual: s.Entry.Name, Version: s.Entry.Ref(version), Path: path}
}
