package site

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ziadkadry99/manualsite/internal/navigation"
)

// catalogRefreshTimeout bounds a background catalog refresh.
const catalogRefreshTimeout = 2 * time.Minute

// errCatalogPending is reported to page renders while the first catalog
// load is still running.
var errCatalogPending = errors.New("version catalog not loaded yet")

// cachedVersions keeps a successful catalog load for ttl so page renders do
// not each hit the tags API. Failures are not kept.
type cachedVersions struct {
	loader navigation.VersionLoader
	ttl    time.Duration
	now    func() time.Time

	mu         sync.Mutex
	versions   []string
	loadedAt   time.Time
	loaded     bool
	refreshing bool
	refreshed  chan struct{}
}

func newCachedVersions(loader navigation.VersionLoader, ttl time.Duration) *cachedVersions {
	return &cachedVersions{loader: loader, ttl: ttl, now: time.Now}
}

func (c *cachedVersions) Load(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if c.fresh() {
		v := slices.Clone(c.versions)
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	versions, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.versions, c.loadedAt, c.loaded = slices.Clone(versions), c.now(), true
	c.mu.Unlock()
	return versions, nil
}

// fresh reports whether the kept catalog is still within ttl. c.mu must be
// held.
func (c *cachedVersions) fresh() bool {
	return c.loaded && c.now().Sub(c.loadedAt) < c.ttl
}

// peek answers from memory without waiting on the tags API. A stale catalog
// is returned as is; a missing or stale one is refreshed in the background.
func (c *cachedVersions) peek(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fresh() && !c.refreshing {
		c.refreshing = true
		c.refreshed = make(chan struct{})
		go c.refresh(context.WithoutCancel(ctx), c.refreshed)
	}
	if !c.loaded {
		return nil, errCatalogPending
	}
	return slices.Clone(c.versions), nil
}

func (c *cachedVersions) refresh(ctx context.Context, done chan struct{}) {
	ctx, cancel := context.WithTimeout(ctx, catalogRefreshTimeout)
	defer cancel()
	_, _ = c.Load(ctx)

	c.mu.Lock()
	c.refreshing = false
	c.mu.Unlock()
	close(done)
}

// peekVersions is the VersionLoader of server-side renders.
type peekVersions struct {
	c *cachedVersions
}

func (p peekVersions) Load(ctx context.Context) ([]string, error) { return p.c.peek(ctx) }
