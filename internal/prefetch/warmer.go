// Package prefetch fills the fetch cache with every page of a manual
// version, so first visits are served without a round trip.
package prefetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/navigation"
)

// ProgressFunc is called after each page with the number of pages done.
type ProgressFunc func(done, total int, path string)

// Warmer fetches all pages of a manual version with bounded parallelism.
type Warmer struct {
	name        string
	toc         navigation.TOCLoader
	content     navigation.ContentFetcher
	concurrency int
	onProgress  ProgressFunc
	logger      *slog.Logger
}

// NewWarmer creates a Warmer for the manual called name.
func NewWarmer(name string, toc navigation.TOCLoader, content navigation.ContentFetcher, concurrency int, onProgress ProgressFunc, logger *slog.Logger) *Warmer {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logfields.Discard()
	}
	return &Warmer{
		name:        name,
		toc:         toc,
		content:     content,
		concurrency: concurrency,
		onProgress:  onProgress,
		logger:      logger,
	}
}

// Result summarises a prefetch run.
type Result struct {
	Pages []manual.PageListEntry
	// Missing lists the document paths that came back as not found.
	Missing []string
}

// Pages loads the page list of version without fetching any document.
func (w *Warmer) Pages(ctx context.Context, version string) (manual.PageList, error) {
	toc, err := w.toc.Load(ctx, version)
	if err != nil {
		return manual.PageList{}, fmt.Errorf("loading table of contents: %w", err)
	}
	return manual.Flatten(w.name, toc), nil
}

// Warm fetches every page of version. Pages are fetched once each; the
// content fetcher's cache does the rest.
func (w *Warmer) Warm(ctx context.Context, version string) (*Result, error) {
	pages, err := w.Pages(ctx, version)
	if err != nil {
		return nil, err
	}
	total := pages.Len()
	result := &Result{Pages: pages.Pages}
	if total == 0 {
		return result, nil
	}

	sem := make(chan struct{}, w.concurrency)
	var mu sync.Mutex
	var processed int64
	var wg sync.WaitGroup

	done := func(path string) {
		count := atomic.AddInt64(&processed, 1)
		if w.onProgress != nil {
			w.onProgress(int(count), total, path)
		}
	}

	for _, p := range pages.Pages {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			defer func() { <-sem }()

			if w.content.Fetch(ctx, version, doc) == manual.NotFoundMarkdown {
				w.logger.Warn("Page missing", logfields.Version(version), logfields.Path(doc))
				mu.Lock()
				result.Missing = append(result.Missing, doc)
				mu.Unlock()
			}
			done(doc)
		}(p.DocPath)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
