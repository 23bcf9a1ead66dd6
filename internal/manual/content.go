package manual

import (
	"context"

	"github.com/ziadkadry99/manualsite/internal/cache"
	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/metrics"
)

// NotFoundMarkdown is shown in place of any document that could not be fetched.
const NotFoundMarkdown = "# 404 - Not Found\nWhoops, the page does not seem to exist."

// ContentFetcher fetches the markdown source of documents.
type ContentFetcher struct {
	*Source
}

// NewContentFetcher creates a fetcher over src.
func NewContentFetcher(src *Source) *ContentFetcher {
	return &ContentFetcher{Source: src}
}

// Fetch returns the markdown for path at version. It never fails: a non-200
// response or a transport error yields NotFoundMarkdown.
func (f *ContentFetcher) Fetch(ctx context.Context, version, path string) string {
	url := f.FileURL(version, path)
	body, err := f.fetch(ctx, metrics.FetchContent, f.key(cache.KindContent, version, path), url)
	if err != nil {
		if IsNotFound(err) {
			f.logger().Info("document not found", logfields.URL(url), logfields.Error(err))
		} else {
			f.logger().Error("failed to fetch content", logfields.URL(url), logfields.Error(err))
		}
		return NotFoundMarkdown
	}
	return string(body)
}
