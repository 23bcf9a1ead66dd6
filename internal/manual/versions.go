package manual

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

// TagSource lists the tags of a repository in publication order.
type TagSource interface {
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
}

// VersionListLoader fetches the versions a manual can be browsed at.
type VersionListLoader struct {
	Entry   registry.Entry
	Tags    TagSource
	Metrics metrics.Recorder
}

// NewVersionListLoader creates a loader for entry backed by tags.
func NewVersionListLoader(entry registry.Entry, tags TagSource, rec metrics.Recorder) *VersionListLoader {
	return &VersionListLoader{Entry: entry, Tags: tags, Metrics: rec}
}

// Load lists the source repository's tags and keeps the supported ones.
// A successful load with nothing supported returns an empty, non-nil slice.
func (l *VersionListLoader) Load(ctx context.Context) ([]string, error) {
	rec := metrics.OrNoop(l.Metrics)
	if l.Tags == nil || !l.Entry.HasSource() {
		rec.ObserveFetch(metrics.FetchVersions, 0, metrics.ResultFailed)
		return nil, fmt.Errorf("manual %q has no version source", l.Entry.Name)
	}

	start := time.Now()
	tags, err := l.Tags.ListTags(ctx, l.Entry.Owner, l.Entry.Repo)
	if err != nil {
		rec.ObserveFetch(metrics.FetchVersions, time.Since(start), metrics.ResultFailed)
		return nil, fmt.Errorf("listing versions of %s/%s: %w", l.Entry.Owner, l.Entry.Repo, err)
	}
	rec.ObserveFetch(metrics.FetchVersions, time.Since(start), metrics.ResultSuccess)
	return FilterVersions(tags, l.Entry.VersionPrefix, l.Entry.ExcludedVersions), nil
}

// FilterVersions keeps tags in the supported major line and drops excluded
// ones, preserving order. prefix "v1" matches v1, v1.2.0 and v1-beta but not
// v10.0.0. An empty prefix keeps every tag. Excluded entries are exact tags
// or glob patterns (v1.0.0-rc*).
func FilterVersions(tags []string, prefix string, excluded []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !matchesMajor(t, prefix) || isExcluded(t, excluded) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isExcluded(tag string, excluded []string) bool {
	return slices.ContainsFunc(excluded, func(pattern string) bool {
		if pattern == tag {
			return true
		}
		ok, err := doublestar.Match(pattern, tag)
		return err == nil && ok
	})
}

func matchesMajor(tag, prefix string) bool {
	if !strings.HasPrefix(tag, prefix) {
		return false
	}
	if prefix == "" || len(tag) == len(prefix) {
		return true
	}
	next := tag[len(prefix)]
	last := prefix[len(prefix)-1]
	// Only guard against v1 matching v10 when the prefix ends in a digit.
	return !(isDigit(last) && isDigit(next))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
