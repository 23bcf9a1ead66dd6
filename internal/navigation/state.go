package navigation

import (
	"slices"

	"github.com/ziadkadry99/manualsite/internal/manual"
)

// VersionsStatus distinguishes a catalog that is still loading, one that
// loaded (possibly empty) and one that failed.
type VersionsStatus int

const (
	VersionsLoading VersionsStatus = iota
	VersionsLoaded
	VersionsFailed
)

func (s VersionsStatus) String() string {
	switch s {
	case VersionsLoaded:
		return "loaded"
	case VersionsFailed:
		return "failed"
	default:
		return "loading"
	}
}

// MarshalText lets the status travel as a string in JSON state pushes.
func (s VersionsStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of a navigation session. Snapshots are shared with
// hosts and must be treated as read-only.
type State struct {
	Location    manual.Location
	SidebarOpen bool
	// PageIndex is the position of Location.Path in Pages, or -1.
	PageIndex int
	// Content is nil while the current document is loading.
	Content *string
	// TOC is nil when none is loaded or the last load failed.
	TOC            *manual.TableOfContents
	Pages          manual.PageList
	Prev           *manual.PageListEntry
	Next           *manual.PageListEntry
	Versions       []string
	VersionsStatus VersionsStatus
}

// Loading reports whether the current document is still being fetched.
func (s State) Loading() bool { return s.Content == nil }

// VersionOptions returns the entries of a version selector: a pinned
// current version the catalog does not list, then the default branch, then
// the catalog in order.
func (s State) VersionOptions(defaultBranch string) []string {
	current := s.Location.Version
	opts := make([]string, 0, len(s.Versions)+2)
	if current != "" && current != defaultBranch && !slices.Contains(s.Versions, current) {
		opts = append(opts, current)
	}
	opts = append(opts, defaultBranch)
	for _, v := range s.Versions {
		if v != defaultBranch {
			opts = append(opts, v)
		}
	}
	return opts
}
