// Package registry holds the set of manuals the site can serve. It is built
// once from configuration and passed explicitly to everything that needs to
// look a manual up by name.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/manualsite/internal/config"
)

// ErrUnknownManual is returned by Find for names that are not registered.
var ErrUnknownManual = errors.New("unknown manual")

// versionPlaceholder is substituted in base URLs.
const versionPlaceholder = "{version}"

// Entry describes one versioned manual.
type Entry struct {
	Name             string
	Title            string
	Owner            string
	Repo             string
	RawBaseURL       string
	ViewBaseURL      string
	DefaultBranch    string
	DefaultPath      string
	VersionPrefix    string
	ExcludedVersions []string
}

// Ref returns the git ref to fetch for version: the version itself, or the
// default branch when version is empty.
func (e Entry) Ref(version string) string {
	if version == "" {
		return e.DefaultBranch
	}
	return version
}

// RawBase returns the raw source base URL for version, without a trailing slash.
func (e Entry) RawBase(version string) string {
	return strings.TrimRight(strings.ReplaceAll(e.RawBaseURL, versionPlaceholder, e.Ref(version)), "/")
}

// ViewBase returns the human-facing source base URL for version, or "" when
// the manual has no browsable source.
func (e Entry) ViewBase(version string) string {
	if e.ViewBaseURL == "" {
		return ""
	}
	return strings.TrimRight(strings.ReplaceAll(e.ViewBaseURL, versionPlaceholder, e.Ref(version)), "/")
}

// HasSource reports whether the manual's version catalog can be listed.
func (e Entry) HasSource() bool { return e.Owner != "" && e.Repo != "" }

// Registry is an immutable name -> Entry lookup.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// New builds a registry from entries. Names must be unique and non-empty.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("registry: entry with empty name")
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate manual %q", e.Name)
		}
		r.entries[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return r, nil
}

// FromConfig builds a registry from the configured manuals.
func FromConfig(manuals []config.ManualConfig) (*Registry, error) {
	entries := make([]Entry, 0, len(manuals))
	for _, m := range manuals {
		entries = append(entries, Entry{
			Name:             m.Name,
			Title:            m.Title,
			Owner:            m.Owner,
			Repo:             m.Repo,
			RawBaseURL:       m.RawBaseURL,
			ViewBaseURL:      m.ViewBaseURL,
			DefaultBranch:    m.DefaultBranch,
			DefaultPath:      m.DefaultPath,
			VersionPrefix:    m.VersionPrefix,
			ExcludedVersions: m.ExcludedVersions,
		})
	}
	return New(entries...)
}

// Find returns the entry registered under name.
func (r *Registry) Find(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownManual, name)
	}
	return e, nil
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Sorted returns all entries sorted by name.
func (r *Registry) Sorted() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
