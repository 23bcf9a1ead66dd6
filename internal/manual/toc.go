package manual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ziadkadry99/manualsite/internal/cache"
	"github.com/ziadkadry99/manualsite/internal/metrics"
)

// TOCEntry is one top-level section: its display name and its ordered
// subsections (child slug -> name).
type TOCEntry struct {
	Name     string                                 `json:"name"`
	Children *orderedmap.OrderedMap[string, string] `json:"children,omitempty"`
}

// TableOfContents is the ordered two-level hierarchy of a manual version.
// Key order is display order and defines the previous/next sequence.
type TableOfContents struct {
	entries *orderedmap.OrderedMap[string, TOCEntry]
}

// Section is a flattened, order-preserving view of one top-level entry.
type Section struct {
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Children []Child `json:"children,omitempty"`
}

// Child is one subsection of a Section.
type Child struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewTableOfContents builds a table of contents from sections in order.
// A repeated slug keeps its first position and takes the later value.
func NewTableOfContents(sections ...Section) *TableOfContents {
	om := orderedmap.New[string, TOCEntry]()
	for _, s := range sections {
		entry := TOCEntry{Name: s.Name}
		if len(s.Children) > 0 {
			entry.Children = orderedmap.New[string, string]()
			for _, c := range s.Children {
				entry.Children.Set(c.Slug, c.Name)
			}
		}
		om.Set(s.Slug, entry)
	}
	return &TableOfContents{entries: om}
}

// ParseTableOfContents decodes a toc.json document, keeping key order.
func ParseTableOfContents(data []byte) (*TableOfContents, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("table of contents: expected a JSON object")
	}
	om := orderedmap.New[string, TOCEntry]()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, fmt.Errorf("table of contents: %w", err)
	}
	return &TableOfContents{entries: om}, nil
}

// Len returns the number of top-level sections.
func (t *TableOfContents) Len() int {
	if t == nil || t.entries == nil {
		return 0
	}
	return t.entries.Len()
}

// Sections returns the top-level entries in order.
func (t *TableOfContents) Sections() []Section {
	if t.Len() == 0 {
		return nil
	}
	out := make([]Section, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		s := Section{Slug: pair.Key, Name: pair.Value.Name}
		if pair.Value.Children != nil {
			for c := pair.Value.Children.Oldest(); c != nil; c = c.Next() {
				s.Children = append(s.Children, Child{Slug: c.Key, Name: c.Value})
			}
		}
		out = append(out, s)
	}
	return out
}

// MarshalJSON writes the toc.json shape in order.
func (t *TableOfContents) MarshalJSON() ([]byte, error) {
	if t == nil || t.entries == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.entries)
}

// TOCLoader fetches a version's table of contents.
type TOCLoader struct {
	*Source
}

// NewTOCLoader creates a loader over src.
func NewTOCLoader(src *Source) *TOCLoader {
	return &TOCLoader{Source: src}
}

// Load fetches and parses the table of contents for version. An empty
// version loads the default branch. Any failure is returned to the caller,
// which is expected to render without a sidebar.
func (l *TOCLoader) Load(ctx context.Context, version string) (*TableOfContents, error) {
	body, err := l.fetch(ctx, metrics.FetchTOC, l.key(cache.KindTOC, version, ""), l.TOCURL(version))
	if err != nil {
		return nil, fmt.Errorf("loading table of contents: %w", err)
	}
	toc, err := ParseTableOfContents(body)
	if err != nil {
		return nil, err
	}
	return toc, nil
}
