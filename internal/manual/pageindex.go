package manual

// PageListEntry is one navigable page. Path is the unversioned route
// (/manual/slug/child); DocPath is the document path within the manual.
type PageListEntry struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	DocPath string `json:"doc_path"`
}

// PageList is the flattened, ordered page sequence of one manual.
type PageList struct {
	Manual string          `json:"manual"`
	Pages  []PageListEntry `json:"pages"`
}

// Flatten walks toc in order, emitting each section followed by its children.
// A nil toc yields an empty list.
func Flatten(manual string, toc *TableOfContents) PageList {
	list := PageList{Manual: manual}
	prefix := "/" + manual
	for _, s := range toc.Sections() {
		doc := "/" + s.Slug
		list.Pages = append(list.Pages, PageListEntry{Path: prefix + doc, Name: s.Name, DocPath: doc})
		for _, c := range s.Children {
			child := doc + "/" + c.Slug
			list.Pages = append(list.Pages, PageListEntry{Path: prefix + child, Name: c.Name, DocPath: child})
		}
	}
	return list
}

// Len returns the number of pages.
func (l PageList) Len() int { return len(l.Pages) }

// Locate returns the index of the page whose route is "/"+manual+path, or -1.
func (l PageList) Locate(path string) int {
	want := "/" + l.Manual + path
	for i, p := range l.Pages {
		if p.Path == want {
			return i
		}
	}
	return -1
}

// Neighbors returns the pages before and after idx. Both are nil when idx is
// out of range; prev is nil on the first page and next on the last.
func (l PageList) Neighbors(idx int) (prev, next *PageListEntry) {
	if idx < 0 || idx >= len(l.Pages) {
		return nil, nil
	}
	if idx > 0 {
		p := l.Pages[idx-1]
		prev = &p
	}
	if idx < len(l.Pages)-1 {
		n := l.Pages[idx+1]
		next = &n
	}
	return prev, next
}

// Href returns the route to e pinned to version.
func (l PageList) Href(e PageListEntry, version string) string {
	return RoutePath(l.Manual, version, e.DocPath)
}
