package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/navigation"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/render"
)

// pageView is what both the page template and live sessions render from.
type pageView struct {
	Manual         string          `json:"manual"`
	ManualTitle    string          `json:"manual_title"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Route          string          `json:"route"`
	Version        string          `json:"version"`
	Path           string          `json:"path"`
	SidebarOpen    bool            `json:"sidebar_open"`
	Loading        bool            `json:"loading"`
	NotFound       bool            `json:"not_found"`
	ContentHTML    template.HTML   `json:"content_html"`
	TOCHTML        template.HTML   `json:"toc_html"`
	PageIndex      int             `json:"page_index"`
	Prev           *pageLink       `json:"prev,omitempty"`
	Next           *pageLink       `json:"next,omitempty"`
	VersionOptions []versionOption `json:"version_options"`
	VersionsStatus string          `json:"versions_status"`
	SourceURL      string          `json:"source_url"`
	ViewURL        string          `json:"view_url,omitempty"`
}

type pageLink struct {
	Href string `json:"href"`
	Name string `json:"name"`
}

type versionOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// buildView turns a controller snapshot into a pageView, rendering the
// markdown when it has arrived.
func (s *Site) buildView(m *Manual, st navigation.State) (pageView, error) {
	loc := st.Location
	route := loc.Route()
	v := pageView{
		Manual:         m.Entry.Name,
		ManualTitle:    m.Entry.Title,
		Title:          m.Entry.Title,
		Description:    m.Entry.Title,
		Route:          route,
		Version:        loc.Version,
		Path:           loc.Path,
		SidebarOpen:    st.SidebarOpen,
		Loading:        st.Loading(),
		TOCHTML:        template.HTML(tocHTML(m.Entry, st.TOC, loc)),
		PageIndex:      st.PageIndex,
		VersionOptions: versionOptions(m.Entry, st),
		VersionsStatus: st.VersionsStatus.String(),
		SourceURL:      m.Source.FileURL(loc.Version, loc.Path),
		ViewURL:        m.Source.ViewURL(loc.Version, loc.Path),
	}
	if v.ManualTitle == "" {
		v.ManualTitle = m.Entry.Name
	}
	if st.Prev != nil {
		v.Prev = &pageLink{Href: st.Pages.Href(*st.Prev, loc.Version), Name: st.Prev.Name}
	}
	if st.Next != nil {
		v.Next = &pageLink{Href: st.Pages.Href(*st.Next, loc.Version), Name: st.Next.Name}
	}

	if st.Content == nil {
		return v, nil
	}
	content := *st.Content
	v.NotFound = content == manual.NotFoundMarkdown
	html, err := s.renderer.Render(content, s.publicURL+route, v.SourceURL)
	if err != nil {
		return v, err
	}
	v.ContentHTML = html
	if t := render.Title(content); t != "" {
		v.Title = t + " - " + v.ManualTitle
	}
	if d := render.Description(content); d != "" {
		v.Description = d
	}
	return v, nil
}

// versionOptions lists the selector entries. The default branch is offered
// under its name with an empty value, meaning the unpinned manual.
func versionOptions(entry registry.Entry, st navigation.State) []versionOption {
	current := st.Location.Version
	labels := st.VersionOptions(entry.DefaultBranch)
	opts := make([]versionOption, 0, len(labels))
	for _, l := range labels {
		value := l
		if l == entry.DefaultBranch {
			value = ""
		}
		selected := value == current || (l == entry.DefaultBranch && current == entry.DefaultBranch)
		opts = append(opts, versionOption{Value: value, Label: l, Selected: selected})
	}
	return opts
}

// tocHTML renders the table of contents as nested ordered lists. The entry
// for the current document carries the toc-active class.
func tocHTML(entry registry.Entry, toc *manual.TableOfContents, loc manual.Location) string {
	sections := toc.Sections()
	if len(sections) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<ol class="toc">` + "\n")
	for _, sec := range sections {
		doc := "/" + sec.Slug
		fmt.Fprintf(&b, `<li class="toc-section"><a href="%s"%s>%s</a>`,
			template.HTMLEscapeString(manual.RoutePath(entry.Name, loc.Version, doc)), activeClass(loc.Path == doc), template.HTMLEscapeString(sec.Name))
		if len(sec.Children) > 0 {
			b.WriteString("\n<ol>\n")
			for _, c := range sec.Children {
				child := doc + "/" + c.Slug
				fmt.Fprintf(&b, `<li><a href="%s"%s>%s</a></li>`+"\n",
					template.HTMLEscapeString(manual.RoutePath(entry.Name, loc.Version, child)), activeClass(loc.Path == child), template.HTMLEscapeString(c.Name))
			}
			b.WriteString("</ol>\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")
	return b.String()
}

func activeClass(active bool) string {
	if active {
		return ` class="toc-active"`
	}
	return ""
}
