// Package site serves manuals over HTTP: server-rendered pages, a small JSON
// API and websocket live sessions in which the browser drives a
// navigation.Controller held on the server.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/navigation"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/render"
)

// Manual bundles the loaders of one registered manual.
type Manual struct {
	Entry   registry.Entry
	Source  *manual.Source
	TOC     *manual.TOCLoader
	Content *manual.ContentFetcher
	// Versions is nil when the manual has no version source.
	Versions navigation.VersionLoader

	catalog *cachedVersions
}

// pageVersions is the catalog source of server-side renders. It never
// waits on the tags API when the catalog is memoized.
func (m *Manual) pageVersions() navigation.VersionLoader {
	if m.catalog != nil {
		return peekVersions{c: m.catalog}
	}
	return m.Versions
}

// NewManual wires the loaders for src. The version catalog is listed through
// tags and kept for versionTTL.
func NewManual(src *manual.Source, tags manual.TagSource, versionTTL time.Duration) *Manual {
	m := &Manual{
		Entry:   src.Entry,
		Source:  src,
		TOC:     manual.NewTOCLoader(src),
		Content: manual.NewContentFetcher(src),
	}
	if tags != nil && src.Entry.HasSource() {
		m.catalog = newCachedVersions(manual.NewVersionListLoader(src.Entry, tags, src.Metrics), versionTTL)
		m.Versions = m.catalog
	}
	return m
}

// Options configure a Site.
type Options struct {
	Manuals  []*Manual
	Renderer *render.Renderer
	// PublicURL prefixes display URLs handed to the renderer; may be empty.
	PublicURL string
	// PageTimeout bounds page and API requests. Live sessions are exempt.
	PageTimeout time.Duration
	Logger      *slog.Logger
	Metrics     metrics.Recorder
}

// Site holds the handlers of the manual site.
type Site struct {
	manuals   map[string]*Manual
	order     []string
	renderer  *render.Renderer
	publicURL string
	timeout   time.Duration
	tmpl      *template.Template
	logger    *slog.Logger
	rec       metrics.Recorder
	sessions  atomic.Int64
}

// New creates a Site serving opts.Manuals.
func New(opts Options) (*Site, error) {
	if len(opts.Manuals) == 0 {
		return nil, errors.New("site: no manuals configured")
	}
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	s := &Site{
		manuals:   make(map[string]*Manual, len(opts.Manuals)),
		renderer:  opts.Renderer,
		publicURL: opts.PublicURL,
		timeout:   opts.PageTimeout,
		tmpl:      tmpl,
		logger:    opts.Logger,
		rec:       metrics.OrNoop(opts.Metrics),
	}
	if s.renderer == nil {
		s.renderer = render.New()
	}
	if s.logger == nil {
		s.logger = logfields.Discard()
	}
	for _, m := range opts.Manuals {
		if _, dup := s.manuals[m.Entry.Name]; dup {
			return nil, fmt.Errorf("site: duplicate manual %q", m.Entry.Name)
		}
		s.manuals[m.Entry.Name] = m
		s.order = append(s.order, m.Entry.Name)
	}
	return s, nil
}

// RegisterRoutes mounts all site routes onto the given router.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/ws/manual/{name}", s.handleLive)

	r.Group(func(r chi.Router) {
		if s.timeout > 0 {
			r.Use(middleware.Timeout(s.timeout))
		}
		r.Get("/_static/style.css", serveAsset("text/css; charset=utf-8", cssContent))
		r.Get("/_static/live.js", serveAsset("application/javascript; charset=utf-8", jsContent))

		r.Route("/api/manuals", func(r chi.Router) {
			r.Get("/", s.handleListManuals)
			r.Get("/{name}/toc", s.handleTOC)
			r.Get("/{name}/pages", s.handlePages)
			r.Get("/{name}/versions", s.handleVersions)
		})

		r.Get("/", s.handleIndex)
		r.Get("/{identifier}", s.handlePage)
		r.Get("/{identifier}/*", s.handlePage)
	})
}

// LiveSessions returns the number of open live sessions.
func (s *Site) LiveSessions() int { return int(s.sessions.Load()) }

func (s *Site) lookup(name string) (*Manual, bool) {
	m, ok := s.manuals[name]
	return m, ok
}

// newController builds a controller for m reporting to view.
func (s *Site) newController(m *Manual, versions navigation.VersionLoader, router navigation.Router, view navigation.View, logger *slog.Logger) (*navigation.Controller, error) {
	return navigation.New(navigation.Deps{
		Entry:    m.Entry,
		TOC:      m.TOC,
		Content:  m.Content,
		Versions: versions,
		Router:   router,
		View:     view,
		Logger:   logger,
		Metrics:  s.rec,
	})
}

// snapshot drives a short-lived controller to route and returns the settled
// state. Redirects are followed through the in-memory router. The version
// catalog comes from memory, so a slow tags API never delays a page.
func (s *Site) snapshot(ctx context.Context, m *Manual, route string) (navigation.State, error) {
	router := navigation.NewMemoryRouter(route)
	ctrl, err := s.newController(m, m.pageVersions(), router, discardView{}, s.logger)
	if err != nil {
		return navigation.State{}, err
	}
	unmount := ctrl.Mount(ctx, route)
	ctrl.Wait()
	unmount()
	return ctrl.State(), nil
}

type discardView struct{}

func (discardView) Render(navigation.State) {}
func (discardView) ScrollContentToTop()     {}
func (discardView) ScrollTOCIntoView()      {}
