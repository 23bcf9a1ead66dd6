package navigation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

// TOCLoader loads a version's table of contents.
type TOCLoader interface {
	Load(ctx context.Context, version string) (*manual.TableOfContents, error)
}

// ContentFetcher fetches document markdown. It never fails.
type ContentFetcher interface {
	Fetch(ctx context.Context, version, path string) string
}

// VersionLoader loads the version catalog.
type VersionLoader interface {
	Load(ctx context.Context) ([]string, error)
}

// View receives state snapshots and scroll requests. Calls are serialized
// and arrive in commit order. A View must not call back into the
// Controller synchronously.
type View interface {
	Render(State)
	ScrollContentToTop()
	ScrollTOCIntoView()
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Entry   registry.Entry
	TOC     TOCLoader
	Content ContentFetcher
	// Versions is optional; without it the catalog is reported as failed.
	Versions VersionLoader
	Router   Router
	View     View
	Logger   *slog.Logger
	Metrics  metrics.Recorder
}

// Controller is the navigation state machine of one manual page.
type Controller struct {
	deps Deps
	log  *slog.Logger
	rec  metrics.Recorder

	mu      sync.Mutex
	ctx     context.Context
	state   State
	mounted bool
	applied bool
	// Generations of the latest TOC and content requests. A response
	// commits only if its generation is still current.
	tocGen     uint64
	contentGen uint64

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// New creates a controller. Nothing is loaded until Mount.
func New(deps Deps) (*Controller, error) {
	switch {
	case deps.Entry.Name == "":
		return nil, errors.New("navigation: manual entry has no name")
	case deps.TOC == nil || deps.Content == nil:
		return nil, errors.New("navigation: TOC loader and content fetcher are required")
	case deps.Router == nil || deps.View == nil:
		return nil, errors.New("navigation: router and view are required")
	}
	log := deps.Logger
	if log == nil {
		log = logfields.Discard()
	}
	return &Controller{
		deps:  deps,
		log:   log.With(logfields.Manual(deps.Entry.Name)),
		rec:   metrics.OrNoop(deps.Metrics),
		ctx:   context.Background(),
		state: State{PageIndex: -1},
	}, nil
}

// Mount subscribes to the router, applies route and then starts the
// one-time version catalog load. ctx bounds every fetch the controller starts. The
// returned function unsubscribes; responses arriving after it are dropped.
func (c *Controller) Mount(ctx context.Context, route string) (unmount func()) {
	c.mu.Lock()
	c.ctx = ctx
	c.mounted = true
	c.state.VersionsStatus = VersionsLoading
	c.mu.Unlock()

	unsubscribe := c.deps.Router.Subscribe(c)
	c.apply(route, false)
	c.loadVersions()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			c.mu.Lock()
			c.mounted = false
			c.mu.Unlock()
		})
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Entry returns the manual the controller navigates.
func (c *Controller) Entry() registry.Entry { return c.deps.Entry }

// Wait blocks until every load started so far has settled.
func (c *Controller) Wait() { c.wg.Wait() }

// OnRouteChangeStart closes the sidebar.
func (c *Controller) OnRouteChangeStart(route string) {
	c.CloseSidebar()
}

// OnRouteChangeComplete applies the new route and scrolls the content to the
// top. Routes the controller ignores leave the scroll position alone.
func (c *Controller) OnRouteChangeComplete(route string) {
	c.apply(route, true)
}

// OpenSidebar shows the table of contents and scrolls it to the active entry.
func (c *Controller) OpenSidebar() {
	c.mu.Lock()
	c.state.SidebarOpen = true
	c.commitLocked(true)
}

// CloseSidebar hides the table of contents.
func (c *Controller) CloseSidebar() {
	c.mu.Lock()
	if !c.state.SidebarOpen {
		c.mu.Unlock()
		return
	}
	c.state.SidebarOpen = false
	c.commitLocked(false)
}

// ToggleSidebar opens a closed sidebar and closes an open one.
func (c *Controller) ToggleSidebar() {
	if c.State().SidebarOpen {
		c.CloseSidebar()
		return
	}
	c.OpenSidebar()
}

// SwitchVersion navigates to the current document at version. An empty
// version selects the unpinned manual.
func (c *Controller) SwitchVersion(version string) {
	loc := c.State().Location
	if version == c.deps.Entry.DefaultBranch {
		version = ""
	}
	c.deps.Router.Push(manual.RoutePath(c.deps.Entry.Name, version, loc.Path))
}

// Navigate pushes route onto the router.
func (c *Controller) Navigate(route string) {
	c.deps.Router.Push(route)
}

// NextPage navigates to the page after the current one, if any.
func (c *Controller) NextPage() bool {
	return c.step(func(s State) *manual.PageListEntry { return s.Next })
}

// PrevPage navigates to the page before the current one, if any.
func (c *Controller) PrevPage() bool {
	return c.step(func(s State) *manual.PageListEntry { return s.Prev })
}

func (c *Controller) step(pick func(State) *manual.PageListEntry) bool {
	s := c.State()
	target := pick(s)
	if target == nil {
		return false
	}
	c.Navigate(s.Pages.Href(*target, s.Location.Version))
	return true
}

func (c *Controller) defaultPath() string {
	if c.deps.Entry.DefaultPath != "" {
		return c.deps.Entry.DefaultPath
	}
	return manual.DefaultPath
}

// apply moves the controller to route, starting whatever loads the change
// requires.
func (c *Controller) apply(route string, scrollTop bool) {
	loc, err := manual.ParseRouteDefault(route, c.defaultPath())
	if err != nil {
		c.log.Warn("ignoring unparseable route", logfields.URL(route), logfields.Error(err))
		return
	}
	if loc.Name != c.deps.Entry.Name {
		c.log.Warn("ignoring route for another manual", logfields.URL(route))
		return
	}
	if loc.NeedsRedirect() {
		// Never render the .md form; the replaced route comes back through
		// OnRouteChangeComplete.
		c.deps.Router.Replace(loc.Canonical().Route())
		return
	}

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	prev, first := c.state.Location, !c.applied
	c.applied = true
	c.state.Location = loc

	var tocGen, contentGen uint64
	if first || prev.Version != loc.Version {
		c.tocGen++
		tocGen = c.tocGen
	}
	if first || prev.Version != loc.Version || prev.Path != loc.Path {
		c.contentGen++
		contentGen = c.contentGen
		c.state.Content = nil
	}
	c.relocateLocked()
	ctx := c.ctx
	c.publishLocked(scrollTop, false)

	if tocGen != 0 {
		c.loadTOC(ctx, tocGen, loc.Version)
	}
	if contentGen != 0 {
		c.fetchContent(ctx, contentGen, loc.Version, loc.Path)
	}
}

func (c *Controller) loadTOC(ctx context.Context, gen uint64, version string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		toc, err := c.deps.TOC.Load(ctx, version)

		c.mu.Lock()
		if !c.mounted || gen != c.tocGen {
			c.mu.Unlock()
			c.rec.IncStaleResponse(metrics.FetchTOC)
			return
		}
		if err != nil {
			c.log.Error("failed to load table of contents", logfields.Version(version), logfields.Error(err))
			toc = nil
		}
		c.state.TOC = toc
		c.state.Pages = manual.Flatten(c.deps.Entry.Name, toc)
		c.relocateLocked()
		c.commitLocked(toc != nil)
	}()
}

func (c *Controller) fetchContent(ctx context.Context, gen uint64, version, path string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		body := c.deps.Content.Fetch(ctx, version, path)

		c.mu.Lock()
		if !c.mounted || gen != c.contentGen {
			c.mu.Unlock()
			c.rec.IncStaleResponse(metrics.FetchContent)
			return
		}
		c.state.Content = &body
		c.commitLocked(false)
	}()
}

// loadVersions starts the catalog load. Its result is only published once a
// route has been applied; until then it waits in state for the first
// commit to carry it.
func (c *Controller) loadVersions() {
	if c.deps.Versions == nil {
		c.mu.Lock()
		c.state.VersionsStatus = VersionsFailed
		c.commitAppliedLocked()
		return
	}

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		versions, err := c.deps.Versions.Load(ctx)

		c.mu.Lock()
		if !c.mounted {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.log.Error("failed to load versions", logfields.Error(err))
			c.state.Versions = nil
			c.state.VersionsStatus = VersionsFailed
		} else {
			c.state.Versions = versions
			c.state.VersionsStatus = VersionsLoaded
		}
		c.commitAppliedLocked()
	}()
}

// relocateLocked recomputes the page index and neighbours. c.mu must be held.
func (c *Controller) relocateLocked() {
	c.state.PageIndex = c.state.Pages.Locate(c.state.Location.Path)
	c.state.Prev, c.state.Next = c.state.Pages.Neighbors(c.state.PageIndex)
}

// commitAppliedLocked publishes the current state if a route has been
// applied, and releases c.mu either way.
func (c *Controller) commitAppliedLocked() {
	if !c.applied {
		c.mu.Unlock()
		return
	}
	c.commitLocked(false)
}

// commitLocked publishes the current state and releases c.mu.
func (c *Controller) commitLocked(scrollTOC bool) { c.publishLocked(false, scrollTOC) }

// publishLocked delivers the current state, with the optional scroll
// requests, and releases c.mu. Holding notifyMu before releasing c.mu keeps
// deliveries in commit order.
func (c *Controller) publishLocked(scrollTop, scrollTOC bool) {
	snap := c.state
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	if scrollTop {
		c.deps.View.ScrollContentToTop()
	}
	c.deps.View.Render(snap)
	if scrollTOC {
		c.deps.View.ScrollTOCIntoView()
	}
}
