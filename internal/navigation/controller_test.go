package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

type recordingView struct {
	mu     sync.Mutex
	events []string
	states []State
}

func (v *recordingView) Render(s State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "render")
	v.states = append(v.states, s)
}

func (v *recordingView) ScrollContentToTop() { v.record("scroll_top") }
func (v *recordingView) ScrollTOCIntoView()  { v.record("scroll_toc") }

func (v *recordingView) record(e string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, e)
}

func (v *recordingView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}

func (v *recordingView) States() []State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]State(nil), v.states...)
}

type fakeTOC struct {
	mu    sync.Mutex
	tocs  map[string]*manual.TableOfContents
	err   error
	gates map[string]chan struct{}
	calls []string
}

func (f *fakeTOC) Load(_ context.Context, version string) (*manual.TableOfContents, error) {
	f.mu.Lock()
	f.calls = append(f.calls, version)
	gate := f.gates[version]
	toc, err := f.tocs[version], f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if toc == nil {
		return nil, errors.New("no such version")
	}
	return toc, nil
}

func (f *fakeTOC) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type contentCall struct {
	Version     string
	Path        string
	SidebarOpen bool
}

type fakeContent struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls []contentCall
	// probe reports the sidebar state at request time.
	probe func() bool
}

func (f *fakeContent) Fetch(_ context.Context, version, path string) string {
	var open bool
	if f.probe != nil {
		open = f.probe()
	}
	f.mu.Lock()
	f.calls = append(f.calls, contentCall{Version: version, Path: path, SidebarOpen: open})
	gate := f.gates[path]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return body(version, path)
}

func (f *fakeContent) Calls() []contentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contentCall(nil), f.calls...)
}

type fakeVersions struct {
	versions []string
	err      error
}

func (f fakeVersions) Load(context.Context) ([]string, error) { return f.versions, f.err }

type staleCounter struct {
	metrics.NoopRecorder
	mu    sync.Mutex
	stale map[metrics.FetchKind]int
}

func (s *staleCounter) IncStaleResponse(kind metrics.FetchKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale == nil {
		s.stale = map[metrics.FetchKind]int{}
	}
	s.stale[kind]++
}

func (s *staleCounter) Stale(kind metrics.FetchKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale[kind]
}

func body(version, path string) string { return fmt.Sprintf("# %s:%s", version, path) }

func sampleTOC() *manual.TableOfContents {
	return manual.NewTableOfContents(
		manual.Section{Slug: "a", Name: "A"},
		manual.Section{Slug: "b", Name: "B", Children: []manual.Child{{Slug: "c", Name: "C"}}},
	)
}

type harness struct {
	c       *Controller
	router  *MemoryRouter
	view    *recordingView
	toc     *fakeTOC
	content *fakeContent
	rec     *staleCounter
}

func newHarness(t *testing.T, versions VersionLoader) *harness {
	t.Helper()
	h := &harness{
		router: NewMemoryRouter("/"),
		view:   &recordingView{},
		toc: &fakeTOC{
			tocs: map[string]*manual.TableOfContents{
				"":       sampleTOC(),
				"v1.0.0": sampleTOC(),
				"v1.1.0": manual.NewTableOfContents(manual.Section{Slug: "a", Name: "A (1.1)"}),
			},
			gates: map[string]chan struct{}{},
		},
		content: &fakeContent{gates: map[string]chan struct{}{}},
		rec:     &staleCounter{},
	}
	c, err := New(Deps{
		Entry: registry.Entry{
			Name:          "manual",
			DefaultBranch: "master",
			DefaultPath:   manual.DefaultPath,
		},
		TOC:      h.toc,
		Content:  h.content,
		Versions: versions,
		Router:   h.router,
		View:     h.view,
		Metrics:  h.rec,
	})
	require.NoError(t, err)
	h.c = c
	h.content.probe = func() bool { return c.State().SidebarOpen }
	return h
}

func (h *harness) mount(t *testing.T, route string) func() {
	t.Helper()
	unmount := h.c.Mount(t.Context(), route)
	t.Cleanup(func() {
		unmount()
		h.c.Wait()
	})
	return unmount
}

func contentOf(s State) string {
	if s.Content == nil {
		return ""
	}
	return *s.Content
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{Entry: registry.Entry{Name: "manual"}, TOC: &fakeTOC{}, Content: &fakeContent{}})
	assert.Error(t, err)
}

func TestMountLoadsTOCContentAndVersions(t *testing.T) {
	h := newHarness(t, fakeVersions{versions: []string{"v1.0.0", "v1.1.0"}})
	h.mount(t, "/manual/b/c")
	h.c.Wait()

	s := h.c.State()
	assert.Equal(t, manual.Location{Name: "manual", Path: "/b/c"}, s.Location)
	assert.Equal(t, body("", "/b/c"), contentOf(s))
	require.NotNil(t, s.TOC)
	assert.Equal(t, 3, s.Pages.Len())
	assert.Equal(t, 2, s.PageIndex)
	require.NotNil(t, s.Prev)
	assert.Equal(t, "B", s.Prev.Name)
	assert.Nil(t, s.Next)
	assert.Equal(t, VersionsLoaded, s.VersionsStatus)
	assert.Equal(t, []string{"v1.0.0", "v1.1.0"}, s.Versions)
	assert.Equal(t, []string{""}, h.toc.Calls())
	assert.Contains(t, h.view.Events(), "scroll_toc")
}

func TestEmptyPathUsesDefaultDocument(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual")
	h.c.Wait()

	assert.Equal(t, []contentCall{{Path: "/introduction"}}, h.content.Calls())
	assert.Equal(t, -1, h.c.State().PageIndex)
}

func TestOverlappingContentLastRequestWins(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	gate := make(chan struct{})
	h.content.gates["/a"] = gate

	h.mount(t, "/manual/a")
	h.c.Navigate("/manual/b")

	require.Eventually(t, func() bool {
		return contentOf(h.c.State()) == body("", "/b")
	}, time.Second, 5*time.Millisecond)

	close(gate)
	h.c.Wait()

	assert.Equal(t, body("", "/b"), contentOf(h.c.State()))
	assert.Equal(t, 1, h.rec.Stale(metrics.FetchContent))

	seenB := false
	for _, s := range h.view.States() {
		if contentOf(s) == body("", "/b") {
			seenB = true
		}
		if seenB {
			assert.NotEqual(t, body("", "/a"), contentOf(s), "stale content rendered after newer content")
		}
	}
}

func TestOverlappingTOCLastRequestWins(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	gate := make(chan struct{})
	h.toc.gates["v1.0.0"] = gate

	h.mount(t, "/manual@v1.0.0/a")
	h.c.SwitchVersion("v1.1.0")

	require.Eventually(t, func() bool {
		return h.c.State().Pages.Len() == 1
	}, time.Second, 5*time.Millisecond)

	close(gate)
	h.c.Wait()

	s := h.c.State()
	require.Equal(t, 1, s.Pages.Len())
	assert.Equal(t, "A (1.1)", s.Pages.Pages[0].Name)
	assert.Equal(t, 1, h.rec.Stale(metrics.FetchTOC))
}

func TestContentClearedWhileLoading(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()
	require.False(t, h.c.State().Loading())

	gate := make(chan struct{})
	h.content.gates["/b"] = gate
	h.c.Navigate("/manual/b")
	assert.True(t, h.c.State().Loading())

	close(gate)
	h.c.Wait()
	assert.Equal(t, body("", "/b"), contentOf(h.c.State()))
}

func TestSidebarClosedBeforeContentRequested(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()

	h.c.OpenSidebar()
	require.True(t, h.c.State().SidebarOpen)
	events := h.view.Events()
	assert.Equal(t, "scroll_toc", events[len(events)-1])

	h.c.Navigate("/manual/b/c")
	h.c.Wait()

	calls := h.content.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/b/c", calls[1].Path)
	assert.False(t, calls[1].SidebarOpen)
	assert.False(t, h.c.State().SidebarOpen)
}

func TestToggleSidebar(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")

	h.c.ToggleSidebar()
	assert.True(t, h.c.State().SidebarOpen)
	h.c.ToggleSidebar()
	assert.False(t, h.c.State().SidebarOpen)
}

func TestRouteChangeScrollsContentToTop(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()

	h.c.Navigate("/manual/b")
	assert.Contains(t, h.view.Events(), "scroll_top")
}

func TestMarkdownRouteRedirects(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual@v1.0.0/b/c.md")
	h.c.Wait()

	assert.Equal(t, "/manual@v1.0.0/b/c", h.router.Current())
	assert.Equal(t, []contentCall{{Version: "v1.0.0", Path: "/b/c"}}, h.content.Calls())
	for _, s := range h.view.States() {
		assert.False(t, s.Location.NeedsRedirect(), "rendered %q", s.Location.Path)
	}
}

func TestVersionSwitch(t *testing.T) {
	h := newHarness(t, fakeVersions{versions: []string{"v1.0.0"}})
	h.mount(t, "/manual/a")
	h.c.Wait()

	h.c.SwitchVersion("v1.0.0")
	h.c.Wait()
	assert.Equal(t, "/manual@v1.0.0/a", h.router.Current())
	assert.Equal(t, []string{"", "v1.0.0"}, h.toc.Calls())
	assert.Equal(t, body("v1.0.0", "/a"), contentOf(h.c.State()))

	h.c.SwitchVersion("master")
	h.c.Wait()
	assert.Equal(t, "/manual/a", h.router.Current())
	assert.Equal(t, []string{"", "v1.0.0", ""}, h.toc.Calls())
}

func TestPathChangeKeepsTOC(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()

	h.c.Navigate("/manual/b")
	h.c.Wait()
	h.c.Navigate("/manual/b")
	h.c.Wait()

	assert.Equal(t, []string{""}, h.toc.Calls())
	assert.Len(t, h.content.Calls(), 2)
	assert.Equal(t, 1, h.c.State().PageIndex)
}

func TestTOCFailureLeavesNoSidebarContents(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.toc.err = errors.New("boom")
	h.mount(t, "/manual/a")
	h.c.Wait()

	s := h.c.State()
	assert.Nil(t, s.TOC)
	assert.Zero(t, s.Pages.Len())
	assert.Equal(t, -1, s.PageIndex)
	assert.Equal(t, body("", "/a"), contentOf(s))
	assert.NotContains(t, h.view.Events(), "scroll_toc")
}

func TestVersionsFailureIsDistinctFromEmpty(t *testing.T) {
	tests := []struct {
		name   string
		loader VersionLoader
		status VersionsStatus
	}{
		{"empty", fakeVersions{versions: []string{}}, VersionsLoaded},
		{"failed", fakeVersions{err: errors.New("rate limited")}, VersionsFailed},
		{"no source", nil, VersionsFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.loader)
			h.mount(t, "/manual/a")
			h.c.Wait()

			s := h.c.State()
			assert.Equal(t, tt.status, s.VersionsStatus)
			assert.Empty(t, s.Versions)
			assert.Equal(t, []string{"master"}, s.VersionOptions("master"))
		})
	}
}

func TestUnmountDropsLateResponses(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	gate := make(chan struct{})
	h.content.gates["/a"] = gate

	unmount := h.mount(t, "/manual/a")
	unmount()
	close(gate)
	h.c.Wait()

	assert.Nil(t, h.c.State().Content)

	h.router.Push("/manual/b")
	h.c.Wait()
	assert.Len(t, h.content.Calls(), 1)
}

func TestNextAndPrevPage(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual@v1.0.0/a")
	h.c.Wait()

	assert.False(t, h.c.PrevPage())
	require.True(t, h.c.NextPage())
	h.c.Wait()
	assert.Equal(t, "/manual@v1.0.0/b", h.router.Current())

	require.True(t, h.c.NextPage())
	h.c.Wait()
	assert.Equal(t, "/manual@v1.0.0/b/c", h.router.Current())
	assert.False(t, h.c.NextPage())

	require.True(t, h.c.PrevPage())
	h.c.Wait()
	assert.Equal(t, "/manual@v1.0.0/b", h.router.Current())
}

func TestRouteForAnotherManualIgnored(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()

	h.c.Navigate("/std@0.50.0/fs")
	h.c.Wait()
	assert.Equal(t, "/a", h.c.State().Location.Path)
	assert.Len(t, h.content.Calls(), 1)
}

func TestEverySnapshotCarriesLocation(t *testing.T) {
	tests := []struct {
		name   string
		loader VersionLoader
		status VersionsStatus
	}{
		{"no source", nil, VersionsFailed},
		{"instant", fakeVersions{versions: []string{"v1.0.0"}}, VersionsLoaded},
		{"failed", fakeVersions{err: errors.New("rate limited")}, VersionsFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.loader)
			h.mount(t, "/manual/a")
			h.c.Wait()

			states := h.view.States()
			require.NotEmpty(t, states)
			for _, s := range states {
				assert.Equal(t, "manual", s.Location.Name)
				assert.Equal(t, "/a", s.Location.Path)
			}
			assert.Equal(t, tt.status, h.c.State().VersionsStatus)
		})
	}
}

func TestCatalogHeldUntilRouteApplied(t *testing.T) {
	for _, route := range []string{"/", "/std@0.50.0/fs"} {
		t.Run(route, func(t *testing.T) {
			h := newHarness(t, fakeVersions{versions: []string{"v1.0.0"}})
			h.mount(t, route)
			h.c.Wait()
			assert.Empty(t, h.view.States())

			h.c.Navigate("/manual/a")
			h.c.Wait()

			states := h.view.States()
			require.NotEmpty(t, states)
			assert.Equal(t, "manual", states[0].Location.Name)
			assert.Equal(t, VersionsLoaded, states[0].VersionsStatus)
			assert.Equal(t, []string{"v1.0.0"}, states[0].Versions)
		})
	}
}

func TestIgnoredRoutesDoNotScroll(t *testing.T) {
	h := newHarness(t, fakeVersions{})
	h.mount(t, "/manual/a")
	h.c.Wait()
	assert.NotContains(t, h.view.Events(), "scroll_top")

	h.c.Navigate("/std@0.50.0/fs")
	h.c.Navigate("/")
	h.c.Wait()
	assert.NotContains(t, h.view.Events(), "scroll_top")

	h.c.Navigate("/manual/b")
	h.c.Wait()
	events := h.view.Events()
	require.Contains(t, events, "scroll_top")
	assert.Equal(t, 1, countOf(events, "scroll_top"))
}

func countOf(events []string, e string) int {
	n := 0
	for _, got := range events {
		if got == e {
			n++
		}
	}
	return n
}
