package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/navigation"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

type fakeController struct {
	state    navigation.State
	toggles  int
	next     int
	prev     int
	versions []string
	routes   []string
}

func (f *fakeController) State() navigation.State      { return f.state }
func (f *fakeController) ToggleSidebar()               { f.toggles++ }
func (f *fakeController) CloseSidebar()                {}
func (f *fakeController) NextPage() bool               { f.next++; return true }
func (f *fakeController) PrevPage() bool               { f.prev++; return true }
func (f *fakeController) SwitchVersion(version string) { f.versions = append(f.versions, version) }
func (f *fakeController) Navigate(route string)        { f.routes = append(f.routes, route) }

var testEntry = registry.Entry{
	Name:          "manual",
	Title:         "The Manual",
	DefaultBranch: "master",
}

func testPages() manual.PageList {
	toc := manual.NewTableOfContents(
		manual.Section{Slug: "a", Name: "A"},
		manual.Section{Slug: "b", Name: "B", Children: []manual.Child{{Slug: "c", Name: "C"}}},
	)
	return manual.Flatten("manual", toc)
}

func newTestModel(state navigation.State) (*Model, *fakeController) {
	ctrl := &fakeController{state: state}
	return NewModel(context.Background(), testEntry, ctrl, nil, NewBridge()), ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSidebarAndPaging(t *testing.T) {
	m, ctrl := newTestModel(navigation.State{})

	m.Update(runes("s"))
	m.Update(runes("n"))
	m.Update(runes("n"))
	m.Update(runes("p"))

	assert.Equal(t, 1, ctrl.toggles)
	assert.Equal(t, 2, ctrl.next)
	assert.Equal(t, 1, ctrl.prev)
}

func TestModelVersionCycle(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{name: "default branch to first release", current: "", want: "v1.0.0"},
		{name: "release to next release", current: "v1.0.0", want: "v1.1.0"},
		{name: "last wraps to default branch", current: "v1.1.0", want: "master"},
		{name: "unlisted pinned version", current: "v0.9.0", want: "master"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newTestModel(navigation.State{
				Location: manual.Location{Name: "manual", Version: tt.current, Path: "/a"},
				Versions: []string{"v1.0.0", "v1.1.0"},
			})
			m.Update(runes("v"))
			assert.Equal(t, []string{tt.want}, ctrl.versions)
		})
	}
}

func TestModelAppliesState(t *testing.T) {
	m, _ := newTestModel(navigation.State{PageIndex: -1})
	content := "# B"
	next := navigation.State{
		Location:    manual.Location{Name: "manual", Path: "/b"},
		SidebarOpen: true,
		PageIndex:   1,
		Content:     &content,
		Pages:       testPages(),
	}

	_, cmd := m.Update(stateMsg{State: &next, ScrollTOC: true})
	assert.NotNil(t, cmd)
	assert.Equal(t, "/b", m.State().Location.Path)
	assert.Equal(t, 1, m.Cursor())

	// Scroll-only updates keep the current state.
	m.Update(stateMsg{ScrollTop: true})
	assert.Equal(t, "/b", m.State().Location.Path)
}

func TestModelCursorNavigation(t *testing.T) {
	m, ctrl := newTestModel(navigation.State{
		Location:    manual.Location{Name: "manual", Version: "v1.0.0", Path: "/a"},
		SidebarOpen: true,
		Pages:       testPages(),
	})

	m.Update(runes("j"))
	m.Update(runes("j"))
	m.Update(runes("j"))
	assert.Equal(t, 2, m.Cursor())
	m.Update(runes("k"))
	assert.Equal(t, 1, m.Cursor())

	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"/manual@v1.0.0/b/c"}, ctrl.routes)
}

func TestModelCursorIgnoredWhileSidebarClosed(t *testing.T) {
	m, ctrl := newTestModel(navigation.State{Pages: testPages()})

	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.Cursor())
	assert.Empty(t, ctrl.routes)
}

func TestModelBackAndQuit(t *testing.T) {
	ctrl := &fakeController{}
	backs := 0
	m := NewModel(context.Background(), testEntry, ctrl, func() bool { backs++; return true }, NewBridge())

	m.Update(runes("b"))
	assert.Equal(t, 1, backs)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	content := "Hello reader"
	m, _ := newTestModel(navigation.State{
		Location:       manual.Location{Name: "manual", Path: "/b/c"},
		SidebarOpen:    true,
		PageIndex:      2,
		Content:        &content,
		Pages:          testPages(),
		VersionsStatus: navigation.VersionsFailed,
	})
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	assert.Contains(t, view, "The Manual")
	assert.Contains(t, view, "@master")
	assert.Contains(t, view, "versions unavailable")
	assert.Contains(t, view, "Hello reader")
	assert.Contains(t, view, "A")
}

func TestRouteFor(t *testing.T) {
	route, err := RouteFor("manual@v1.0.0", []string{"getting_started.md"}, "/introduction")
	require.NoError(t, err)
	assert.Equal(t, "/manual@v1.0.0/getting_started", route)

	route, err = RouteFor("manual", nil, "/introduction")
	require.NoError(t, err)
	assert.Equal(t, "/manual/introduction", route)

	_, err = RouteFor("@v1", nil, "/introduction")
	assert.Error(t, err)
}
