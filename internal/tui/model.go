// Package tui is a terminal reader for manuals. It hosts a
// navigation.Controller inside a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/navigation"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

// Controller is the part of navigation.Controller the reader drives.
type Controller interface {
	State() navigation.State
	ToggleSidebar()
	CloseSidebar()
	NextPage() bool
	PrevPage() bool
	SwitchVersion(version string)
	Navigate(route string)
}

// sidebarWidth is the width of the table of contents pane.
const sidebarWidth = 32

// Model is the reader's bubbletea model.
type Model struct {
	ctx    context.Context
	entry  registry.Entry
	ctrl   Controller
	back   func() bool
	bridge *Bridge

	keys     KeyMap
	help     help.Model
	styles   Styles
	viewport viewport.Model

	state  navigation.State
	cursor int
	width  int
	height int
	ready  bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// NewModel creates a reader for entry. back pops the router history and may
// be nil.
func NewModel(ctx context.Context, entry registry.Entry, ctrl Controller, back func() bool, bridge *Bridge) *Model {
	return &Model{
		ctx:      ctx,
		entry:    entry,
		ctrl:     ctrl,
		back:     back,
		bridge:   bridge,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   DefaultStyles(),
		viewport: viewport.New(80, 20),
		state:    ctrl.State(),
	}
}

// Init starts listening for controller updates.
func (m *Model) Init() tea.Cmd {
	return m.bridge.wait(m.ctx)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case stateMsg:
		m.apply(msg)
		return m, m.bridge.wait(m.ctx)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) apply(msg stateMsg) {
	if msg.State != nil {
		contentChanged := !sameContent(m.state.Content, msg.State.Content)
		m.state = *msg.State
		if contentChanged {
			m.viewport.SetContent(m.contentText())
		}
		if m.cursor >= m.state.Pages.Len() {
			m.cursor = max(0, m.state.Pages.Len()-1)
		}
	}
	if msg.ScrollTop {
		m.viewport.GotoTop()
	}
	if msg.ScrollTOC && m.state.PageIndex >= 0 {
		m.cursor = m.state.PageIndex
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Sidebar):
		m.ctrl.ToggleSidebar()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.NextPage()
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.PrevPage()
	case key.Matches(msg, m.keys.Version):
		m.ctrl.SwitchVersion(m.nextVersion())
	case key.Matches(msg, m.keys.Back):
		if m.back != nil {
			m.back()
		}
	case m.state.SidebarOpen && key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case m.state.SidebarOpen && key.Matches(msg, m.keys.Down):
		if m.cursor < m.state.Pages.Len()-1 {
			m.cursor++
		}
	case m.state.SidebarOpen && key.Matches(msg, m.keys.Open):
		if m.cursor < m.state.Pages.Len() {
			page := m.state.Pages.Pages[m.cursor]
			m.ctrl.Navigate(m.state.Pages.Href(page, m.state.Location.Version))
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextVersion returns the selector entry after the current version,
// wrapping around.
func (m *Model) nextVersion() string {
	opts := m.state.VersionOptions(m.entry.DefaultBranch)
	current := m.state.Location.Version
	if current == "" {
		current = m.entry.DefaultBranch
	}
	i := slices.Index(opts, current)
	return opts[(i+1)%len(opts)]
}

func (m *Model) resize() {
	w := m.width
	if m.state.SidebarOpen {
		w -= sidebarWidth + 2
	}
	m.viewport.Width = max(w, 20)
	// header, blank line, help footer
	m.viewport.Height = max(m.height-4, 3)
	m.viewport.SetContent(m.contentText())
}

func (m *Model) contentText() string {
	if m.state.Content == nil {
		return m.styles.Muted.Render("Loading...")
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(*m.state.Content)
}

// View renders the reader.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	m.resize()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	body := m.viewport.View()
	if m.state.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), body)
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	title := m.entry.Title
	if title == "" {
		title = m.entry.Name
	}
	version := m.state.Location.Version
	if version == "" {
		version = m.entry.DefaultBranch
	}
	line := m.styles.Title.Render(title) + " " + m.styles.Selected.Render("@"+version) +
		" " + m.styles.Muted.Render(m.state.Location.Path)
	switch m.state.VersionsStatus {
	case navigation.VersionsFailed:
		line += " " + m.styles.Error.Render("(versions unavailable)")
	case navigation.VersionsLoading:
		line += " " + m.styles.Muted.Render("(loading versions)")
	}
	return line
}

func (m *Model) sidebar() string {
	pages := m.state.Pages.Pages
	if len(pages) == 0 {
		return m.styles.Sidebar.Width(sidebarWidth).Render(m.styles.Muted.Render("No contents"))
	}

	var b strings.Builder
	for i, p := range pages {
		name := p.Name
		if strings.Count(p.DocPath, "/") > 1 {
			name = m.styles.Child.Render(name)
		}
		switch {
		case i == m.cursor:
			name = m.styles.Cursor.Render(name)
		case i == m.state.PageIndex:
			name = m.styles.Active.Render(name)
		}
		b.WriteString(name)
		if i < len(pages)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Sidebar.Width(sidebarWidth).Height(m.viewport.Height).Render(b.String())
}

func (m *Model) footer() string {
	var nav string
	if m.state.Prev != nil {
		nav += "← " + m.state.Prev.Name
	}
	if m.state.Next != nil {
		if nav != "" {
			nav += "  "
		}
		nav += m.state.Next.Name + " →"
	}
	if nav != "" {
		nav = m.styles.Muted.Render(nav) + "  "
	}
	return nav + m.help.View(m.keys)
}

// State returns the last state the model rendered.
func (m *Model) State() navigation.State { return m.state }

// Cursor returns the table of contents cursor.
func (m *Model) Cursor() int { return m.cursor }

func sameContent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Run opens route in the reader and blocks until the user quits. The
// router and view of deps are supplied by Run.
func Run(ctx context.Context, deps navigation.Deps, route string, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router := navigation.NewMemoryRouter(route)
	bridge := NewBridge()
	deps.Router = router
	deps.View = bridge
	ctrl, err := navigation.New(deps)
	if err != nil {
		return err
	}

	unmount := ctrl.Mount(ctx, route)
	defer func() {
		unmount()
		cancel()
		ctrl.Wait()
	}()

	model := NewModel(ctx, deps.Entry, ctrl, router.Back, bridge)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("running reader: %w", err)
	}
	return nil
}

// RouteFor builds the initial route from an identifier token and path
// segments, as given on the command line.
func RouteFor(token string, segments []string, defaultPath string) (string, error) {
	loc, err := manual.ResolveDefault(token, segments, defaultPath)
	if err != nil {
		return "", err
	}
	return loc.Canonical().Route(), nil
}
