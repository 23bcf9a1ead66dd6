package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/manualsite/internal/navigation"
)

// stateMsg carries the latest controller state into the bubbletea loop.
// State is nil when only scroll requests are pending.
type stateMsg struct {
	State     *navigation.State
	ScrollTop bool
	ScrollTOC bool
}

// Bridge is the navigation.View of the reader. It never blocks the
// controller: only the newest state is kept, and scroll requests are
// folded into the next delivery.
type Bridge struct {
	mu        sync.Mutex
	latest    *navigation.State
	scrollTop bool
	scrollTOC bool
	notify    chan struct{}
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{notify: make(chan struct{}, 1)}
}

func (b *Bridge) Render(s navigation.State) {
	b.mu.Lock()
	b.latest = &s
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) ScrollContentToTop() {
	b.mu.Lock()
	b.scrollTop = true
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) ScrollTOCIntoView() {
	b.mu.Lock()
	b.scrollTOC = true
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) signal() {
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// take drains the pending update. ok is false when nothing is pending.
func (b *Bridge) take() (msg stateMsg, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil && !b.scrollTop && !b.scrollTOC {
		return stateMsg{}, false
	}
	msg.State = b.latest
	msg.ScrollTop, msg.ScrollTOC = b.scrollTop, b.scrollTOC
	b.latest, b.scrollTop, b.scrollTOC = nil, false, false
	return msg, true
}

// wait returns a command that delivers the next update, or nil once ctx is
// done.
func (b *Bridge) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-b.notify:
				if msg, ok := b.take(); ok {
					return msg
				}
			}
		}
	}
}
