package site

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/navigation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming live session message format.
type clientMessage struct {
	Type    string `json:"type"` // navigate, back, next, prev, open_sidebar, close_sidebar, toggle_sidebar, switch_version
	Route   string `json:"route,omitempty"`
	Version string `json:"version,omitempty"`
}

// serverMessage is the outgoing live session message format.
type serverMessage struct {
	Type    string    `json:"type"` // state, scroll_top, scroll_toc or error
	Session string    `json:"session"`
	State   *pageView `json:"state,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// handleLive runs a live navigation session for one browser tab. The
// initial route comes from the route query parameter.
func (s *Site) handleLive(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	route := r.URL.Query().Get("route")
	if route == "" {
		route = manual.RoutePath(m.Entry.Name, "", "")
	}
	loc, err := manual.ParseRouteDefault(route, m.Entry.DefaultPath)
	if err != nil || loc.Name != m.Entry.Name {
		http.Error(w, "route does not belong to this manual", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("live session upgrade failed", logfields.Error(err))
		return
	}
	defer conn.Close()

	sess := &liveSession{
		site:   s,
		manual: m,
		id:     uuid.NewString(),
		conn:   conn,
		out:    make(chan serverMessage, 32),
	}
	sess.logger = s.logger.With(logfields.Session(sess.id), logfields.Manual(m.Entry.Name))
	s.rec.SetLiveSessions(int(s.sessions.Add(1)))
	defer func() { s.rec.SetLiveSessions(int(s.sessions.Add(-1))) }()

	sess.run(r.Context(), route)
}

// liveSession is a navigation.View that forwards state over a websocket.
type liveSession struct {
	site   *Site
	manual *Manual
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	out    chan serverMessage
	ctx    context.Context
}

func (l *liveSession) run(parent context.Context, route string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	l.ctx = ctx

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.writeLoop(ctx, cancel)
	}()
	// Unblock the reader when the server shuts down or the writer fails.
	go func() {
		<-ctx.Done()
		l.conn.Close()
	}()

	router := navigation.NewMemoryRouter(route)
	ctrl, err := l.site.newController(l.manual, l.manual.Versions, router, l, l.logger)
	if err != nil {
		l.logger.Error("creating live controller", logfields.Error(err))
		cancel()
		wg.Wait()
		return
	}
	l.logger.Info("live session started", logfields.URL(route))
	unmount := ctrl.Mount(ctx, route)

	l.readLoop(ctrl, router)

	unmount()
	cancel()
	ctrl.Wait()
	wg.Wait()
	l.logger.Info("live session ended")
}

func (l *liveSession) readLoop(ctrl *navigation.Controller, router *navigation.MemoryRouter) {
	for {
		var msg clientMessage
		if err := l.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.logger.Warn("live session read", logfields.Error(err))
			}
			return
		}
		if l.ctx.Err() != nil {
			return
		}

		switch msg.Type {
		case "navigate":
			if msg.Route == "" {
				l.send(serverMessage{Type: "error", Error: "route is required"})
				continue
			}
			ctrl.Navigate(msg.Route)
		case "back":
			router.Back()
		case "next":
			ctrl.NextPage()
		case "prev":
			ctrl.PrevPage()
		case "open_sidebar":
			ctrl.OpenSidebar()
		case "close_sidebar":
			ctrl.CloseSidebar()
		case "toggle_sidebar":
			ctrl.ToggleSidebar()
		case "switch_version":
			ctrl.SwitchVersion(msg.Version)
		default:
			l.send(serverMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}

func (l *liveSession) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-l.out:
			if err := l.conn.WriteJSON(msg); err != nil {
				l.logger.Warn("live session write", logfields.Error(err))
				cancel()
				return
			}
		}
	}
}

func (l *liveSession) send(msg serverMessage) {
	msg.Session = l.id
	select {
	case l.out <- msg:
	case <-l.ctx.Done():
	}
}

func (l *liveSession) Render(st navigation.State) {
	view, err := l.site.buildView(l.manual, st)
	if err != nil {
		l.logger.Error("rendering live state", logfields.Path(st.Location.Path), logfields.Error(err))
		l.send(serverMessage{Type: "error", Error: "failed to render page"})
		return
	}
	l.send(serverMessage{Type: "state", State: &view})
}

func (l *liveSession) ScrollContentToTop() { l.send(serverMessage{Type: "scroll_top"}) }
func (l *liveSession) ScrollTOCIntoView()  { l.send(serverMessage{Type: "scroll_toc"}) }
