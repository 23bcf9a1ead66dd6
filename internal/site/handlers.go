package site

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
)

// handleIndex redirects to the first registered manual.
func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+s.order[0], http.StatusFound)
}

// handlePage server-renders /{identifier}[/path...].
func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "identifier")
	id, err := manual.ParseIdentifier(token)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	m, ok := s.lookup(id.Name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	loc, err := manual.ResolveDefault(token, []string{chi.URLParam(r, "*")}, m.Entry.DefaultPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if loc.NeedsRedirect() {
		http.Redirect(w, r, loc.Canonical().Route(), http.StatusMovedPermanently)
		return
	}

	start := time.Now()
	st, err := s.snapshot(r.Context(), m, loc.Route())
	if err != nil {
		s.logger.Error("building page state", logfields.Manual(m.Entry.Name), logfields.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	view, err := s.buildView(m, st)
	if err != nil {
		s.logger.Error("rendering page", logfields.Manual(m.Entry.Name), logfields.Path(loc.Path), logfields.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, view); err != nil {
		s.logger.Error("executing page template", logfields.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.rec.ObservePageRender(time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if view.NotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	w.Write(buf.Bytes())
}

type manualSummary struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	DefaultBranch string `json:"default_branch"`
	Route         string `json:"route"`
}

func (s *Site) handleListManuals(w http.ResponseWriter, r *http.Request) {
	out := make([]manualSummary, 0, len(s.order))
	for _, name := range s.order {
		e := s.manuals[name].Entry
		out = append(out, manualSummary{
			Name:          e.Name,
			Title:         e.Title,
			DefaultBranch: e.DefaultBranch,
			Route:         manual.RoutePath(e.Name, "", ""),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Site) handleTOC(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manualParam(w, r)
	if !ok {
		return
	}
	toc, err := m.TOC.Load(r.Context(), r.URL.Query().Get("version"))
	if err != nil {
		s.logger.Warn("table of contents unavailable", logfields.Manual(m.Entry.Name), logfields.Error(err))
		writeError(w, http.StatusBadGateway, "table of contents unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toc)
}

func (s *Site) handlePages(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manualParam(w, r)
	if !ok {
		return
	}
	toc, err := m.TOC.Load(r.Context(), r.URL.Query().Get("version"))
	if err != nil {
		s.logger.Warn("table of contents unavailable", logfields.Manual(m.Entry.Name), logfields.Error(err))
		writeError(w, http.StatusBadGateway, "table of contents unavailable")
		return
	}
	writeJSON(w, http.StatusOK, manual.Flatten(m.Entry.Name, toc))
}

type versionsResponse struct {
	Versions []string `json:"versions"`
	Status   string   `json:"status"`
}

func (s *Site) handleVersions(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manualParam(w, r)
	if !ok {
		return
	}
	if m.Versions == nil {
		writeJSON(w, http.StatusNotFound, versionsResponse{Versions: []string{}, Status: "failed"})
		return
	}
	versions, err := m.Versions.Load(r.Context())
	if err != nil {
		s.logger.Warn("version catalog unavailable", logfields.Manual(m.Entry.Name), logfields.Error(err))
		writeJSON(w, http.StatusBadGateway, versionsResponse{Versions: []string{}, Status: "failed"})
		return
	}
	writeJSON(w, http.StatusOK, versionsResponse{Versions: versions, Status: "loaded"})
}

func (s *Site) manualParam(w http.ResponseWriter, r *http.Request) (*Manual, bool) {
	m, ok := s.lookup(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown manual")
	}
	return m, ok
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write([]byte(body))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
