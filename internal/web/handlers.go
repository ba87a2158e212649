package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/web/templates"
)

// handleHealth reports liveness and the number of open sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

// handleStatus reports ingest limiter and session usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": s.service.SessionCount(),
		"ingest":   s.service.IngestLimiterStatus(),
	})
}

// handleCategories lists the canonical categories in chart order.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": core.Canon(),
		"fallback":   core.FallbackCategory,
	})
}

// handleIndex starts a new roster and redirects to its page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, err := s.service.CreateSession(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, sessionPath(id), http.StatusSeeOther)
}

// handleRosterPage renders the chart, visible records and unparsed files.
func (s *Server) handleRosterPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	counts, sel, err := s.service.Counts(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	records, err := s.service.VisibleRecords(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	unparsed, err := s.service.Unparsed(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view := templates.RosterView{
		SessionID: id,
		Status:    r.URL.Query().Get("status"),
		Counts:    counts,
		Selection: sel,
		Records:   records,
		Unparsed:  make([]templates.UnparsedView, 0, len(unparsed)),
	}
	for _, u := range unparsed {
		view.Unparsed = append(view.Unparsed, templates.UnparsedView{Entry: u, Message: core.MapReason(u.Reason)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.RosterPage(view).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render roster page", "session_id", id, "error", err)
	}
}

func sessionPath(id string) string {
	return "/sessions/" + url.PathEscape(id)
}

// isPageRequest reports whether r came from a form on the roster page.
// Page requests are answered with a redirect instead of JSON.
func isPageRequest(r *http.Request) bool {
	return !wantsJSON(r)
}

// respondDone finishes a mutating request: JSON for the API, or a redirect
// back to the roster page carrying status as a one-line message.
func (s *Server) respondDone(w http.ResponseWriter, r *http.Request, id string, status int, payload any, message string) {
	if isPageRequest(r) {
		target := sessionPath(id)
		if message != "" {
			target += "?status=" + url.QueryEscape(message)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, payload)
}
