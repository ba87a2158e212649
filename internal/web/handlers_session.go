package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
)

// unparsedResponse is an unparsed file with its user-facing explanation.
type unparsedResponse struct {
	core.UnparsedFileEntry
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// countsResponse is the chart data for a session.
type countsResponse struct {
	Counts    core.CategoryCounts `json:"counts"`
	Selection string              `json:"selection"`
	Total     int                 `json:"total"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.service.CreateSession(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":  id,
		"url": sessionPath(id),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecords returns the visible records. ?category= overrides the
// session's own selection for this request only.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var (
		records []core.WorkerRecord
		err     error
	)
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := core.ParseCategory(raw)
		if !ok {
			s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownCategory, raw))
			return
		}
		records, err = s.service.Records(id, core.Select(c))
	} else {
		records, err = s.service.VisibleRecords(id)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleUnparsed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Unparsed(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]unparsedResponse, 0, len(entries))
	for _, e := range entries {
		msg := core.MapReason(e.Reason)
		out = append(out, unparsedResponse{
			UnparsedFileEntry: e,
			Message:           msg.Message,
			Action:            msg.Action,
			Code:              msg.Code,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"unparsed": out})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, sel, err := s.service.Counts(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countsResponse{
		Counts:    counts,
		Selection: sel.String(),
		Total:     counts.Total(),
	})
}

// handleToggleFilter selects a category, or clears it when already selected.
func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	raw := chi.URLParam(r, "category")

	c, ok := core.ParseCategory(raw)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownCategory, raw))
		return
	}

	sel, err := s.service.ToggleFilter(id, c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDone(w, r, id, http.StatusOK, map[string]string{"selection": sel.String()}, "")
}

func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.service.ClearFilter(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDone(w, r, id, http.StatusOK, map[string]string{"selection": ""}, "")
}

// handleClear empties the session's records and unparsed files.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.service.Clear(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDone(w, r, id, http.StatusNoContent, nil, "Roster cleared.")
}
