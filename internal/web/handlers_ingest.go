package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
)

var errBadRequest = errors.New("invalid request")

// multipartMemory is how much of a multipart body is kept in memory;
// the rest spills to temporary files.
const multipartMemory = 8 << 20

// uploadedFile adapts a multipart file header to core.FileSource.
type uploadedFile struct {
	fh *multipart.FileHeader
}

func (f uploadedFile) Name() string {
	// Browsers may send a full client path.
	return filepath.Base(strings.ReplaceAll(f.fh.Filename, `\`, "/"))
}

func (f uploadedFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

// handleIngestFiles ingests the multipart "files" field in the order sent.
func (s *Server) handleIngestFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	maxBody := s.cfg.Ingest.MaxFileSize*int64(s.cfg.Ingest.MaxFiles) + multipartMemory
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, fmt.Errorf("%w: request body over %d bytes", core.ErrFileTooLarge, maxBytes.Limit))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}

	files := make([]core.FileSource, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadedFile{fh: fh})
	}

	result, err := s.service.IngestFiles(r.Context(), id, r.FormValue("source"), files)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDone(w, r, id, http.StatusOK, result, result.Message)
}

// pasteRequest is the JSON body of a paste.
type pasteRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// handleIngestPaste ingests pasted text sent as JSON or as a form.
func (s *Server) handleIngestPaste(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxFileSize)

	var req pasteRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, pasteBodyError(err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, pasteBodyError(err))
			return
		}
		req.Text = r.PostFormValue("text")
		req.Source = r.PostFormValue("source")
	}

	result, err := s.service.IngestPaste(r.Context(), id, req.Text, req.Source)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondDone(w, r, id, http.StatusOK, result, result.Message)
}

func pasteBodyError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return fmt.Errorf("%w: pasted text over %d bytes", core.ErrFileTooLarge, maxBytes.Limit)
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}
