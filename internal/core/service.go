package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when MaxSessions is reached.
	ErrTooManySessions = errors.New("too many sessions")

	// ErrTooManyFiles is returned when a batch exceeds MaxFiles.
	ErrTooManyFiles = errors.New("too many files")

	// ErrNoFiles is returned for an empty file batch.
	ErrNoFiles = errors.New("no file provided")

	// ErrUnknownCategory is returned when a filter names a non-canonical category.
	ErrUnknownCategory = errors.New("unknown category")
)

// ServiceOptions configures a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	MaxFileSize          int64
	MaxFiles             int
	MaxSessions          int
	MaxConcurrentIngests int
	MaxWaitTime          time.Duration
	DefaultFileSource    string // Label for files ingested without a source
	PasteSource          string // Label for pasted text ingested without a source
}

func (o ServiceOptions) withDefaults() ServiceOptions {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = 50
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = 1000
	}
	if o.DefaultFileSource == "" {
		o.DefaultFileSource = "Archivo"
	}
	if o.PasteSource == "" {
		o.PasteSource = "Manual"
	}
	return o
}

// Service manages roster sessions for the HTTP shell.
//
// Each session owns one Store and one Selection. All mutations of a session
// run under that session's mutex, so batches into the same session are
// serialized while different sessions ingest in parallel.
type Service struct {
	pipeline *Pipeline
	limiter  *IngestLimiter
	opts     ServiceOptions
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	lastUsed  time.Time
	store     *Store
	selection Selection
}

// SessionInfo is a read-only view of a session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	Records   int       `json:"records"`
	Unparsed  int       `json:"unparsed"`
	Selection string    `json:"selection,omitempty"`
}

// NewService creates a Service. A nil pipeline uses the default taxonomy.
func NewService(p *Pipeline, opts ServiceOptions) *Service {
	if p == nil {
		p = DefaultPipeline()
	}
	opts = opts.withDefaults()

	return &Service{
		pipeline: p,
		limiter:  NewIngestLimiter(opts.MaxConcurrentIngests, opts.MaxWaitTime),
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Pipeline returns the pipeline used for ingestion.
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// CreateSession starts an empty roster session and returns its ID.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.opts.MaxSessions {
		return "", ErrTooManySessions
	}

	now := s.now()
	id := uuid.New().String()
	s.sessions[id] = &session{
		id:        id,
		createdAt: now,
		lastUsed:  now,
		store:     NewStore(),
	}

	logging.WithFields(ctx, "session_id", id).Info("session created", "sessions", len(s.sessions))
	return id, nil
}

// DeleteSession drops a session and everything it holds.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)

	logging.WithFields(ctx, "session_id", id).Info("session deleted")
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Session returns a snapshot of the session's metadata.
func (s *Service) Session(id string) (SessionInfo, error) {
	var info SessionInfo
	err := s.withSession(id, func(sess *session) {
		info = SessionInfo{
			ID:        sess.id,
			CreatedAt: sess.createdAt,
			LastUsed:  sess.lastUsed,
			Records:   sess.store.Len(),
			Unparsed:  len(sess.store.unparsed),
			Selection: sess.selection.String(),
		}
	})
	return info, err
}

// withSession runs fn with the session locked and marks it as used.
func (s *Service) withSession(id string, fn func(*session)) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()
	fn(sess)
	return nil
}

// BatchResult is returned from IngestFiles and IngestPaste.
type BatchResult struct {
	BatchID  string              `json:"batch_id"`
	Files    int                 `json:"files"`
	Added    int                 `json:"added"`
	Mode     string              `json:"mode,omitempty"`
	Unparsed []UnparsedFileEntry `json:"unparsed"`
	Message  string              `json:"message"`
}

// IngestFiles ingests files into a session, in the given order.
//
// Unsupported or unreadable files are recorded as unparsed entries and do not
// stop the batch. The source label defaults to DefaultFileSource.
func (s *Service) IngestFiles(ctx context.Context, id, source string, files []FileSource) (BatchResult, error) {
	if len(files) == 0 {
		return BatchResult{}, ErrNoFiles
	}
	if len(files) > s.opts.MaxFiles {
		return BatchResult{}, fmt.Errorf("%w: %d (max %d)", ErrTooManyFiles, len(files), s.opts.MaxFiles)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return BatchResult{}, err
	}
	defer s.limiter.Release()

	batchID := uuid.New().String()
	label := SourceLabel(source, s.opts.DefaultFileSource)
	logger := logging.WithFields(ctx, "session_id", id, "batch_id", batchID)
	start := time.Now()

	var report BatchReport
	err := s.withSession(id, func(sess *session) {
		report = s.pipeline.IngestBatch(sess.store, files, label, s.opts.MaxFileSize)
	})
	if err != nil {
		return BatchResult{}, err
	}

	for _, f := range report.Failures {
		logger.Warn("file read failed", "file", f.Name, "error", f.Err)
	}
	for _, u := range report.Unparsed {
		logger.Debug("file not parsed", "file", u.Name, "extension", u.Extension, "reason", u.Reason)
	}
	logger.Info("batch ingested",
		"files", report.Files,
		"added", report.Added,
		"unparsed", len(report.Unparsed),
		"source", label,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return BatchResult{
		BatchID:  batchID,
		Files:    report.Files,
		Added:    report.Added,
		Unparsed: report.Unparsed,
		Message:  report.Message(),
	}, nil
}

// IngestPaste ingests pasted text into a session.
// Blank text is a no-op. The source label defaults to PasteSource.
func (s *Service) IngestPaste(ctx context.Context, id, text, source string) (BatchResult, error) {
	result := BatchResult{Unparsed: make([]UnparsedFileEntry, 0)}

	if strings.TrimSpace(text) == "" {
		if _, err := s.Session(id); err != nil {
			return BatchResult{}, err
		}
		result.Message = "Nothing to parse."
		return result, nil
	}

	label := SourceLabel(source, s.opts.PasteSource)
	records, mode := s.pipeline.IngestPaste(text, label)

	err := s.withSession(id, func(sess *session) {
		sess.store.Append(records)
	})
	if err != nil {
		return BatchResult{}, err
	}

	result.BatchID = uuid.New().String()
	result.Added = len(records)
	result.Mode = mode.String()
	result.Message = fmt.Sprintf("Parsed %d row(s) from paste.", len(records))

	logging.WithFields(ctx, "session_id", id, "batch_id", result.BatchID).Info("paste ingested",
		"added", result.Added,
		"mode", result.Mode,
		"source", label,
	)
	return result, nil
}

// Records returns the session's records visible under sel.
func (s *Service) Records(id string, sel Selection) ([]WorkerRecord, error) {
	var out []WorkerRecord
	err := s.withSession(id, func(sess *session) {
		out = Filter(sess.store.All(), sel)
	})
	return out, err
}

// VisibleRecords returns the records visible under the session's own selection.
func (s *Service) VisibleRecords(id string) ([]WorkerRecord, error) {
	var out []WorkerRecord
	err := s.withSession(id, func(sess *session) {
		out = Filter(sess.store.All(), sess.selection)
	})
	return out, err
}

// Unparsed returns the session's unparsed-file entries.
func (s *Service) Unparsed(id string) ([]UnparsedFileEntry, error) {
	var out []UnparsedFileEntry
	err := s.withSession(id, func(sess *session) {
		out = sess.store.Unparsed()
	})
	return out, err
}

// Counts returns the category counts under the session's selection.
func (s *Service) Counts(id string) (CategoryCounts, Selection, error) {
	var (
		counts CategoryCounts
		sel    Selection
	)
	err := s.withSession(id, func(sess *session) {
		sel = sess.selection
		counts = Counts(sess.store.All(), sel)
	})
	return counts, sel, err
}

// ToggleFilter selects c, or clears the filter if c is already selected.
func (s *Service) ToggleFilter(id string, c Category) (Selection, error) {
	if !c.IsCanonical() {
		return NoSelection, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	var sel Selection
	err := s.withSession(id, func(sess *session) {
		sess.selection = sess.selection.Toggle(c)
		sel = sess.selection
	})
	return sel, err
}

// ClearFilter removes the session's category filter.
func (s *Service) ClearFilter(id string) error {
	return s.withSession(id, func(sess *session) {
		sess.selection = sess.selection.Clear()
	})
}

// Clear empties the session's records and unparsed-file list.
// The category filter is kept.
func (s *Service) Clear(ctx context.Context, id string) error {
	var dropped int
	err := s.withSession(id, func(sess *session) {
		dropped = sess.store.Len()
		sess.store.Clear()
	})
	if err != nil {
		return err
	}
	logging.WithFields(ctx, "session_id", id).Info("session cleared", "records_dropped", dropped)
	return nil
}

// IngestLimiterStatus returns the ingest limiter state.
func (s *Service) IngestLimiterStatus() IngestLimiterStatus {
	return s.limiter.Status()
}

// WaitForIngests blocks until all running batches finish or ctx is done.
func (s *Service) WaitForIngests(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
