package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSource is a named file whose contents can be opened for reading.
// Reading is the only step of ingestion that may block.
type FileSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type readerSource struct {
	name string
	r    io.Reader
}

func (s readerSource) Name() string { return s.name }

func (s readerSource) Open() (io.ReadCloser, error) { return io.NopCloser(s.r), nil }

// NamedReader wraps r as a FileSource called name. It can be opened once.
func NamedReader(name string, r io.Reader) FileSource {
	return readerSource{name: name, r: r}
}

type pathSource string

func (p pathSource) Name() string { return filepath.Base(string(p)) }

func (p pathSource) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

// LocalFile returns a FileSource for a path on disk.
func LocalFile(path string) FileSource {
	return pathSource(path)
}

// FileFailure records why a supported file could not be read.
type FileFailure struct {
	Name string
	Err  error
}

// BatchReport summarizes the ingestion of several files into one store.
type BatchReport struct {
	Files    int                 `json:"files"`
	Added    int                 `json:"added"`
	Unparsed []UnparsedFileEntry `json:"unparsed"`
	Failures []FileFailure       `json:"-"`
}

// Message returns the operator-facing summary line.
func (r BatchReport) Message() string {
	return fmt.Sprintf("Parsed %d row(s) from %d file(s).", r.Added, r.Files)
}

// IngestFile routes, reads and parses one file.
//
// Unsupported files and read failures come back as an UnparsedFileEntry; err
// carries the underlying read failure for logging and is nil otherwise.
func (p *Pipeline) IngestFile(f FileSource, source string, limit int64) (records []WorkerRecord, unparsed *UnparsedFileEntry, err error) {
	name := f.Name()
	entry := &UnparsedFileEntry{Name: name, Extension: Extension(name)}

	mode, reason, ok := RouteFile(name)
	if !ok {
		entry.Reason = reason
		return nil, entry, nil
	}

	text, err := readSource(f, limit)
	if err != nil {
		entry.Reason = ReasonReadOrParseError
		return nil, entry, err
	}

	return p.Ingest(text, source, mode), nil, nil
}

func readSource(f FileSource, limit int64) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	text, err := ReadText(rc, limit)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	return text, nil
}

// IngestBatch ingests files strictly in the given order into store.
//
// Each file's records are appended as soon as that file is parsed, so a later
// failure never rolls back earlier files. A failing file becomes an unparsed
// entry and processing continues with the next one.
func (p *Pipeline) IngestBatch(store *Store, files []FileSource, source string, limit int64) BatchReport {
	report := BatchReport{Files: len(files), Unparsed: make([]UnparsedFileEntry, 0)}

	for _, f := range files {
		records, unparsed, err := p.IngestFile(f, source, limit)
		if err != nil {
			report.Failures = append(report.Failures, FileFailure{Name: f.Name(), Err: err})
		}
		if unparsed != nil {
			store.AppendUnparsed([]UnparsedFileEntry{*unparsed})
			report.Unparsed = append(report.Unparsed, *unparsed)
			continue
		}
		store.Append(records)
		report.Added += len(records)
	}

	return report
}

// SourceLabel returns label trimmed, or fallback when label is blank.
func SourceLabel(label, fallback string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return fallback
}
