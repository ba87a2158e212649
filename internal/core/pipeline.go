package core

import (
	"path/filepath"
	"strings"
)

// Pipeline bundles the alias table and the keyword rules.
// A Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	aliases map[Field][]string
	rules   []KeywordRule
}

var defaultPipeline = NewPipeline(nil)

// DefaultPipeline returns the pipeline built from the built-in taxonomy.
func DefaultPipeline() *Pipeline {
	return defaultPipeline
}

// NewPipeline builds a pipeline from t. A nil taxonomy means the defaults.
func NewPipeline(t *Taxonomy) *Pipeline {
	if t == nil {
		t = DefaultTaxonomy()
	}

	p := &Pipeline{
		aliases: make(map[Field][]string, len(t.Aliases)),
		rules:   make([]KeywordRule, len(t.Rules)),
	}
	for _, fa := range t.Aliases {
		p.aliases[fa.Field] = append(p.aliases[fa.Field], fa.Aliases...)
	}
	copy(p.rules, t.Rules)
	return p
}

// Ingest parses raw text in the given mode and normalizes every row.
func Ingest(raw, source string, mode Mode) []WorkerRecord {
	return defaultPipeline.Ingest(raw, source, mode)
}

// Ingest parses raw text in the given mode and normalizes every row.
func (p *Pipeline) Ingest(raw, source string, mode Mode) []WorkerRecord {
	var rows []RawRow
	if mode == ModeLines {
		rows = ParseLines(raw, source)
	} else {
		rows = ParseDelimited(raw, source)
	}

	records := make([]WorkerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, p.Normalize(row, source))
	}
	return records
}

// IngestPaste parses pasted text, choosing the mode from its content.
//
// Delimited parsing is used when the first line carries at least one known
// header and yields data rows. Otherwise every line is taken as a bare name,
// so a pasted list of names is never mistaken for a header plus data.
func (p *Pipeline) IngestPaste(raw, source string) ([]WorkerRecord, Mode) {
	if p.Recognizes(Header(raw)) {
		if records := p.Ingest(raw, source, ModeDelimited); len(records) > 0 {
			return records, ModeDelimited
		}
	}
	return p.Ingest(raw, source, ModeLines), ModeLines
}

// Extension returns the uppercased extension of name without the dot.
func Extension(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}

// RouteFile decides how a file is parsed from its name.
// When ok is false, reason explains why the file is rejected.
func RouteFile(name string) (mode Mode, reason ReasonCode, ok bool) {
	switch Extension(name) {
	case "CSV", "TSV":
		return ModeDelimited, "", true
	case "TXT":
		return ModeLines, "", true
	case "PDF", "DOC", "DOCX":
		return 0, ReasonUnsupportedFormat, false
	default:
		return 0, ReasonUnsupportedType, false
	}
}
