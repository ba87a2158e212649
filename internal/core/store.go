package core

// Store is an append-only, ordered collection of records and unparsed-file
// entries for one ingestion session.
//
// Store has no internal locking. Callers serialize Append, AppendUnparsed and
// Clear (one file's ingestion completes before the next starts).
type Store struct {
	records  []WorkerRecord
	unparsed []UnparsedFileEntry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds records in the given order. Records are never deduplicated.
func (s *Store) Append(records []WorkerRecord) {
	s.records = append(s.records, records...)
}

// AppendUnparsed adds entries describing rejected or failed files.
func (s *Store) AppendUnparsed(entries []UnparsedFileEntry) {
	s.unparsed = append(s.unparsed, entries...)
}

// Clear empties both the records and the unparsed-file list.
func (s *Store) Clear() {
	s.records = nil
	s.unparsed = nil
}

// All returns a snapshot of the records in insertion order.
func (s *Store) All() []WorkerRecord {
	out := make([]WorkerRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Unparsed returns a snapshot of the unparsed-file entries in insertion order.
func (s *Store) Unparsed() []UnparsedFileEntry {
	out := make([]UnparsedFileEntry, len(s.unparsed))
	copy(out, s.unparsed)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}
