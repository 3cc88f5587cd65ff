package corpus

import "context"

// Source loads the full corpus in its canonical order. A malformed input unit
// fails the whole load; partial corpora are never returned.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// Store is the immutable, ordered record corpus. It is built once at startup
// and shared by all concurrent query executions without locking.
type Store struct {
	records []Record
}

// NewStore wraps the loaded records. The slice must not be mutated afterwards.
func NewStore(records []Record) *Store {
	return &Store{records: records}
}

// Len returns the number of records in the corpus.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the record at position p. The pointer refers into the store's
// backing slice and must be treated as read-only.
func (s *Store) At(p Position) *Record {
	return &s.records[p]
}
