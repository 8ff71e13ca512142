package store

import (
	"fmt"
	"sync"

	"tally/internal/core"
)

// MemStore holds tables in memory. It backs tests and the throwaway dev
// backend; contents are lost on process exit.
type MemStore struct {
	mu     sync.Mutex
	tables map[Table][]Record
}

func NewMemStore() *MemStore {
	return &MemStore{
		tables: map[Table][]Record{
			Users:        {},
			Transactions: {},
		},
	}
}

func (s *MemStore) LoadAll(table Table) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = append(Record(nil), rec...)
	}
	return out, nil
}

func (s *MemStore) AppendOne(table Table, rec Record) error {
	if len(rec) != columns(table) {
		return fmt.Errorf("table %s: expected %d columns, got %d", table, columns(table), len(rec))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	s.tables[table] = append(s.tables[table], append(Record(nil), rec...))
	return nil
}

func (s *MemStore) RewriteAll(table Table, recs []Record) error {
	for _, rec := range recs {
		if len(rec) != columns(table) {
			return fmt.Errorf("table %s: expected %d columns, got %d", table, columns(table), len(rec))
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	next := make([]Record, len(recs))
	for i, rec := range recs {
		next[i] = append(Record(nil), rec...)
	}
	s.tables[table] = next
	return nil
}
